package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/screenwise/screenwise/internal/server/auth"
)

const identityKey = "identity"

// Gate authenticates a request from its Authorization header. A missing
// header or a malformed scheme is rejected before any token verification is
// attempted; a verified access token's claims are attached to the request
// context for downstream handlers.
//
// The gate checks signature and expiry only. Whether the user still exists
// or is still active is re-checked at refresh time, not on every request;
// a deactivated user keeps access until the short access-token expiry.
func Gate(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token not provided"})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format, use: Bearer <token>"})
			return
		}

		claims, err := codec.Verify(auth.ClassAccess, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// IdentityFromContext returns the verified claims attached by Gate.
func IdentityFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// RequireUserType allows only the listed user types past the gate.
func RequireUserType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, t := range allowed {
			if claims.UserType == t {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}
