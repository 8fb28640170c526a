// Package auth implements the stateless token codec used by the
// authentication service. Three token classes (access, refresh,
// password-reset) are signed with three independent HS256 secrets, so a
// token issued for one purpose is cryptographically rejected when presented
// for another. Every token additionally carries an explicit token_class
// claim which is asserted after signature verification.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/screenwise/screenwise/internal/common"
	"github.com/screenwise/screenwise/internal/server/config"
)

// Class identifies the purpose a token was minted for.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
	ClassReset   Class = "reset"
)

// Claims is the payload carried by Screenwise tokens. Subject holds the user
// id. Access and refresh tokens carry InstitutionID and UserType; reset
// tokens carry Email so the token dies with an email change.
type Claims struct {
	jwt.RegisteredClaims
	Class         Class  `json:"token_class"`
	InstitutionID string `json:"institution_id,omitempty"`
	UserType      string `json:"user_type,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Codec signs and verifies the three token classes. It keeps no state beyond
// the secrets and lifetimes; expiry is evaluated by wall-clock comparison at
// verification time. There is no revocation list: a leaked token stays valid
// until its embedded expiry.
type Codec struct {
	secrets   map[Class][]byte
	lifetimes map[Class]time.Duration
	now       func() time.Time
}

// NewCodec builds a Codec from the configured secrets and lifetimes. Empty or
// reused secrets are rejected here as well as in config validation, so a
// codec constructed directly with fixture values gets the same guarantees.
func NewCodec(cfg *config.Config) (*Codec, error) {
	secrets := map[Class][]byte{
		ClassAccess:  []byte(cfg.JWTAccessSecret),
		ClassRefresh: []byte(cfg.JWTRefreshSecret),
		ClassReset:   []byte(cfg.JWTResetSecret),
	}

	for class, secret := range secrets {
		if len(secret) == 0 {
			return nil, fmt.Errorf("empty secret for %s tokens", class)
		}
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret ||
		cfg.JWTAccessSecret == cfg.JWTResetSecret ||
		cfg.JWTRefreshSecret == cfg.JWTResetSecret {
		return nil, errors.New("token class secrets must be distinct")
	}

	return &Codec{
		secrets: secrets,
		lifetimes: map[Class]time.Duration{
			ClassAccess:  cfg.AccessTokenValidityDuration,
			ClassRefresh: cfg.RefreshTokenValidityDuration,
			ClassReset:   cfg.ResetTokenValidityDuration,
		},
		now: time.Now,
	}, nil
}

// Issue signs claims for the given class, stamping token_class, issued-at,
// expiry and a random token id. The caller fills Subject and the
// class-specific fields.
func (c *Codec) Issue(class Class, claims Claims) (string, error) {
	secret, ok := c.secrets[class]
	if !ok {
		return "", fmt.Errorf("unknown token class %q", class)
	}

	now := c.now()
	claims.Class = class
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.lifetimes[class]))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", class, err)
	}
	return signed, nil
}

// Verify checks signature and expiry against the secret for class and returns
// the decoded claims. Expired tokens yield common.ErrTokenExpired; any other
// failure, including a token_class mismatch, yields common.ErrInvalidToken.
func (c *Codec) Verify(class Class, tokenString string) (*Claims, error) {
	secret, ok := c.secrets[class]
	if !ok {
		return nil, fmt.Errorf("unknown token class %q", class)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Class != class {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
