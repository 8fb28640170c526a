// Package httpapi exposes the authentication service over HTTP. It owns the
// route table, the bearer-token request gate, and the Redis-backed rate
// limiter; all business decisions stay in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/screenwise/screenwise/internal/logging"
	"github.com/screenwise/screenwise/internal/server/auth"
	"github.com/screenwise/screenwise/internal/server/config"
	"github.com/screenwise/screenwise/internal/server/models"
	"github.com/screenwise/screenwise/internal/server/repositories/users"
	"github.com/screenwise/screenwise/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the slice of services.AuthService the HTTP layer depends on.
type AuthService interface {
	Authenticate(ctx context.Context, email string, password string) (*services.TokenPair, *models.PublicUser, error)
	Register(ctx context.Context, params services.RegisterParams) (*models.PublicUser, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	InitiatePasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

type Server struct {
	addr    string
	logger  logging.Logger
	auth    AuthService
	users   users.Repository
	codec   *auth.Codec
	limiter *RateLimiter
	cfg     *config.Config
	engine  *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, svc AuthService, repo users.Repository, codec *auth.Codec, rdb *redis.Client) *Server {
	if cfg.Env != config.EnvDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		addr:    cfg.EndpointAddrHTTP,
		logger:  l.With("module", "http_server"),
		auth:    svc,
		users:   repo,
		codec:   codec,
		limiter: NewRateLimiter(rdb, cfg.AuthRateWindow, l),
		cfg:     cfg,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLogger())

	r.GET("/healthz", s.healthz)

	authGroup := r.Group("/auth")
	authGroup.POST("/login", s.limiter.Limit("auth", s.cfg.AuthRateLimit), s.login)
	authGroup.POST("/register", s.limiter.Limit("register", s.cfg.RegisterRateLimit), s.register)
	authGroup.POST("/refresh-token", s.refreshToken)
	authGroup.POST("/forgot-password", s.limiter.Limit("auth", s.cfg.AuthRateLimit), s.forgotPassword)
	authGroup.POST("/reset-password", s.limiter.Limit("password-reset", s.cfg.PasswordResetRateLimit), s.resetPassword)

	userGroup := r.Group("/users")
	userGroup.Use(Gate(s.codec))
	userGroup.GET("/me", s.me)

	return r
}

// Handler exposes the route table, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// accessLogger logs one line per request, in the spirit of the platform's
// access-log middleware.
func (s *Server) accessLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
