// Package server initializes and runs the Screenwise authentication server.
// It wires the credential store, the token codec, the mail sender and the
// HTTP endpoint together, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/screenwise/screenwise/internal/logging"
	"github.com/screenwise/screenwise/internal/server/auth"
	"github.com/screenwise/screenwise/internal/server/config"
	"github.com/screenwise/screenwise/internal/server/httpapi"
	"github.com/screenwise/screenwise/internal/server/mail"
	"github.com/screenwise/screenwise/internal/server/password"
	"github.com/screenwise/screenwise/internal/server/repositories/repomanager"
	"github.com/screenwise/screenwise/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rdb := newRedisClient(cfg, logger)

	codec, err := auth.NewCodec(cfg)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	sender, err := mail.NewSender(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	hasher := password.NewHasher(cfg.BcryptCost)
	svc := services.NewAuthService(rm.Users(), codec, hasher, sender, logger)

	srv := httpapi.NewServer(cfg, logger, svc, rm.Users(), codec, rdb)

	return &App{config: cfg, logger: logger, repos: rm, server: srv}, nil
}

// newRedisClient connects the rate-limiter backend. An unreachable Redis is
// logged but not fatal: the limiter fails open and the service still serves.
func newRedisClient(cfg *config.Config, logger logging.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn(context.Background(), "invalid redis url, rate limiting disabled", "error", err.Error())
		return nil
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn(context.Background(), "redis unreachable, rate limiter will fail open", "error", err.Error())
	}
	return rdb
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
