// Command server runs the accounts portal.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/portal/user-accounts/internal/api"
	"github.com/portal/user-accounts/internal/api/handler"
	"github.com/portal/user-accounts/internal/api/session"
	"github.com/portal/user-accounts/internal/core/ports"
	"github.com/portal/user-accounts/internal/core/service"
	"github.com/portal/user-accounts/internal/infrastructure/db/memory"
	mongostore "github.com/portal/user-accounts/internal/infrastructure/db/mongo"
	redisstore "github.com/portal/user-accounts/internal/infrastructure/db/redis"
	sqlstore "github.com/portal/user-accounts/internal/infrastructure/db/sql"
	"github.com/portal/user-accounts/internal/pkg/config"
	"github.com/portal/user-accounts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// userStore is what every store driver provides.
type userStore interface {
	ports.UserRepository
	handler.Pinger
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "accounts-portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("driver", cfg.StoreDriver).Msg("user store ready")

	checks := map[string]handler.Pinger{"store": store}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisstore.NewLoginThrottle(rdb, redisstore.ThrottleConfig{
			MaxAttempts: cfg.Login.MaxAttempts,
			Window:      cfg.Login.Window,
			Lock:        cfg.Login.Lock,
		})
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	encoder := service.NewBcryptEncoder(cfg.BcryptCost)
	userService := service.NewUserService(store, encoder, log)
	authService, err := service.NewAuthService(service.NewUserLookup(store), encoder, throttle, log)
	if err != nil {
		return err
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	secret, err := sessionSecret(cfg, log)
	if err != nil {
		return err
	}

	e, err := api.NewRouter(api.Dependencies{
		Logger:        log,
		UserService:   userService,
		AuthService:   authService,
		SessionSecret: secret,
		Session: session.Options{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.MaxAge,
			Secure:     cfg.IsProduction(),
		},
		TrustedProxies: cfg.TrustedProxies,
		Secure:         cfg.IsProduction(),
		HealthChecks:   checks,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the configured user store and makes sure its unique
// indexes exist.
func openStore(ctx context.Context, cfg *config.Config) (userStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.NewUserRepository(), func() {}, nil

	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	case sqlstore.DriverMySQL, sqlstore.DriverPostgres:
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver:       cfg.StoreDriver,
			DSN:          cfg.SQL.DSN,
			MaxOpenConns: cfg.SQL.MaxOpenConns,
			MaxIdleConns: cfg.SQL.MaxIdleConns,
			LogLevel:     cfg.SQL.LogLevel,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo := sqlstore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// sessionSecret returns the configured signing key. Outside production a
// missing key is replaced by a random one, so sessions end on restart.
func sessionSecret(cfg *config.Config, log zerolog.Logger) ([]byte, error) {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	log.Warn().Msg("SESSION_SECRET not set, using a random key for this process")
	return secret, nil
}
