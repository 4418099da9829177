// @title                       Messagely API
// @version                     1.0
// @description                 Direct messaging between registered users.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token: "Bearer <jwt>"
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/messagely/messagely-api/internal/api"
	"github.com/messagely/messagely-api/internal/core/ports"
	"github.com/messagely/messagely-api/internal/core/service"
	"github.com/messagely/messagely-api/internal/infrastructure/config"
	"github.com/messagely/messagely-api/internal/infrastructure/db/memory"
	"github.com/messagely/messagely-api/internal/infrastructure/db/mongo"
	"github.com/messagely/messagely-api/internal/infrastructure/db/postgres"
	"github.com/messagely/messagely-api/internal/infrastructure/db/redis"
	"github.com/messagely/messagely-api/internal/infrastructure/http/handlers"
	"github.com/messagely/messagely-api/internal/infrastructure/token"
	"github.com/messagely/messagely-api/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "messagely-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores are the repositories selected by STORE_DRIVER plus what it takes to
// probe and release them.
type stores struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	checks   map[string]handlers.Check
	closers  []func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(context.Background()); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
		}
	}()

	issuer, err := token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}

	var denylist ports.TokenDenylist
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		st.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		denylist = redis.NewDenylist(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token denylist enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set; logout will not revoke tokens")
	}

	credentials := service.NewCredentialStore(st.users, cfg.Auth.BcryptCost, log)
	authService := service.NewAuthService(credentials, issuer, denylist, cfg.Auth.RevocationTTL, log)
	messageService := service.NewMessageService(st.messages, st.users, log)

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Messages:       messageService,
		Users:          credentials,
		Checks:         st.checks,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.URL,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres connected, migrations applied")
		return &stores{
			users:    postgres.NewUserRepository(db),
			messages: postgres.NewMessageRepository(db),
			checks:   map[string]handlers.Check{"postgres": db.PingContext},
			closers:  []func(context.Context) error{func(context.Context) error { return db.Close() }},
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		store, err := mongo.NewStore(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return &stores{
			users:    store.Users,
			messages: store.Messages,
			checks:   map[string]handlers.Check{"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			closers:  []func(context.Context) error{client.Disconnect},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &stores{
			users:    store.Users(),
			messages: store.Messages(),
			checks:   map[string]handlers.Check{},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
