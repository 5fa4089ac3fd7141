package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/api/ws"
	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/config"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/persist"
	"github.com/gosuda/taskboard/internal/server"
	"github.com/gosuda/taskboard/internal/store/file"
	"github.com/gosuda/taskboard/internal/store/memory"
	"github.com/gosuda/taskboard/internal/store/postgres"
	redisstore "github.com/gosuda/taskboard/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("TASKBOARD_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil || logLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("TASKBOARD_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.close()

	hub := ws.NewHub(backend.broker, redisstore.BoardChannel(cfg.Storage.Key))
	session := board.NewSession(ctx, board.NewEngine(), persist.New(backend.slot), board.WithPublisher(hub))

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, session, hub)

	// Start server in background goroutine.
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("storage", string(cfg.Storage.Backend)).
			Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

// storage bundles the slot holding the board document, the broker used for
// live updates and whatever must be closed on exit.
type storage struct {
	slot   domain.StateSlot
	broker ws.Broker
	close  func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		slot, err := file.NewSlot(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		return &storage{slot: slot, broker: memory.NewPubSub(), close: func() {}}, nil

	case config.StorageRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return &storage{
			slot:   redisstore.NewSlot(client, cfg.Storage.Key),
			broker: redisstore.NewPubSub(client),
			close:  func() { _ = client.Close() },
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.Open(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked in config
		if err != nil {
			return nil, err
		}
		slot := postgres.NewSlot(pool, cfg.Storage.Key)
		if err := slot.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{slot: slot, broker: memory.NewPubSub(), close: pool.Close}, nil

	case config.StorageMemory:
		return &storage{slot: memory.NewSlot(), broker: memory.NewPubSub(), close: func() {}}, nil

	default:
		return nil, fmt.Errorf("openStorage: unknown backend %q", cfg.Storage.Backend)
	}
}
