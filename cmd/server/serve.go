package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"brandscope/internal/adapters/backend"
	httpadapter "brandscope/internal/adapters/http"
	"brandscope/internal/adapters/memory"
	pg "brandscope/internal/adapters/postgres"
	redisadapter "brandscope/internal/adapters/redis"
	"brandscope/internal/config"
	"brandscope/internal/ports"
	"brandscope/internal/services/insights"
	"brandscope/internal/services/intake"
	"brandscope/internal/services/session"
	"brandscope/internal/workers/sweeper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(log.WithContext(ctx), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	sessions, pruner, closer, err := openSessions(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	metrics := httpadapter.NewMetrics()
	be, err := backend.New(cfg.BackendURL, cfg.BackendTimeout, backend.WithObserver(metrics))
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	forms := intake.NewRegistry(be, cfg.SessionTTL)
	srv := httpadapter.New(httpadapter.Options{
		Forms:         forms,
		Fetcher:       insights.NewFetcher(be),
		Sessions:      sessions,
		Codec:         session.NewCodec(cfg.SessionSecret, cfg.SessionTTL),
		Metrics:       metrics,
		Logger:        log,
		IntakeRate:    cfg.IntakeRate,
		IntakeBurst:   cfg.IntakeBurst,
		SecureCookies: !cfg.IsDevelopment(),
	})

	targets := []sweeper.Target{
		{Name: "intake_forms", Pruner: forms},
		{Name: "rate_limiter", Pruner: srv},
	}
	if pruner != nil {
		targets = append(targets, sweeper.Target{Name: "sessions", Pruner: pruner})
	}
	if cfg.SessionSweepInterval > 0 {
		stopSweeper := sweeper.Start(ctx, cfg.SessionSweepInterval, targets, metrics.ObserveSweep)
		defer stopSweeper()
		log.Info().Dur("interval", cfg.SessionSweepInterval).Int("targets", len(targets)).Msg("sweeper started")
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("backend", cfg.BackendURL).
		Str("sessions", cfg.SessionBackend).
		Msg("listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openSessions selects the session store. The pruner is nil for stores that
// expire entries on their own.
func openSessions(ctx context.Context, cfg config.Config, log zerolog.Logger) (ports.SessionRepository, ports.SessionPruner, io.Closer, error) {
	switch cfg.SessionBackend {
	case config.SessionPostgres:
		if cfg.MigrateOnStart {
			if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return nil, nil, nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("migrations applied")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return db, db, closerFunc(func() error { db.Close(); return nil }), nil
	case config.SessionRedis:
		rdb, err := redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		return redisadapter.NewSessions(rdb), nil, rdb, nil
	default:
		s := memory.NewSessions()
		return s, s, closerFunc(func() error { return nil }), nil
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres session store migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			if err != nil {
				log.Warn().Err(err).Msg("configuration incomplete; migrating anyway")
			}
			if err := pg.Migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
				log.Error().Err(err).Msg("migrate failed")
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
