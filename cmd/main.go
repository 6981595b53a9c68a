package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/leadboard/internal/adapters/http/api"
	"github.com/okian/leadboard/internal/adapters/http/swagger"
	"github.com/okian/leadboard/internal/adapters/notify"
	"github.com/okian/leadboard/internal/adapters/repository"
	app "github.com/okian/leadboard/internal/app"
	"github.com/okian/leadboard/internal/config"
	"github.com/okian/leadboard/internal/domain/query"
	"github.com/okian/leadboard/internal/fixtures"
	"github.com/okian/leadboard/pkg/logger"
	"github.com/okian/leadboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	seed, err := loadSeed(ctx, cfg)
	if err != nil {
		return err
	}

	repo, closeRepo, err := buildRepository(ctx, cfg, seed)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	publisher, mailer, err := buildNotifiers(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	svc := app.New(
		app.WithLogger(log),
		app.WithRepository(repo),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxTopLimit(cfg.MaxTopLimit),
		app.WithOverduePolicy(query.OverduePolicy{
			NewAfter:      cfg.OverdueNewAfter(),
			FollowUpAfter: cfg.OverdueFollowUpAfter(),
		}),
		app.WithWriteMode(cfg.WriteMode),
		app.WithPublisher(publisher),
		app.WithMailer(mailer),
	)
	// Workers outlive the signal so Stop can drain the queue.
	if err := svc.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	metrics.StartSystemSampler(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// loadSeed returns the configured seed file or the built-in fixtures.
func loadSeed(ctx context.Context, cfg *config.Config) (fixtures.Seed, error) {
	if cfg.SeedFile == "" {
		return fixtures.Default(), nil
	}
	return fixtures.LoadFile(ctx, cfg.SeedFile)
}

// buildRepository opens the configured store and seeds it.
func buildRepository(ctx context.Context, cfg *config.Config, seed fixtures.Seed) (repository.Repository, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		store, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, seed.Metrics)
		if err != nil {
			return nil, nil, err
		}
		seeded, err := store.SeedIfEmpty(ctx, seed.Leads)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		logger.Get().Info(ctx, "postgres store ready", logger.Bool("seeded", seeded), logger.Int("leads", store.Count(ctx)))
		return store, store.Close, nil
	default:
		store := repository.NewMemoryStore(ctx, seed.Leads, repository.WithDashboardMetrics(seed.Metrics))
		return store, store.Close, nil
	}
}

// buildNotifiers returns the broker publisher and mailer, or no-ops for the
// collaborators that are not configured.
func buildNotifiers(cfg *config.Config) (notify.Publisher, notify.Mailer, error) {
	var (
		publisher notify.Publisher = notify.NopPublisher{}
		mailer    notify.Mailer    = notify.NopMailer{}
	)
	if cfg.AMQPURL != "" {
		p, err := notify.DialRabbit(cfg.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		publisher = p
	}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	return publisher, mailer, nil
}

// newHandler assembles the API and documentation routes.
func newHandler(svc *app.Service, cfg *config.Config) http.Handler {
	r := api.NewServer(svc,
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithLogger(logger.Get().Named("http")),
	).Routes()
	swagger.Register(r)
	return r
}
