package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/journeyctl/internal/api"
	"github.com/alexanderramin/journeyctl/internal/cli"
	"github.com/alexanderramin/journeyctl/internal/config"
	"github.com/alexanderramin/journeyctl/internal/db"
	"github.com/alexanderramin/journeyctl/internal/history"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/alexanderramin/journeyctl/internal/repository"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// Local state store
	repo, closeRepo, err := openStateRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Journeys API client
	var callObserver api.Observer = api.NoopObserver{}
	var useCaseObserver journey.UseCaseObserver = journey.NoopUseCaseObserver{}
	if cfg.LogCalls {
		callObserver = api.NewLogObserver(os.Stderr)
		useCaseObserver = journey.NewLogUseCaseObserver(os.Stderr)
	}
	client := api.NewClient(cfg.API(), callObserver)

	notifier := cli.NewNotifier(os.Stderr)
	store := journey.New(
		journey.WithAPI(client),
		journey.WithStateRepo(repo),
		journey.WithNotifier(notifier),
		journey.WithObserver(useCaseObserver),
		journey.WithLogger(logger),
	)

	app := &cli.App{
		Store:    store,
		Remote:   client,
		State:    repo,
		Notifier: notifier,
		Config:   cfg,
		Logger:   logger,
		Confirm:  cli.HuhConfirm,
	}

	// Detect interactive terminal for confirmations and retries.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if err := app.Restore(ctx, history.WithLimit(cfg.HistoryLimit), history.WithLogger(logger)); err != nil {
		return err
	}
	defer app.History.Close()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStateRepo opens the configured local state backend.
func openStateRepo(ctx context.Context, cfg config.Config) (repository.BatchStateRepo, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		repo, err := repository.NewRedisStateRepo(ctx, cfg.RedisURL, "")
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis state: %w", err)
		}
		return repo, closer(repo), nil
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteStateRepo(database, db.NewSQLiteUnitOfWork(database)), closer(database), nil
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}
