package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/journeyctl/internal/config"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/history"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/alexanderramin/journeyctl/internal/repository"
	"github.com/spf13/cobra"
)

// StatsSource serves server-computed journey statistics.
type StatsSource interface {
	GetStats(ctx context.Context, id string) (domain.Stats, error)
}

// App holds everything the CLI commands operate on.
type App struct {
	Store    *journey.Store
	History  *history.History
	Remote   StatsSource
	State    repository.BatchStateRepo
	Notifier *Notifier
	Config   config.Config
	Logger   *slog.Logger

	// Confirm asks a yes/no question. Nil means every question is declined.
	Confirm func(title string) (bool, error)
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

// Restore loads the persisted journey and canvas history, then starts
// recording canvas changes. It must run before any command.
func (a *App) Restore(ctx context.Context, opts ...history.Option) error {
	if err := a.Store.Restore(ctx); err != nil {
		return err
	}
	h := history.New(a.Store, opts...)
	if a.State != nil {
		data, err := a.State.Get(ctx, repository.CanvasHistoryKey)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return fmt.Errorf("restoring canvas history: %w", err)
		default:
			var log history.Log
			if err := json.Unmarshal(data, &log); err != nil {
				return fmt.Errorf("decoding canvas history: %w", err)
			}
			if err := h.Restore(log); err != nil {
				a.logger().Warn("discarding canvas history", "error", err)
			}
		}
	}
	h.Record(a.Store.Canvas())
	a.History = h
	return nil
}

// Flush writes the journey document and the canvas history in one batch.
func (a *App) Flush(ctx context.Context) error {
	if a.State == nil {
		return nil
	}
	state, err := a.Store.EncodeState()
	if err != nil {
		return err
	}
	values := map[string][]byte{repository.JourneyStateKey: state}
	if a.History != nil {
		log, err := json.Marshal(a.History.Export())
		if err != nil {
			return fmt.Errorf("encoding canvas history: %w", err)
		}
		values[repository.CanvasHistoryKey] = log
	}
	if err := a.State.PutAll(ctx, values); err != nil {
		return fmt.Errorf("flushing state: %w", err)
	}
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "journeyctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "journeyctl",
		Short:         "Design customer journeys and sync them with the journeys API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Flush(cmd.Context())
		},
	}
	root.PersistentFlags().Bool("json", false, "Print machine-readable JSON")

	root.AddCommand(
		newNewCmd(app),
		newCreateCmd(app),
		newLoadCmd(app),
		newSaveCmd(app),
		newListCmd(app),
		newDeleteCmd(app),
		newDuplicateCmd(app),
		newUpdateCmd(app),
		newShowCmd(app),
		newStatusCmd(app),
		newStatsCmd(app),
		newClearCmd(app),
		newNodeCmd(app),
		newEdgeCmd(app),
		newGoalCmd(app),
		newMilestoneCmd(app),
		newReportCmd(app),
		newUndoCmd(app),
		newRedoCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newAutosaveCmd(app),
	)

	return root
}
