package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new local journey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j := app.Store.NewJourney(name)
			success(cmd, "Started journey %s [%s]", formatter.Bold(j.Name), j.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Journey name")
	return cmd
}

func newCreateCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a journey on the server and make it current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := app.Store.CreateInAPI(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			success(cmd, "Created journey %s [%s]", formatter.Bold(j.Name), j.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Journey name")
	cmd.Flags().StringVar(&description, "description", "", "Journey description")
	return cmd
}

func newLoadCmd(app *App) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "load [ID]",
		Short: "Load a journey from the server",
		Long: "Load a journey from the server. Without --only the whole journey\n" +
			"replaces local state; --only reloads one collection of the current journey.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			if only != "" && id != "" && id != app.Store.ID() {
				return fmt.Errorf("--only reloads the current journey; run 'journeyctl load %s' first", id)
			}

			var o journey.Outcome
			switch only {
			case "":
				o = app.Store.LoadFromAPI(ctx, id)
			case "canvas":
				o = app.Store.LoadCanvasFromAPI(ctx)
			case "goals":
				o = app.Store.LoadGoalsFromAPI(ctx)
			case "milestones":
				o = app.Store.LoadMilestonesFromAPI(ctx)
			default:
				return fmt.Errorf("invalid --only %q (must be canvas, goals or milestones)", only)
			}
			return outcomeErr(cmd, app, o)
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Reload one collection: canvas, goals or milestones")
	return cmd
}

func newSaveCmd(app *App) *cobra.Command {
	var canvas, goals, milestones bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save local changes to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var o journey.Outcome
			switch {
			case canvas:
				o = app.Store.SaveCanvasToAPI(ctx)
			case goals:
				o = app.Store.SaveGoalsToAPI(ctx)
			case milestones:
				o = app.Store.SaveMilestonesToAPI(ctx)
			default:
				o = app.Store.SaveToAPI(ctx)
			}
			return outcomeErr(cmd, app, o)
		},
	}

	cmd.Flags().BoolVar(&canvas, "canvas", false, "Save only nodes and edges")
	cmd.Flags().BoolVar(&goals, "goals", false, "Save only goals")
	cmd.Flags().BoolVar(&milestones, "milestones", false, "Save only milestones")
	cmd.MarkFlagsMutuallyExclusive("canvas", "goals", "milestones")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var user string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journeys on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = app.Config.UserID
			}
			list, o := app.Store.ListFromAPI(cmd.Context(), domain.ListOptions{UserID: user, Limit: limit, Offset: offset})
			if err := outcomeErr(cmd, app, o); err != nil || !o.OK() {
				return err
			}
			return render(cmd, list, func() string { return formatter.FormatJourneyList(list) })
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Only journeys of this user")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of journeys")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of journeys to skip")
	return cmd
}

func requireJourney(app *App) error {
	if app.Store.ID() == "" {
		return errors.New("no current journey (use 'journeyctl new', 'create' or 'load')")
	}
	return nil
}

func newDeleteCmd(app *App) *cobra.Command {
	var hard, yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the current journey on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJourney(app); err != nil {
				return err
			}
			j := app.Store.Journey()
			title := fmt.Sprintf("Delete %q?", j.Name)
			if hard {
				title = fmt.Sprintf("Permanently delete %q?", j.Name)
			}
			ok, err := confirmDestructive(cmd, app, yes, title)
			if err != nil || !ok {
				return err
			}
			if err := outcomeErr(cmd, app, app.Store.DeleteFromAPI(cmd.Context(), hard)); err != nil {
				return err
			}
			success(cmd, "Deleted journey %s", formatter.Bold(j.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "Delete permanently instead of soft-deleting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newDuplicateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "duplicate",
		Short: "Duplicate the current journey on the server and switch to the copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireJourney(app); err != nil {
				return err
			}
			o := app.Store.DuplicateInAPI(cmd.Context(), name)
			if err := outcomeErr(cmd, app, o); err != nil || o.Status != journey.StatusDone {
				return err
			}
			j := app.Store.Journey()
			success(cmd, "Duplicated into %s [%s]", formatter.Bold(j.Name), j.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the copy")
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var name, description string
	var published, archived, locked, local bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update journey metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			p := domain.JourneyPatch{
				Name:        changed(flags, "name", &name),
				Description: changed(flags, "description", &description),
				IsPublished: changed(flags, "published", &published),
				IsArchived:  changed(flags, "archived", &archived),
				IsLocked:    changed(flags, "locked", &locked),
			}
			if p.IsEmpty() {
				return errors.New("nothing to update (use --name, --description, --published, --archived or --locked)")
			}

			if local {
				app.Store.UpdateJourney(p)
				success(cmd, "Updated journey locally")
				return nil
			}
			o := app.Store.UpdateInAPI(cmd.Context(), p)
			if err := outcomeErr(cmd, app, o); err != nil || o.Status != journey.StatusDone {
				return err
			}
			success(cmd, "Updated journey")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().BoolVar(&published, "published", false, "Published flag")
	cmd.Flags().BoolVar(&archived, "archived", false, "Archived flag")
	cmd.Flags().BoolVar(&locked, "locked", false, "Locked flag")
	cmd.Flags().BoolVar(&local, "local", false, "Apply locally and save later instead of patching the server")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current journey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j := app.Store.Journey()
			met, err := app.Store.GoalsSatisfied()
			if err != nil {
				return err
			}
			return render(cmd, j, func() string { return formatter.FormatJourney(j, met) + "\n" })
		},
	}
}

func syncStatus(app *App) formatter.SyncStatus {
	j := app.Store.Journey()
	t := app.Store.Tracking()
	s := formatter.SyncStatus{
		ID:                j.ID,
		Name:              j.Name,
		UnsavedChanges:    t.UnsavedChanges,
		ChangedNodes:      t.ChangedNodes.Len(),
		ChangedEdges:      t.ChangedEdges.Len(),
		ChangedGoals:      t.ChangedGoals.Len(),
		ChangedMilestones: t.ChangedMilestones.Len(),
		ChangedReports:    t.ChangedReports.Len(),
		MetadataChanged:   t.MetadataChanged,
		LastSavedAt:       t.LastSavedAt,
		LastSavedHash:     t.LastSavedHash,
		LastError:         app.Store.LastError(),
	}
	if app.History != nil {
		s.HistoryLen = app.History.Len()
		s.HistoryIndex = app.History.Index()
	}
	return s
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show unsaved changes and the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := syncStatus(app)
			return render(cmd, s, func() string { return formatter.FormatStatus(s) })
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journey statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Store.Stats()
			if remote {
				if app.Remote == nil {
					return errors.New("no journeys api configured")
				}
				if err := requireJourney(app); err != nil {
					return err
				}
				var err error
				if st, err = app.Remote.GetStats(cmd.Context(), app.Store.ID()); err != nil {
					return fmt.Errorf("fetching stats: %w", err)
				}
			}
			return render(cmd, st, func() string { return formatter.FormatStats(st) })
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server instead of computing locally")
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the local journey and its unsaved changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := "Discard the local journey?"
			if app.Store.UnsavedChanges() {
				title = "Discard the local journey and its unsaved changes?"
			}
			ok, err := confirmDestructive(cmd, app, yes, title)
			if err != nil || !ok {
				return err
			}
			app.Store.ClearJourney()
			success(cmd, "Cleared local journey")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
