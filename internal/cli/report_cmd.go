package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/journeyctl/internal/autosave"
	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/importer"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and manage journey reports",
	}

	cmd.AddCommand(
		newReportGenerateCmd(app),
		newReportListCmd(app),
		newReportRemoveCmd(app),
	)

	return cmd
}

func newReportGenerateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "generate TYPE",
		Short: "Snapshot the journey into a report (progress, performance, summary)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := domain.ReportType(args[0])
			if !domain.ValidReportTypes[typ] {
				return fmt.Errorf("invalid report type %q (must be progress, performance or summary)", args[0])
			}
			if name == "" {
				name = fmt.Sprintf("%s report", typ)
			}
			r := app.Store.GenerateReport(typ, name)
			return render(cmd, r, func() string {
				return fmt.Sprintf("%s Generated %s [%s]\n%s",
					formatter.StyleGreen.Render("✔"), formatter.Bold(r.Name), r.ID, formatter.FormatStats(r.Data.Stats))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Report name")
	return cmd
}

func newReportListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := app.Store.Journey().Reports
			return render(cmd, rs, func() string { return formatter.FormatReports(rs) })
		},
	}
}

func newReportRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID("report", args[0], ids(app.Store.Journey().Reports, func(r domain.Report) string { return r.ID }))
			if err != nil {
				return err
			}
			app.Store.RemoveReport(id)
			success(cmd, "Removed report %s", id)
			return nil
		},
	}
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the canvas to the previous snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.History.Undo() {
				info(cmd, "Nothing to undo.")
				return nil
			}
			success(cmd, "Undone (%d/%d)", app.History.Index()+1, app.History.Len())
			return nil
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the next canvas snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.History.Redo() {
				info(cmd, "Nothing to redo.")
				return nil
			}
			success(cmd, "Redone (%d/%d)", app.History.Index()+1, app.History.Len())
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the current journey to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := importer.WriteFile(args[0], app.Store.Journey()); err != nil {
				return err
			}
			success(cmd, "Exported journey to %s", args[0])
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a journey JSON file and make it the current journey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := importer.ReadFile(args[0])
			var verr *importer.ValidationError
			if errors.As(err, &verr) {
				w := cmd.ErrOrStderr()
				for _, e := range verr.Errs {
					fmt.Fprintf(w, "  %s %v\n", formatter.StyleRed.Render("✖"), e)
				}
			}
			if err != nil {
				return err
			}
			app.Store.LoadJourney(j)
			success(cmd, "Imported journey %s [%s]", formatter.Bold(j.Name), j.ID)
			return nil
		},
	}
}

func newAutosaveCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "autosave",
		Short: "Save to the server on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = app.Config.Autosave
			}
			s, err := autosave.New(app.Store, schedule, app.logger())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info(cmd, "Autosaving on %q, next run %s. Press Ctrl+C to stop.", schedule, s.Next(time.Now()).Format(time.Kitchen))
			if err := s.Run(ctx); err != nil {
				return err
			}
			success(cmd, "Autosave stopped after %d run(s)", s.Runs())
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron spec or descriptor (default from config)")
	return cmd
}
