package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/spf13/cobra"
)

func resolveGoalID(app *App, input string) (string, error) {
	return resolveID("goal", input, ids(app.Store.Journey().Goals, func(g domain.Goal) string { return g.ID }))
}

func resolveMilestoneID(app *App, input string) (string, error) {
	return resolveID("milestone", input, ids(app.Store.Journey().Milestones, func(m domain.Milestone) string { return m.ID }))
}

func goalStatus(s string) (domain.Tagged[domain.GoalStatus], error) {
	if s == "" {
		return domain.Tagged[domain.GoalStatus]{}, nil
	}
	if !domain.ValidGoalStatuses[domain.GoalStatus(s)] {
		return domain.Tagged[domain.GoalStatus]{}, fmt.Errorf("invalid goal status %q", s)
	}
	return domain.Tag(domain.GoalStatus(s)), nil
}

func priority(s string) (domain.Tagged[domain.Priority], error) {
	if s == "" {
		return domain.Tagged[domain.Priority]{}, nil
	}
	if !domain.ValidPriorities[domain.Priority(s)] {
		return domain.Tagged[domain.Priority]{}, fmt.Errorf("invalid priority %q (must be low, medium or high)", s)
	}
	return domain.Tag(domain.Priority(s)), nil
}

func milestoneStatus(s string) (domain.Tagged[domain.MilestoneStatus], error) {
	if s == "" {
		return domain.Tagged[domain.MilestoneStatus]{}, nil
	}
	if !domain.ValidMilestoneStatuses[domain.MilestoneStatus(s)] {
		return domain.Tagged[domain.MilestoneStatus]{}, fmt.Errorf("invalid milestone status %q", s)
	}
	return domain.Tag(domain.MilestoneStatus(s)), nil
}

// goalFlags are shared by goal add and goal update.
type goalFlags struct {
	description, unit, deadline, status, priority, category string
	target, current                                         float64
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "Goal description")
	cmd.Flags().Float64Var(&f.target, "target", 0, "Target value")
	cmd.Flags().Float64Var(&f.current, "current", 0, "Current value")
	cmd.Flags().StringVar(&f.unit, "unit", "", "Unit of the values")
	cmd.Flags().StringVar(&f.deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "", "Status (not-started, in-progress, completed, ...)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
}

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage journey goals",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalUpdateCmd(app),
		newGoalCompleteCmd(app),
		newGoalRemoveCmd(app),
		newGoalListCmd(app),
		newGoalOperatorCmd(app),
	)

	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var f goalFlags

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := parseDate("deadline", f.deadline)
			if err != nil {
				return err
			}
			status, err := goalStatus(f.status)
			if err != nil {
				return err
			}
			prio, err := priority(f.priority)
			if err != nil {
				return err
			}
			g := app.Store.AddGoal(domain.GoalDraft{
				Title:        args[0],
				Description:  f.description,
				TargetValue:  f.target,
				CurrentValue: f.current,
				Unit:         f.unit,
				Deadline:     deadline,
				Status:       status,
				Priority:     prio,
				Category:     f.category,
			})
			success(cmd, "Added goal %s [%s]", formatter.Bold(g.Title), g.ID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newGoalUpdateCmd(app *App) *cobra.Command {
	var f goalFlags
	var title string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGoalID(app, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			p := domain.GoalPatch{
				Title:        changed(flags, "title", &title),
				Description:  changed(flags, "description", &f.description),
				TargetValue:  changed(flags, "target", &f.target),
				CurrentValue: changed(flags, "current", &f.current),
				Unit:         changed(flags, "unit", &f.unit),
				Category:     changed(flags, "category", &f.category),
			}
			if p.Deadline, err = parseDate("deadline", f.deadline); err != nil {
				return err
			}
			if f.status != "" {
				status, err := goalStatus(f.status)
				if err != nil {
					return err
				}
				p.Status = &status
			}
			if f.priority != "" {
				prio, err := priority(f.priority)
				if err != nil {
					return err
				}
				p.Priority = &prio
			}
			app.Store.UpdateGoal(id, p)
			success(cmd, "Updated goal %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Goal title")
	f.register(cmd)
	return cmd
}

func newGoalCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a goal completed and fill its current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGoalID(app, args[0])
			if err != nil {
				return err
			}
			app.Store.CompleteGoal(id)
			success(cmd, "Completed goal %s", id)
			return nil
		},
	}
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Soft-delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveGoalID(app, args[0])
			if err != nil {
				return err
			}
			app.Store.RemoveGoal(id)
			success(cmd, "Removed goal %s", id)
			return nil
		},
	}
}

func newGoalListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals := app.Store.VisibleGoals()
			if all {
				goals = app.Store.Journey().Goals
			}
			return render(cmd, goals, func() string { return formatter.FormatGoals(goals) })
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deleted goals")
	return cmd
}

func newGoalOperatorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "operator [AND|OR]",
		Short: "Show or set how goal completion combines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				op := domain.LogicOperator(strings.ToUpper(args[0]))
				if op != domain.LogicAnd && op != domain.LogicOr {
					return fmt.Errorf("invalid operator %q (must be AND or OR)", args[0])
				}
				app.Store.UpdateGoalLogicOperator(op)
			}
			met, err := app.Store.GoalsSatisfied()
			if err != nil {
				return err
			}
			op := app.Store.Journey().GoalLogicOperator
			return render(cmd, map[string]any{"operator": op, "satisfied": met}, func() string {
				state := formatter.Dim("not met")
				if met {
					state = formatter.StyleGreen.Render("met")
				}
				return fmt.Sprintf("Goal logic %s: %s\n", formatter.Bold(string(op)), state)
			})
		},
	}
}

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage journey milestones",
	}

	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneUpdateCmd(app),
		newMilestoneProgressCmd(app),
		newMilestoneReorderCmd(app),
		newMilestoneRemoveCmd(app),
		newMilestoneListCmd(app),
	)

	return cmd
}

func resolveMilestoneIDs(app *App, inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveMilestoneID(app, in)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var description, targetDate, status string
	var progress int
	var depends []string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a milestone at the end of the order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate("target date", targetDate)
			if err != nil {
				return err
			}
			st, err := milestoneStatus(status)
			if err != nil {
				return err
			}
			deps, err := resolveMilestoneIDs(app, depends)
			if err != nil {
				return err
			}
			m := app.Store.AddMilestone(domain.MilestoneDraft{
				Title:        args[0],
				Description:  description,
				TargetDate:   date,
				Status:       st,
				Progress:     progress,
				Dependencies: deps,
			})
			success(cmd, "Added milestone #%d %s [%s]", m.SortOrder, formatter.Bold(m.Title), m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Milestone description")
	cmd.Flags().StringVar(&targetDate, "target-date", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status (pending, in-progress, completed, ...)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress 0-100")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "IDs of milestones this one depends on")
	return cmd
}

func newMilestoneUpdateCmd(app *App) *cobra.Command {
	var title, description, targetDate, status string
	var depends []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveMilestoneID(app, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			p := domain.MilestonePatch{
				Title:       changed(flags, "title", &title),
				Description: changed(flags, "description", &description),
			}
			if p.TargetDate, err = parseDate("target date", targetDate); err != nil {
				return err
			}
			if status != "" {
				st, err := milestoneStatus(status)
				if err != nil {
					return err
				}
				p.Status = &st
			}
			if flags.Changed("depends") {
				if p.Dependencies, err = resolveMilestoneIDs(app, depends); err != nil {
					return err
				}
				if p.Dependencies == nil {
					p.Dependencies = []string{}
				}
			}
			app.Store.UpdateMilestone(id, p)
			success(cmd, "Updated milestone %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&description, "description", "", "Milestone description")
	cmd.Flags().StringVar(&targetDate, "target-date", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Status")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "IDs of milestones this one depends on")
	return cmd
}

func newMilestoneProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Set milestone progress; status follows (pending, in-progress, completed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveMilestoneID(app, args[0])
			if err != nil {
				return err
			}
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid progress %q", args[1])
			}
			app.Store.UpdateMilestoneProgress(id, pct)
			m, _ := app.Store.GetMilestone(id)
			success(cmd, "%s %s %s", m.Title, formatter.RenderProgress(m.Progress, 20), formatter.MilestoneStatusPill(m.Status.Value))
			return nil
		},
	}
}

func newMilestoneReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ID...",
		Short: "Reorder milestones; unlisted milestones keep their relative order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := resolveMilestoneIDs(app, args)
			if err != nil {
				return err
			}
			if err := app.Store.ReorderMilestones(order); err != nil {
				return err
			}
			success(cmd, "Reordered %d milestone(s)", len(order))
			return nil
		},
	}
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveMilestoneID(app, args[0])
			if err != nil {
				return err
			}
			app.Store.RemoveMilestone(id)
			success(cmd, "Removed milestone %s", id)
			return nil
		},
	}
}

func newMilestoneListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List milestones in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ms := app.Store.Journey().Milestones
			return render(cmd, ms, func() string { return formatter.FormatMilestones(ms) })
		},
	}
}
