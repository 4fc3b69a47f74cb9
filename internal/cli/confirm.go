package cli

import (
	"fmt"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// huhTheme returns a huh theme using the formatter palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// HuhConfirm asks a yes/no question on the terminal.
func HuhConfirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huhTheme()).WithShowHelp(false).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return confirmed, nil
}

// confirmDestructive gates a destructive command. --yes skips the question;
// a non-interactive session without --yes is refused.
func confirmDestructive(cmd *cobra.Command, app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() || app.Confirm == nil {
		return false, fmt.Errorf("refusing to %s without --yes in a non-interactive session", cmd.Name())
	}
	ok, err := app.Confirm(title)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
	}
	return ok, nil
}
