package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// render prints v as JSON when --json is set, otherwise the text produced
// by text.
func render(cmd *cobra.Command, v any, text func() string) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), v)
	}
	fmt.Fprint(cmd.OutOrStdout(), text())
	return nil
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StyleGreen.Render("✔"), fmt.Sprintf(format, args...))
}

func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf(format, args...)))
}

// changed returns v when the named flag was given on the command line and
// nil otherwise, so patches only carry what the user asked to change.
func changed[T any](flags *pflag.FlagSet, name string, v *T) *T {
	if flags.Changed(name) {
		return v
	}
	return nil
}

// parseDate parses a YYYY-MM-DD flag value. Empty input yields nil.
func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	return &t, nil
}

// parseData turns key=value pairs into a data map. Values that parse as
// JSON (numbers, booleans, objects, arrays) keep their type; anything else
// is a string.
func parseData(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid data %q: expected key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

func parseFloat(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return f, nil
}

// outcomeErr reports a sync outcome and turns a failure into an error.
// Skips are printed and are not errors.
func outcomeErr(cmd *cobra.Command, app *App, o journey.Outcome) error {
	switch o.Status {
	case journey.StatusSkipped:
		info(cmd, "Skipped %s: %v", o.Op, o.Reason)
		return nil
	case journey.StatusFailed:
		if app.retry(cmd) {
			return nil
		}
		return fmt.Errorf("%s: %w", o.Op, o.Err)
	}
	return nil
}

// retry offers the pending retry of the last failed operation. It reports
// whether a retry ran and left no error behind.
func (a *App) retry(cmd *cobra.Command) bool {
	if a.Notifier == nil || !a.interactive() || a.Confirm == nil {
		return false
	}
	fn := a.Notifier.TakeRetry()
	if fn == nil {
		return false
	}
	ok, err := a.Confirm("Retry?")
	if err != nil || !ok {
		return false
	}
	fn(cmd.Context())
	return a.Store.LastError() == ""
}

// resolveID matches input against ids: exact match first, then a unique
// prefix, then a unique suffix.
func resolveID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	for _, match := range []func(string, string) bool{strings.HasPrefix, strings.HasSuffix} {
		var matches []string
		for _, id := range ids {
			if match(id, input) {
				matches = append(matches, id)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return "", fmt.Errorf("%s ID %q is ambiguous (%d matches)", kind, input, len(matches))
		}
	}
	return "", fmt.Errorf("%s not found: %q", kind, input)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
