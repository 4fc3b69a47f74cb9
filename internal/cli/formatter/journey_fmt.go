package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

func orDash(s string) string {
	if s == "" {
		return Dim("—")
	}
	return s
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Dim("never")
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func flagList(f domain.Flags) string {
	var on []string
	for _, fl := range []struct {
		name string
		set  bool
	}{
		{"published", f.IsPublished}, {"archived", f.IsArchived}, {"locked", f.IsLocked},
		{"read-only", f.IsReadOnly}, {"view-only", f.IsViewOnly}, {"deleted", f.IsDeleted},
	} {
		if fl.set {
			on = append(on, fl.name)
		}
	}
	if len(on) == 0 {
		return Dim("draft")
	}
	return strings.Join(on, ", ")
}

// FormatJourney renders the journey summary card.
func FormatJourney(j domain.Journey, goalsMet bool) string {
	st := domain.ComputeStats(j)
	met := StyleDim.Render("not met")
	if goalsMet {
		met = StyleGreen.Render("met")
	}
	lines := []string{
		fmt.Sprintf("%s  %s", Bold(j.Name), Dim(orDash(j.ID))),
		orDash(j.Description),
		"",
		fmt.Sprintf("State       %s", flagList(j.Flags)),
		fmt.Sprintf("Canvas      %d nodes, %d edges", st.TotalNodes, st.TotalEdges),
		fmt.Sprintf("Goals       %d/%d completed (%s, %s)", st.CompletedGoals, st.TotalGoals, j.GoalLogicOperator, met),
		fmt.Sprintf("Milestones  %d/%d completed", st.CompletedMilestones, st.TotalMilestones),
		fmt.Sprintf("Reports     %d", st.TotalReports),
		fmt.Sprintf("Updated     %s", formatTime(&j.UpdatedAt)),
	}
	return RenderBox("journey", strings.Join(lines, "\n"))
}

func FormatNodes(nodes []domain.Node) string {
	if len(nodes) == 0 {
		return Dim("No nodes.") + "\n"
	}
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{
			n.ID,
			StylePurple.Render(string(n.Subtype)),
			n.Type,
			fmt.Sprintf("(%g, %g)", n.Position.X, n.Position.Y),
			orDash(domain.DataString(n.Data, "label")),
		}
	}
	return RenderTable([]string{"ID", "SUBTYPE", "TYPE", "POSITION", "LABEL"}, rows)
}

func FormatEdges(edges []domain.Edge) string {
	if len(edges) == 0 {
		return Dim("No edges.") + "\n"
	}
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{e.ID, e.Source, e.Target, orDash(e.Label())}
	}
	return RenderTable([]string{"ID", "SOURCE", "TARGET", "LABEL"}, rows)
}

func FormatGoals(goals []domain.Goal) string {
	if len(goals) == 0 {
		return Dim("No goals.") + "\n"
	}
	rows := make([][]string, len(goals))
	for i, g := range goals {
		deadline := ""
		if g.Deadline != nil {
			deadline = g.Deadline.Format("2006-01-02")
		}
		progress := strconv.FormatFloat(g.CurrentValue, 'f', -1, 64) + "/" + strconv.FormatFloat(g.TargetValue, 'f', -1, 64)
		if g.Unit != "" {
			progress += " " + g.Unit
		}
		rows[i] = []string{
			g.ID,
			g.Title,
			GoalStatusPill(g.Status.Value),
			PriorityLabel(g.Priority.Value),
			progress,
			orDash(deadline),
		}
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "PRIORITY", "PROGRESS", "DEADLINE"}, rows)
}

func FormatMilestones(ms []domain.Milestone) string {
	if len(ms) == 0 {
		return Dim("No milestones.") + "\n"
	}
	rows := make([][]string, len(ms))
	for i, m := range ms {
		rows[i] = []string{
			strconv.Itoa(m.SortOrder),
			m.ID,
			m.Title,
			MilestoneStatusPill(m.Status.Value),
			RenderProgress(m.Progress, 10),
			orDash(strings.Join(m.Dependencies, ",")),
		}
	}
	return RenderTable([]string{"#", "ID", "TITLE", "STATUS", "PROGRESS", "DEPENDS ON"}, rows)
}

func FormatReports(rs []domain.Report) string {
	if len(rs) == 0 {
		return Dim("No reports.") + "\n"
	}
	rows := make([][]string, len(rs))
	for i, r := range rs {
		rows[i] = []string{r.ID, r.Name, string(r.Type), formatTime(&r.GeneratedAt)}
	}
	return RenderTable([]string{"ID", "NAME", "TYPE", "GENERATED"}, rows)
}

func FormatStats(st domain.Stats) string {
	goalPct, msPct := 0, 0
	if st.TotalGoals > 0 {
		goalPct = st.CompletedGoals * 100 / st.TotalGoals
	}
	if st.TotalMilestones > 0 {
		msPct = st.CompletedMilestones * 100 / st.TotalMilestones
	}
	lines := []string{
		fmt.Sprintf("Nodes       %d", st.TotalNodes),
		fmt.Sprintf("Edges       %d", st.TotalEdges),
		fmt.Sprintf("Goals       %d/%d  %s", st.CompletedGoals, st.TotalGoals, RenderProgress(goalPct, 20)),
		fmt.Sprintf("Milestones  %d/%d  %s", st.CompletedMilestones, st.TotalMilestones, RenderProgress(msPct, 20)),
		fmt.Sprintf("Reports     %d", st.TotalReports),
	}
	return Header("stats") + "\n" + strings.Join(lines, "\n") + "\n"
}

func FormatJourneyList(list []domain.Journey) string {
	if len(list) == 0 {
		return Dim("No journeys.") + "\n"
	}
	rows := make([][]string, len(list))
	for i, j := range list {
		rows[i] = []string{j.ID, j.Name, flagList(j.Flags), formatTime(&j.UpdatedAt)}
	}
	return RenderTable([]string{"ID", "NAME", "STATE", "UPDATED"}, rows)
}

// SyncStatus is the view model of `journeyctl status`.
type SyncStatus struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	UnsavedChanges    bool       `json:"unsavedChanges"`
	ChangedNodes      int        `json:"changedNodes"`
	ChangedEdges      int        `json:"changedEdges"`
	ChangedGoals      int        `json:"changedGoals"`
	ChangedMilestones int        `json:"changedMilestones"`
	ChangedReports    int        `json:"changedReports"`
	MetadataChanged   bool       `json:"isJourneyMetadataChanged"`
	LastSavedAt       *time.Time `json:"lastSavedAt"`
	LastSavedHash     string     `json:"lastSavedHash"`
	LastError         string     `json:"lastError,omitempty"`
	HistoryLen        int        `json:"historyLength"`
	HistoryIndex      int        `json:"historyIndex"`
}

func FormatStatus(s SyncStatus) string {
	state := StyleGreen.Render("● saved")
	if s.UnsavedChanges {
		state = StyleYellow.Render("● unsaved changes")
	}
	hash := s.LastSavedHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	lines := []string{
		fmt.Sprintf("%s  %s", Bold(s.Name), Dim(orDash(s.ID))),
		state,
		fmt.Sprintf("Dirty       nodes %d, edges %d, goals %d, milestones %d, reports %d",
			s.ChangedNodes, s.ChangedEdges, s.ChangedGoals, s.ChangedMilestones, s.ChangedReports),
		fmt.Sprintf("Metadata    %t", s.MetadataChanged),
		fmt.Sprintf("Last saved  %s %s", formatTime(s.LastSavedAt), Dim(hash)),
		fmt.Sprintf("History     %d/%d", s.HistoryIndex+1, s.HistoryLen),
	}
	if s.LastError != "" {
		lines = append(lines, StyleRed.Render("Last error  "+s.LastError))
	}
	return Header("status") + "\n" + strings.Join(lines, "\n") + "\n"
}
