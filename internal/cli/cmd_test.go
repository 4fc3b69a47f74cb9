package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/journeyctl/internal/api"
	"github.com/alexanderramin/journeyctl/internal/config"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/alexanderramin/journeyctl/internal/repository"
	"github.com/alexanderramin/journeyctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db    *sql.DB
	fake  *testutil.FakeAPI
	notes *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{db: testutil.NewTestDB(t), fake: testutil.NewFakeAPI(t), notes: new(bytes.Buffer)}
}

// app wires a full App against the env's database and fake API, restoring
// whatever an earlier App flushed.
func (e *testEnv) app(t *testing.T) *App {
	t.Helper()
	cfg := api.DefaultConfig()
	cfg.BaseURL = e.fake.URL
	client := api.NewClient(cfg, nil)
	repo := repository.NewSQLiteStateRepo(e.db, testutil.NewTestUoW(e.db))
	notifier := NewNotifier(e.notes)

	app := &App{
		Store: journey.New(
			journey.WithAPI(client),
			journey.WithStateRepo(repo),
			journey.WithNotifier(notifier),
			journey.WithRetryDelay(func(int) time.Duration { return 0 }),
		),
		Remote:        client,
		State:         repo,
		Notifier:      notifier,
		Config:        config.Default(),
		IsInteractive: func() bool { return false },
	}
	require.NoError(t, app.Restore(context.Background()))
	return app
}

func testApp(t *testing.T) (*App, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return env.app(t), env
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func decodeList(t *testing.T, out string) []map[string]any {
	t.Helper()
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list), out)
	return list
}

// --- Root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	out := mustExec(t, app)
	assert.Contains(t, out, "journeyctl")
	assert.Contains(t, out, "milestone")
}

// --- Canvas ---

func TestNodeCmd_AddListMoveRemove(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new", "--name", "Onboarding")

	mustExec(t, app, "node", "add", "entry", "--label", "Signup", "--x", "10", "--data", "channel=email")
	nodes := decodeList(t, mustExec(t, app, "node", "ls", "--json"))
	require.Len(t, nodes, 1)
	assert.Equal(t, "entry", nodes[0]["node-subtype"])
	assert.Equal(t, "Signup", nodes[0]["data"].(map[string]any)["label"])
	assert.Equal(t, "email", nodes[0]["data"].(map[string]any)["channel"])

	id := nodes[0]["id"].(string)
	mustExec(t, app, "node", "move", id, "300", "40")
	n, ok := app.Store.GetNode(id)
	require.True(t, ok)
	assert.Equal(t, 300.0, n.Position.X)

	mustExec(t, app, "node", "rm", id)
	assert.Empty(t, app.Store.Canvas().Nodes)
}

func TestNodeCmd_RejectsUnknownSubtype(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "node", "add", "teleport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid node subtype")
}

func TestEdgeCmd_ConnectDerivesLabel(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	mustExec(t, app, "node", "add", "decision", "--data", "yesLabel=Approve")
	mustExec(t, app, "node", "add", "wait")
	nodes := app.Store.Canvas().Nodes

	out := mustExec(t, app, "edge", "connect", nodes[0].ID, nodes[1].ID, "--source-handle", "yes")
	assert.Contains(t, out, "(Approve)")

	edges := decodeList(t, mustExec(t, app, "edge", "ls", "--json"))
	require.Len(t, edges, 1)
	assert.Equal(t, nodes[0].ID, edges[0]["source"])

	mustExec(t, app, "node", "rm", nodes[0].ID)
	assert.Empty(t, app.Store.Canvas().Edges)
}

func TestUndoRedoCmd(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	mustExec(t, app, "node", "add", "entry")
	mustExec(t, app, "node", "add", "wait")

	mustExec(t, app, "undo")
	assert.Len(t, app.Store.Canvas().Nodes, 1)

	mustExec(t, app, "redo")
	assert.Len(t, app.Store.Canvas().Nodes, 2)

	out := mustExec(t, app, "redo")
	assert.Contains(t, out, "Nothing to redo.")
}

func TestState_SurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	first := env.app(t)
	mustExec(t, first, "new", "--name", "Persisted")
	mustExec(t, first, "node", "add", "entry")
	mustExec(t, first, "node", "add", "wait")

	second := env.app(t)
	assert.Equal(t, "Persisted", second.Store.Journey().Name)
	assert.Len(t, second.Store.Canvas().Nodes, 2)
	assert.True(t, second.Store.UnsavedChanges())
	assert.Equal(t, 2, second.History.Len())

	mustExec(t, second, "undo")
	assert.Len(t, second.Store.Canvas().Nodes, 1)
}

// --- Goals and milestones ---

func TestGoalCmd_Lifecycle(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	mustExec(t, app, "goal", "add", "Activate", "--target", "100", "--unit", "users", "--priority", "high")
	mustExec(t, app, "goal", "add", "Retain", "--target", "10")

	goals := app.Store.VisibleGoals()
	require.Len(t, goals, 2)
	mustExec(t, app, "goal", "complete", goals[0].ID)

	out := mustExec(t, app, "goal", "operator", "--json")
	assert.Contains(t, out, `"satisfied": false`)
	out = mustExec(t, app, "goal", "operator", "or", "--json")
	assert.Contains(t, out, `"operator": "OR"`)
	assert.Contains(t, out, `"satisfied": true`)

	mustExec(t, app, "goal", "rm", goals[1].ID)
	assert.Len(t, decodeList(t, mustExec(t, app, "goal", "ls", "--json")), 1)
	assert.Len(t, decodeList(t, mustExec(t, app, "goal", "ls", "--all", "--json")), 2)

	_, err := executeCmd(t, app, "goal", "add", "Bad", "--priority", "urgent")
	assert.Error(t, err)
}

func TestMilestoneCmd_ProgressAndReorder(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	for _, title := range []string{"Kickoff", "Beta", "Launch"} {
		mustExec(t, app, "milestone", "add", title)
	}
	ms := app.Store.Journey().Milestones

	mustExec(t, app, "milestone", "progress", ms[0].ID, "150")
	m, _ := app.Store.GetMilestone(ms[0].ID)
	assert.Equal(t, 100, m.Progress)
	assert.True(t, m.IsCompleted())

	mustExec(t, app, "milestone", "reorder", ms[2].ID, ms[0].ID)
	list := decodeList(t, mustExec(t, app, "milestone", "ls", "--json"))
	require.Len(t, list, 3)
	assert.Equal(t, "Launch", list[0]["title"])
	assert.Equal(t, "Kickoff", list[1]["title"])
	assert.Equal(t, "Beta", list[2]["title"])

	_, err := executeCmd(t, app, "milestone", "reorder", ms[0].ID, ms[0].ID)
	assert.ErrorIs(t, err, journey.ErrInvalidOrder)
}

func TestReportCmd(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	mustExec(t, app, "goal", "add", "Activate")

	out := mustExec(t, app, "report", "generate", "summary", "--json")
	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "summary report", r["name"])

	mustExec(t, app, "report", "rm", r["id"].(string))
	assert.Empty(t, app.Store.Journey().Reports)

	_, err := executeCmd(t, app, "report", "generate", "weekly")
	assert.Error(t, err)
}

// --- Sync ---

func TestSaveCmd_UploadsOnceThenSkips(t *testing.T) {
	app, env := testApp(t)
	mustExec(t, app, "create", "--name", "Remote")
	mustExec(t, app, "node", "add", "entry")
	mustExec(t, app, "goal", "add", "Activate")

	mustExec(t, app, "save")
	assert.Equal(t, 1, env.fake.Count(http.MethodPost, "/canvas"))
	assert.Equal(t, 1, env.fake.Count(http.MethodPost, "/goals"))
	assert.False(t, app.Store.UnsavedChanges())
	assert.Contains(t, env.notes.String(), "Journey saved successfully!")

	out := mustExec(t, app, "save")
	assert.Contains(t, out, "Skipped")
	assert.Equal(t, 1, env.fake.Count(http.MethodPost, "/canvas"))
}

func TestSaveCmd_FailureReturnsError(t *testing.T) {
	app, env := testApp(t)
	mustExec(t, app, "create")
	mustExec(t, app, "node", "add", "entry")
	env.fake.Fail(http.MethodPost, "/canvas", http.StatusInternalServerError, "boom", 1)

	_, err := executeCmd(t, app, "save", "--canvas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, env.notes.String(), "Canvas save failed")
	assert.True(t, app.Store.UnsavedChanges())
}

func TestSaveCmd_InteractiveRetry(t *testing.T) {
	app, env := testApp(t)
	app.IsInteractive = func() bool { return true }
	var asked []string
	app.Confirm = func(title string) (bool, error) {
		asked = append(asked, title)
		return true, nil
	}
	mustExec(t, app, "create")
	mustExec(t, app, "node", "add", "entry")
	env.fake.Fail(http.MethodPost, "/canvas", http.StatusInternalServerError, "boom", 1)

	mustExec(t, app, "save", "--canvas")
	assert.Equal(t, []string{"Retry?"}, asked)
	assert.Equal(t, 2, env.fake.Count(http.MethodPost, "/canvas"))
	assert.Empty(t, app.Store.LastError())
}

func TestSaveCmd_FlagsAreExclusive(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "save", "--canvas", "--goals")
	assert.Error(t, err)
}

func TestLoadCmd(t *testing.T) {
	app, env := testApp(t)
	id := env.fake.Seed(map[string]any{
		"name":  "Seeded",
		"goals": []any{map[string]any{"id": "g1", "title": "Activate", "status": "completed"}},
	})

	mustExec(t, app, "load", id)
	j := app.Store.Journey()
	assert.Equal(t, "Seeded", j.Name)
	require.Len(t, j.Goals, 1)
	assert.True(t, j.Goals[0].IsCompleted())
	assert.False(t, app.Store.UnsavedChanges())

	mustExec(t, app, "load", "--only", "goals")
	assert.Equal(t, 1, env.fake.Count(http.MethodGet, "/goals"))

	_, err := executeCmd(t, app, "load", "--only", "reports")
	assert.Error(t, err)
}

func TestListAndStatsCmd(t *testing.T) {
	app, env := testApp(t)
	env.fake.Seed(map[string]any{"name": "First"})
	mustExec(t, app, "create", "--name", "Second")
	mustExec(t, app, "node", "add", "entry")
	mustExec(t, app, "save", "--canvas")

	list := decodeList(t, mustExec(t, app, "list", "--json"))
	assert.Len(t, list, 2)

	out := mustExec(t, app, "stats", "--remote", "--json")
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 1.0, st["totalNodes"])
}

func TestDeleteCmd(t *testing.T) {
	app, env := testApp(t)
	mustExec(t, app, "create", "--name", "Doomed")
	id := app.Store.ID()

	_, err := executeCmd(t, app, "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	mustExec(t, app, "delete", "--yes")
	_, ok := env.fake.Journey(id)
	assert.False(t, ok)
	assert.Empty(t, app.Store.ID())
}

func TestClearCmd_Confirmed(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string) (bool, error) { return false, nil }
	mustExec(t, app, "new", "--name", "Keep")

	out := mustExec(t, app, "clear")
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, "Keep", app.Store.Journey().Name)

	app.Confirm = func(string) (bool, error) { return true, nil }
	mustExec(t, app, "clear")
	assert.Empty(t, app.Store.ID())
}

func TestUpdateCmd(t *testing.T) {
	app, env := testApp(t)
	mustExec(t, app, "create", "--name", "Before")

	mustExec(t, app, "update", "--name", "After", "--published")
	assert.Equal(t, "After", app.Store.Journey().Name)
	assert.True(t, app.Store.Journey().IsPublished)
	assert.Equal(t, 1, env.fake.Count(http.MethodPut, "/"+app.Store.ID()))

	mustExec(t, app, "update", "--description", "Local only", "--local")
	assert.True(t, app.Store.Tracking().MetadataChanged)

	_, err := executeCmd(t, app, "update")
	assert.Error(t, err)
}

func TestStatusCmd(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new")
	mustExec(t, app, "node", "add", "entry")

	out := mustExec(t, app, "status", "--json")
	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, true, s["unsavedChanges"])
	assert.Equal(t, 1.0, s["changedNodes"])
	assert.Equal(t, 1.0, s["historyLength"])
}

// --- Files ---

func TestExportImportCmd(t *testing.T) {
	app, _ := testApp(t)
	mustExec(t, app, "new", "--name", "Exported")
	mustExec(t, app, "node", "add", "entry")
	mustExec(t, app, "milestone", "add", "Kickoff")
	path := filepath.Join(t.TempDir(), "journey.json")

	mustExec(t, app, "export", path)
	mustExec(t, app, "clear", "--yes")
	mustExec(t, app, "import", path)

	j := app.Store.Journey()
	assert.Equal(t, "Exported", j.Name)
	assert.Len(t, j.Nodes, 1)
	assert.Len(t, j.Milestones, 1)
}

func TestImportCmd_ReportsValidationErrors(t *testing.T) {
	app, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": 7, "edges": [{"id": "e", "source": "a", "target": "b"}]}`), 0o644))

	out, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Contains(t, out, "✖")
}

func TestAutosaveCmd_RejectsBadSchedule(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "autosave", "--schedule", "every tuesday")
	assert.Error(t, err)
}

// --- Helpers ---

func TestResolveID(t *testing.T) {
	all := []string{"node-0195a1", "node-0195b2", "edge-77"}
	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{input: "edge-77", want: "edge-77"},
		{input: "edge", want: "edge-77"},
		{input: "a1", want: "node-0195a1"},
		{input: "node-0195", wantErr: "ambiguous"},
		{input: "zzz", wantErr: "not found"},
		{input: "", wantErr: "required"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveID("node", tt.input, all)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseData(t *testing.T) {
	got, err := parseData([]string{"label=Hello", "delay=3", "flag=true", `opts={"a":1}`, "empty="})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got["label"])
	assert.Equal(t, 3.0, got["delay"])
	assert.Equal(t, true, got["flag"])
	assert.Equal(t, map[string]any{"a": 1.0}, got["opts"])
	assert.Equal(t, "", got["empty"])

	_, err = parseData([]string{"novalue"})
	assert.Error(t, err)
}
