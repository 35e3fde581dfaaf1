package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/al211185/edumobile/internal/api"
	"github.com/al211185/edumobile/internal/config"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/server"
	"github.com/al211185/edumobile/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App to the reference backend over an in-memory DB.
func testApp(t *testing.T) (*App, *api.Client) {
	t.Helper()
	srv := httptest.NewServer(server.NewRouter(server.NewServices(testutil.NewTestDB(t)), nil))
	t.Cleanup(srv.Close)

	client := api.NewClient(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	return &App{
		Config:   config.DefaultConfig(t.TempDir()),
		Projects: client,
		Phases:   client,
		Board:    client,
		Feedback: client,
	}, client
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

func seedProject(t *testing.T, app *App, shortID string) {
	t.Helper()
	_, err := executeCmd(t, app, "project", "add", "--id", shortID, "--name", "Panadería "+shortID)
	require.NoError(t, err)
}

// --- project ---

func TestProjectCmd_AddListShow(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")

	out, err = executeCmd(t, app, "project", "add", "--id", "web01", "--name", "Panadería", "--course", "Web I", "--student", "Ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Panadería [WEB01]")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "WEB01")
	assert.Contains(t, out, "Web I")

	out, err = executeCmd(t, app, "project", "show", "web01")
	require.NoError(t, err)
	assert.Contains(t, out, "Panadería")
	assert.Contains(t, out, "not started")
}

func TestProjectCmd_AddRejectsBadShortID(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "W1", "--name", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a course code")
}

func TestProjectCmd_ShowUnknown(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "project", "show", "NOPE01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `project not found: "NOPE01"`)
}

// --- wizard ---

func TestWizardCmd_SaveAndShow(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "wizard", "save", "WEB01", "--phase", "1", "--set", "objective=Sell bread online")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved planning phase 1")

	out, err = executeCmd(t, app, "wizard", "show", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "Sell bread online")
	assert.Contains(t, out, "Phase 1")
}

func TestWizardCmd_ShowNotStarted(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "wizard", "show", "WEB01", "--workflow", "design")
	require.NoError(t, err)
	assert.Contains(t, out, "Not started.")
}

func TestWizardCmd_AdvanceValidates(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "wizard", "save", "WEB01", "--set", "objective=Sell bread", "--advance")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "audience")
}

func TestWizardCmd_AdvanceThroughWorkflow(t *testing.T) {
	app, client := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "wizard", "save", "WEB01", "--set", "objective=Sell bread", "--set", "audience=Locals", "--advance")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved planning phase 1, now on phase 2")

	out, err = executeCmd(t, app, "wizard", "save", "WEB01", "--phase", "2", "--set", "functional=Order form", "--advance")
	require.NoError(t, err)
	assert.Contains(t, out, "now on phase 3")

	out, err = executeCmd(t, app, "wizard", "save", "WEB01", "--phase", "3", "--set", "milestones=Week 4 demo", "--advance")
	require.NoError(t, err)
	assert.Contains(t, out, "Planning complete")

	p, err := client.GetProject(context.Background(), "WEB01")
	require.NoError(t, err)
	rec, err := client.GetRecord(context.Background(), p.ID, domain.WorkflowPlanning)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.CurrentPhase)
	assert.Equal(t, "Order form", rec.Phase(2).String("functional"))
}

func TestWizardCmd_AdvanceSkippingIncompletePhase(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "wizard", "save", "WEB01", "--phase", "3", "--set", "milestones=Demo", "--advance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ahead of the saved progress")
}

func TestWizardCmd_DesignFieldKinds(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "wizard", "save", "WEB01", "--workflow", "design", "--phase", "2",
		"--set", "wireframes=home.png", "--set", "responsive=yes")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "wizard", "show", "WEB01", "--workflow", "design")
	require.NoError(t, err)
	assert.Contains(t, out, "home.png")
	assert.Contains(t, out, "yes")
}

func TestWizardCmd_UnknownField(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "wizard", "save", "WEB01", "--set", "colour=red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `has no field "colour"`)
}

func TestWizardCmd_RejectsWorkflowWithoutWizard(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "wizard", "show", "WEB01", "--workflow", "development")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no phase wizard")
}

func TestWizardCmd_OpenNonInteractivePrints(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "wizard", "open", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "Not started.")
}

func TestWizardCmd_OpenInteractiveRunsPhaseView(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	var got tea.Model
	app.IsInteractive = func() bool { return true }
	app.RunProgram = func(m tea.Model) error {
		got = m
		return nil
	}

	_, err := executeCmd(t, app, "wizard", "open", "WEB01", "--review")
	require.NoError(t, err)
	require.NotNil(t, got)
	m, ok := got.(appModel)
	require.True(t, ok)
	assert.Equal(t, ViewPhase, m.activeView().ID())
	assert.True(t, m.state.ReadOnly)
}

// --- board ---

func TestBoardCmd_AddAndOpen(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "board", "add", "WEB01", "--title", "Header")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Header" to Backlog`)

	_, err = executeCmd(t, app, "board", "add", "WEB01", "--title", "Footer", "--status", "in progress")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "board", "open", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "Backlog (1)")
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Footer")
}

func TestBoardCmd_AddRejectsUnknownColumn(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "board", "add", "WEB01", "--title", "Header", "--status", "Blocked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")
}

func TestBoardCmd_MoveAcrossColumns(t *testing.T) {
	app, client := testApp(t)
	seedProject(t, app, "WEB01")
	for _, title := range []string{"html", "css"} {
		_, err := executeCmd(t, app, "board", "add", "WEB01", "--title", title, "--status", "Todo")
		require.NoError(t, err)
	}

	out, err := executeCmd(t, app, "board", "move", "WEB01", "css", "--to", "Done")
	require.NoError(t, err)
	assert.Contains(t, out, "Done (1)")

	p, err := client.GetProject(context.Background(), "WEB01")
	require.NoError(t, err)
	dev, err := client.GetRecord(context.Background(), p.ID, domain.WorkflowDevelopment)
	require.NoError(t, err)
	items, err := client.ListItems(context.Background(), dev.ID)
	require.NoError(t, err)

	placement := map[string]domain.KanbanStatus{}
	for _, it := range items {
		placement[it.Title] = it.Status
	}
	assert.Equal(t, domain.KanbanTodo, placement["html"])
	assert.Equal(t, domain.KanbanDone, placement["css"])
}

func TestBoardCmd_MoveWithinColumn(t *testing.T) {
	app, client := testApp(t)
	seedProject(t, app, "WEB01")
	for _, title := range []string{"html", "css", "js"} {
		_, err := executeCmd(t, app, "board", "add", "WEB01", "--title", title, "--status", "Todo")
		require.NoError(t, err)
	}

	_, err := executeCmd(t, app, "board", "move", "WEB01", "js", "--order", "1")
	require.NoError(t, err)

	p, err := client.GetProject(context.Background(), "WEB01")
	require.NoError(t, err)
	dev, err := client.GetRecord(context.Background(), p.ID, domain.WorkflowDevelopment)
	require.NoError(t, err)
	items, err := client.ListItems(context.Background(), dev.ID)
	require.NoError(t, err)

	order := make([]string, 3)
	for _, it := range items {
		order[it.Position] = it.Title
	}
	assert.Equal(t, []string{"js", "html", "css"}, order)
}

func TestBoardCmd_MoveToSamePlace(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")
	_, err := executeCmd(t, app, "board", "add", "WEB01", "--title", "html")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "board", "move", "WEB01", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to move.")
}

func TestBoardCmd_MoveUnknownTask(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "board", "move", "WEB01", "ghost", "--to", "Done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task not found: "ghost"`)
}

// --- feedback ---

func TestFeedbackCmd_AddShowEdit(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	out, err := executeCmd(t, app, "feedback", "show", "WEB01")
	require.NoError(t, err)
	assert.Contains(t, out, "No feedback yet.")

	out, err = executeCmd(t, app, "feedback", "add", "WEB01", "--phase", "2", "--author", "Prof. Ruiz", "--body", "List the payment methods")
	require.NoError(t, err)
	assert.Contains(t, out, "to planning phase 2")
	id := strings.Fields(out)[2]

	out, err = executeCmd(t, app, "feedback", "show", "WEB01", "--phase", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Prof. Ruiz")
	assert.Contains(t, out, "List the payment methods")

	out, err = executeCmd(t, app, "feedback", "edit", id, "--body", "List payment and delivery methods")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated feedback "+id)

	out, err = executeCmd(t, app, "feedback", "show", "WEB01", "--phase", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "payment and delivery")
}

func TestFeedbackCmd_RequiresBody(t *testing.T) {
	app, _ := testApp(t)
	seedProject(t, app, "WEB01")

	_, err := executeCmd(t, app, "feedback", "add", "WEB01", "--body", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body is required")
}

// --- serve ---

func TestServeCmd_NotWired(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not wired")
}

func TestServeCmd_UsesConfiguredAddr(t *testing.T) {
	app, _ := testApp(t)
	var addr string
	app.Serve = func(ctx context.Context, a string) error {
		addr = a
		return errors.New("stopped")
	}

	_, err := executeCmd(t, app, "serve")
	require.EqualError(t, err, "stopped")
	assert.Equal(t, app.Config.ListenAddr, addr)

	_, _ = executeCmd(t, app, "serve", "--addr", "127.0.0.1:9999")
	assert.Equal(t, "127.0.0.1:9999", addr)
}
