package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/al211185/edumobile/internal/api"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) Services {
	t.Helper()
	return NewServices(testutil.NewTestDB(t))
}

func newTestClient(t *testing.T, observer Observer) *api.Client {
	t.Helper()
	srv := httptest.NewServer(NewRouter(newTestServices(t), observer))
	t.Cleanup(srv.Close)
	return api.NewClient(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
}

func createProject(t *testing.T, c *api.Client, shortID string) *domain.Project {
	t.Helper()
	p, err := c.CreateProject(context.Background(), domain.Project{Name: "Proyecto " + shortID, ShortID: shortID})
	require.NoError(t, err)
	return p
}

func TestProjects_CreateListGet(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	p := createProject(t, c, "WEB01")
	assert.NotEmpty(t, p.ID)

	list, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "WEB01", list[0].ShortID)

	got, err := c.GetProject(ctx, "WEB01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProjects_InvalidIsBadRequest(t *testing.T) {
	c := newTestClient(t, nil)

	_, err := c.CreateProject(context.Background(), domain.Project{Name: ""})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
}

func TestRecords_MissingIsNotFound(t *testing.T) {
	c := newTestClient(t, nil)
	p := createProject(t, c, "WEB01")

	_, err := c.GetRecord(context.Background(), p.ID, domain.WorkflowDesign)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecords_UnknownWorkflowIsNotFound(t *testing.T) {
	c := newTestClient(t, nil)
	p := createProject(t, c, "WEB01")

	_, err := c.GetRecord(context.Background(), p.ID, domain.Workflow("deployment"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecords_UpdatePhaseRoundTrip(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	p := createProject(t, c, "WEB01")

	rec, err := c.CreateRecord(ctx, p.ID, domain.WorkflowDesign)
	require.NoError(t, err)

	updated, err := c.UpdatePhase(ctx, domain.WorkflowDesign, rec.ID, 3, domain.Draft{"palette": "#fff", "typography": "Inter"})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CurrentPhase)
	assert.Equal(t, "Inter", updated.Phase(3).String("typography"))

	fetched, err := c.GetRecord(ctx, "WEB01", domain.WorkflowDesign)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, fetched.ID)
	assert.Equal(t, "#fff", fetched.Phase(3).String("palette"))
}

func TestRecords_PhaseOutOfRange(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	p := createProject(t, c, "WEB01")
	rec, err := c.CreateRecord(ctx, p.ID, domain.WorkflowPlanning)
	require.NoError(t, err)

	_, err = c.UpdatePhase(ctx, domain.WorkflowPlanning, rec.ID, 9, domain.Draft{"x": 1})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
}

func TestKanban_CreateListMove(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	p := createProject(t, c, "DEV01")
	dev, err := c.CreateRecord(ctx, p.ID, domain.WorkflowDevelopment)
	require.NoError(t, err)

	html, err := c.CreateItem(ctx, dev.ID, domain.KanbanItem{Title: "html", Status: domain.KanbanTodo})
	require.NoError(t, err)
	_, err = c.CreateItem(ctx, dev.ID, domain.KanbanItem{Title: "css", Status: domain.KanbanTodo})
	require.NoError(t, err)

	require.NoError(t, c.UpdateItem(ctx, dev.ID, html.ID, domain.KanbanMove{Status: domain.KanbanDone, Order: 0}))

	items, err := c.ListItems(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "css", items[0].Title)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "html", items[1].Title)
	assert.Equal(t, domain.KanbanDone, items[1].Status)
}

func TestKanban_InvalidStatusRejected(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	p := createProject(t, c, "DEV01")
	dev, err := c.CreateRecord(ctx, p.ID, domain.WorkflowDevelopment)
	require.NoError(t, err)
	item, err := c.CreateItem(ctx, dev.ID, domain.KanbanItem{Title: "html"})
	require.NoError(t, err)

	err = c.UpdateItem(ctx, dev.ID, item.ID, domain.KanbanMove{Status: "Blocked"})
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
}

func TestFeedback_CreateListUpdate(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()
	p := createProject(t, c, "WEB01")

	fb, err := c.CreateFeedback(ctx, domain.Feedback{ProjectID: p.ID, Workflow: domain.WorkflowDesign, Phase: 2, Author: "Prof. Ruiz", Body: "Bien"})
	require.NoError(t, err)

	list, err := c.ListFeedback(ctx, p.ID, domain.WorkflowDesign, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bien", list[0].Body)

	updated, err := c.UpdateFeedback(ctx, fb.ID, "Muy bien")
	require.NoError(t, err)
	assert.Equal(t, "Muy bien", updated.Body)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(t, NewLogObserver(&buf))

	_, err := c.GetProject(context.Background(), "NOPE01")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "http_request")
	assert.Contains(t, out, "route=/api/projects/{projectID}")
	assert.Contains(t, out, "status=404")
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(newTestServices(t), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	srv := httptest.NewServer(NewRouter(newTestServices(t), nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/projects", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := NewRouter(newTestServices(t), nil)
	go func() {
		errCh <- Serve(ctx, "127.0.0.1:0", h, func(a net.Addr) { addrCh <- a.String() })
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
