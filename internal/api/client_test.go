package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, NoopObserver{})
}

func TestPhasePath_DistinctPerPhase(t *testing.T) {
	assert.Equal(t, "/api/design/rec-1/phase/2", PhasePath(domain.WorkflowDesign, "rec-1", 2))
	assert.NotEqual(t, PhasePath(domain.WorkflowDesign, "rec-1", 1), PhasePath(domain.WorkflowDesign, "rec-1", 2))
	assert.Equal(t, "/api/planning/rec-1/phase/3", PhasePath(domain.WorkflowPlanning, "rec-1", 3))
}

func TestUpdatePhase_SendsDraftToPhaseEndpoint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/design/rec-1/phase/2", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body domain.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "uploads/wire.png", body["wireframes"])

		json.NewEncoder(w).Encode(domain.PhaseRecord{
			ID:     "rec-1",
			Phases: map[int]domain.Draft{2: body},
		})
	})

	rec, err := c.UpdatePhase(context.Background(), domain.WorkflowDesign, "rec-1", 2, domain.Draft{"wireframes": "uploads/wire.png"})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "uploads/wire.png", rec.Phase(2).String("wireframes"))
}

func TestUpdatePhase_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec, err := c.UpdatePhase(context.Background(), domain.WorkflowDesign, "rec-1", 1, nil)

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestUpdatePhase_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>saved</html>"))
	})

	rec, err := c.UpdatePhase(context.Background(), domain.WorkflowDesign, "rec-1", 1, domain.Draft{"a": 1})

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestGetRecord_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p-1/planning", r.URL.Path)
		http.Error(w, "no record", http.StatusNotFound)
	})

	_, err := c.GetRecord(context.Background(), "p-1", domain.WorkflowPlanning)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestServerError_IsHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.UpdateItem(context.Background(), "dev-1", "42", domain.KanbanMove{Status: domain.KanbanDone})

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "boom", he.Body)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItem_Body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/development/dev-1/items/42", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "Done", "order": float64(0)}, body)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.UpdateItem(context.Background(), "dev-1", "42", domain.KanbanMove{Status: domain.KanbanDone, Order: 0}))
}

func TestListFeedback_QueryAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p-1/feedback/2", r.URL.Path)
		assert.Equal(t, "design", r.URL.Query().Get("workflow"))
		json.NewEncoder(w).Encode([]domain.Feedback{{ID: "fb-1", Body: "Mejorar contraste"}})
	})

	items, err := c.ListFeedback(context.Background(), "p-1", domain.WorkflowDesign, 2)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mejorar contraste", items[0].Body)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	_, err := c.ListProjects(context.Background())

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCancelledContextIsNotTimeout(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	_, err := c.ListProjects(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestUnavailable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)

	_, err := c.ListProjects(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLogObserver_RecordsRequests(t *testing.T) {
	var buf bytes.Buffer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL}, NewLogObserver(&buf))

	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "api_request")
	assert.Contains(t, out, "path=/api/projects")
	assert.Contains(t, out, "status=200")
}
