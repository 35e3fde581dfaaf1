// Package api is the JSON-over-HTTP client for the project backend. It
// satisfies the store interfaces of the wizard and kanban packages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/al211185/edumobile/internal/domain"
)

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend REST API.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// PhasePath resolves the update endpoint for one phase of a workflow
// record. Every phase has its own path; all share the record ID.
func PhasePath(workflow domain.Workflow, recordID string, phase int) string {
	return fmt.Sprintf("/api/%s/%s/phase/%d", workflow, url.PathEscape(recordID), phase)
}

func recordPath(projectID string, workflow domain.Workflow) string {
	return fmt.Sprintf("/api/projects/%s/%s", url.PathEscape(projectID), workflow)
}

func itemsPath(devID string) string {
	return fmt.Sprintf("/api/development/%s/items", url.PathEscape(devID))
}

// ── projects ────────────────────────────────────────────────────────────────

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject resolves a project by UUID or short ID.
func (c *Client) GetProject(ctx context.Context, ref string) (*domain.Project, error) {
	var out domain.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(ref), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject registers a project and returns the stored copy.
func (c *Client) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	var out domain.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── phase records ───────────────────────────────────────────────────────────

// GetRecord returns the project's record for workflow, or an error
// wrapping domain.ErrNotFound when none exists yet.
func (c *Client) GetRecord(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	var out domain.PhaseRecord
	if err := c.do(ctx, http.MethodGet, recordPath(projectID, workflow), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecord creates the project's record for workflow. The backend
// returns the existing record when one is already there.
func (c *Client) CreateRecord(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	var out domain.PhaseRecord
	if err := c.do(ctx, http.MethodPost, recordPath(projectID, workflow), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePhase saves data as one phase of a record. An empty response body
// yields a nil record; an undecodable one yields domain.ErrMalformedResponse
// even though the save itself succeeded.
func (c *Client) UpdatePhase(ctx context.Context, workflow domain.Workflow, recordID string, phase int, data domain.Draft) (*domain.PhaseRecord, error) {
	if data == nil {
		data = domain.Draft{}
	}
	body, err := c.send(ctx, http.MethodPut, PhasePath(workflow, recordID, phase), data)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var out domain.PhaseRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &out, nil
}

// ── kanban ──────────────────────────────────────────────────────────────────

// ListItems returns the board items of a development phase.
func (c *Client) ListItems(ctx context.Context, devID string) ([]domain.KanbanItem, error) {
	var out []domain.KanbanItem
	if err := c.do(ctx, http.MethodGet, itemsPath(devID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem adds a card to a development phase.
func (c *Client) CreateItem(ctx context.Context, devID string, item domain.KanbanItem) (*domain.KanbanItem, error) {
	var out domain.KanbanItem
	if err := c.do(ctx, http.MethodPost, itemsPath(devID), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem moves one card. Other cards shifted by the move are not sent.
func (c *Client) UpdateItem(ctx context.Context, devID, itemID string, move domain.KanbanMove) error {
	path := itemsPath(devID) + "/" + url.PathEscape(itemID)
	_, err := c.send(ctx, http.MethodPut, path, move)
	return err
}

// ── feedback ────────────────────────────────────────────────────────────────

// ListFeedback returns professor feedback for one phase of a project.
func (c *Client) ListFeedback(ctx context.Context, projectID string, workflow domain.Workflow, phase int) ([]domain.Feedback, error) {
	path := fmt.Sprintf("/api/projects/%s/feedback/%d", url.PathEscape(projectID), phase)
	if workflow != "" {
		path += "?workflow=" + url.QueryEscape(string(workflow))
	}
	var out []domain.Feedback
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFeedback stores a new feedback entry.
func (c *Client) CreateFeedback(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	var out domain.Feedback
	if err := c.do(ctx, http.MethodPost, "/api/feedback", fb, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFeedback replaces the body of an existing entry.
func (c *Client) UpdateFeedback(ctx context.Context, id, body string) (*domain.Feedback, error) {
	var out domain.Feedback
	req := struct {
		Body string `json:"body"`
	}{Body: body}
	if err := c.do(ctx, http.MethodPut, "/api/feedback/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── transport ───────────────────────────────────────────────────────────────

// do sends a request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrMalformedResponse, err)
	}
	return nil
}

// send performs the request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, in any) ([]byte, error) {
	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	status, body, err := c.roundTrip(ctx, method, path, in)
	c.observer.ObserveRequest(ctx, RequestEvent{
		Method:   method,
		Path:     path,
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			if errors.Is(cerr, context.DeadlineExceeded) {
				return 0, nil, fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
			}
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, cerr)
		}
		if isConnectionError(err) {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
		}
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		he := &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusNotFound {
			return resp.StatusCode, nil, fmt.Errorf("%w: %w", domain.ErrNotFound, he)
		}
		return resp.StatusCode, nil, he
	}
	return resp.StatusCode, body, nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
