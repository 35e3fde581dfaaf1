package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := decode(r, &p); err != nil {
		writeError(w, err)
		return
	}
	p.ID = ""
	if err := h.svc.Projects.Create(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) getRecord(w http.ResponseWriter, r *http.Request) {
	wf, err := workflowParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.svc.Phases.Get(r.Context(), chi.URLParam(r, "projectID"), wf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) createRecord(w http.ResponseWriter, r *http.Request) {
	wf, err := workflowParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.svc.Phases.Create(r.Context(), chi.URLParam(r, "projectID"), wf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) updatePhase(w http.ResponseWriter, r *http.Request) {
	wf, err := workflowParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	phase, err := intParam(r, "phase")
	if err != nil {
		writeError(w, err)
		return
	}
	var data domain.Draft
	if err := decode(r, &data); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.svc.Phases.SavePhase(r.Context(), wf, chi.URLParam(r, "recordID"), phase, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Kanban.List(r.Context(), chi.URLParam(r, "devID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]domain.KanbanItem, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.KanbanItem
	if err := decode(r, &item); err != nil {
		writeError(w, err)
		return
	}
	item.ID = ""
	if err := h.svc.Kanban.Create(r.Context(), chi.URLParam(r, "devID"), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) moveItem(w http.ResponseWriter, r *http.Request) {
	var move domain.KanbanMove
	if err := decode(r, &move); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.svc.Kanban.Move(r.Context(), chi.URLParam(r, "devID"), chi.URLParam(r, "itemID"), move)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	phase, err := intParam(r, "phase")
	if err != nil {
		writeError(w, err)
		return
	}
	var wf domain.Workflow
	if q := r.URL.Query().Get("workflow"); q != "" {
		if wf, err = domain.ParseWorkflow(q); err != nil {
			writeError(w, fmt.Errorf("%v: %w", err, domain.ErrInvalid))
			return
		}
	}
	list, err := h.svc.Feedback.List(r.Context(), chi.URLParam(r, "projectID"), wf, phase)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]domain.Feedback, 0, len(list))
	for _, f := range list {
		out = append(out, *f)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createFeedback(w http.ResponseWriter, r *http.Request) {
	var f domain.Feedback
	if err := decode(r, &f); err != nil {
		writeError(w, err)
		return
	}
	f.ID = ""
	if err := h.svc.Feedback.Create(r.Context(), &f); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *handler) updateFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.svc.Feedback.UpdateBody(r.Context(), chi.URLParam(r, "id"), req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func workflowParam(r *http.Request) (domain.Workflow, error) {
	wf, err := domain.ParseWorkflow(chi.URLParam(r, "workflow"))
	if err != nil {
		// An unknown workflow segment is an unknown resource.
		return "", fmt.Errorf("%v: %w", err, domain.ErrNotFound)
	}
	return wf, nil
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, domain.ErrInvalid)
	}
	return n, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %v: %w", err, domain.ErrInvalid)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
