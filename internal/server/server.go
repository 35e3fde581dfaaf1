// Package server is the reference REST backend the terminal client talks
// to. It exposes the service layer over JSON with chi routing.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/al211185/edumobile/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services bundles the use cases the API exposes.
type Services struct {
	Projects service.ProjectService
	Phases   service.PhaseService
	Kanban   service.KanbanService
	Feedback service.FeedbackService
}

type handler struct {
	svc Services
}

// NewRouter builds the HTTP handler. A nil observer discards request
// events.
func NewRouter(svc Services, observer Observer) http.Handler {
	if observer == nil {
		observer = NoopObserver{}
	}
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observe(observer))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", h.listProjects)
		r.Post("/projects", h.createProject)
		r.Get("/projects/{projectID}", h.getProject)
		r.Get("/projects/{projectID}/feedback/{phase}", h.listFeedback)
		r.Get("/projects/{projectID}/{workflow}", h.getRecord)
		r.Post("/projects/{projectID}/{workflow}", h.createRecord)

		r.Put("/{workflow}/{recordID}/phase/{phase}", h.updatePhase)

		r.Get("/development/{devID}/items", h.listItems)
		r.Post("/development/{devID}/items", h.createItem)
		r.Put("/development/{devID}/items/{itemID}", h.moveItem)

		r.Post("/feedback", h.createFeedback)
		r.Put("/feedback/{id}", h.updateFeedback)
	})
	return r
}

func observe(obs Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(r.Context(), RequestEvent{
				Method:   r.Method,
				Route:    route,
				Path:     r.URL.Path,
				Status:   status,
				Duration: time.Since(start),
			})
		})
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func Serve(ctx context.Context, addr string, h http.Handler, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
