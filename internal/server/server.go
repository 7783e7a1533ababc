// Package server exposes the controller over HTTP. Every request gets its
// own recording view and controller on top of the shared model; the
// response body is the list of render commands the event produced.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idilsaglam/todomvc/internal/auth"
	"github.com/idilsaglam/todomvc/internal/controller"
	"github.com/idilsaglam/todomvc/internal/metrics"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/view"
	"github.com/idilsaglam/todomvc/internal/view/recorder"
	"github.com/idilsaglam/todomvc/pkg/logging"
)

const subsystem = "Server"

var (
	errBadRequest = errors.New("bad request")
	errTooLarge   = errors.New("request body too large")
)

type Server struct {
	model    controller.Model
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	token    string
	router   chi.Router
}

type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every /todos route.
func WithToken(token string) Option {
	return func(s *Server) { s.token = auth.StripBearer(token) }
}

// WithMetrics instruments the model and events, and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

func New(m controller.Model, opts ...Option) *Server {
	s := &Server{model: m}
	for _, o := range opts {
		o(s)
	}
	if s.metrics != nil {
		s.model = metrics.Instrument(m, s.metrics)
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.Info(subsystem, "listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Info(subsystem, "shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/todos", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Delete("/", s.handleClearCompleted)
		r.Post("/toggle-all", s.handleToggleAll)
		r.Patch("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleRemove)
		r.Get("/{id}/edit", s.handleEdit)
		r.Post("/{id}/cancel", s.handleCancel)
	})
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug(subsystem, "%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := auth.StripBearer(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type response struct {
	Route   view.Route      `json:"route"`
	Renders []recorder.Call `json:"renders"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type toggleAllRequest struct {
	Completed bool `json:"completed"`
}

// session is the per-request view and controller, already showing the
// route from the ?route= query.
type session struct {
	view *recorder.View
	ctrl *controller.Controller
}

func (s *Server) open(r *http.Request) (*session, error) {
	v := recorder.New()
	var opts []controller.Option
	if s.metrics != nil {
		opts = append(opts, controller.WithEventObserver(s.metrics.ObserveEvent))
	}
	c := controller.New(s.model, v, opts...)
	if err := c.SetView(r.Context(), "#/"+r.URL.Query().Get("route")); err != nil {
		return nil, err
	}
	return &session{view: v, ctrl: c}, nil
}

type trigger struct {
	event   view.Event
	payload view.Payload
}

// dispatch runs the events in order and replies with what they rendered.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, status int, events ...trigger) {
	sess, err := s.open(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.view.Reset()
	for _, e := range events {
		if err := sess.view.Trigger(r.Context(), e.event, e.payload); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, status, response{Route: sess.ctrl.Route(), Renders: sess.view.Calls()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Route: sess.ctrl.Route(), Renders: sess.view.Calls()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, http.StatusCreated, trigger{view.EventNewTodo, view.Payload{Title: req.Title}})
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("completed") != "true" {
		writeError(w, fmt.Errorf("%w: only ?completed=true is supported", errBadRequest))
		return
	}
	s.dispatch(w, r, http.StatusOK, trigger{view.EventRemoveCompleted, view.Payload{}})
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	var req toggleAllRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, http.StatusOK, trigger{view.EventToggleAll, view.Payload{Completed: req.Completed}})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" && req.Completed != nil {
		writeError(w, fmt.Errorf("%w: an empty title removes the todo, completed cannot be set with it", errBadRequest))
		return
	}
	var events []trigger
	if req.Title != nil {
		events = append(events, trigger{view.EventItemEditDone, view.Payload{ID: id, Title: *req.Title}})
	}
	if req.Completed != nil {
		events = append(events, trigger{view.EventItemToggle, view.Payload{ID: id, Completed: *req.Completed}})
	}
	if len(events) == 0 {
		writeError(w, fmt.Errorf("%w: nothing to update", errBadRequest))
		return
	}
	s.dispatch(w, r, http.StatusOK, events...)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, http.StatusOK, trigger{view.EventItemRemove, view.Payload{ID: id}})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, http.StatusOK, trigger{view.EventItemEdit, view.Payload{ID: id}})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, http.StatusOK, trigger{view.EventItemEditCancel, view.Payload{ID: id}})
}

func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %w", errTooLarge, err)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, model.ErrEmptyTitle):
		status = http.StatusBadRequest
	case errors.Is(err, errTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	default:
		logging.Error(subsystem, err, "request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
