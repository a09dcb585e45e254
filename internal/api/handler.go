// Package api exposes search tasks over HTTP.
//
//	POST   /searches       submit JSON search params, 202 with {"id": ...}
//	GET    /searches       list tasks without results
//	GET    /searches/{id}  task status, progress and, once ended, the result
//	DELETE /searches/{id}  cancel a task
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/search"
)

// maxBodySize bounds submitted search params.
const maxBodySize = 64 << 10

// Searcher starts search tasks.
type Searcher interface {
	Search(ctx context.Context, params search.Params) (*search.Task, error)
}

type Handler struct {
	Searcher Searcher
	Registry *Registry
	Logger   *logger.Logger

	// DefaultSort applies when a submission names no sort order.
	DefaultSort search.SortBy

	// base parents every task so they outlive the submitting request.
	base context.Context
}

// NewHandler creates a Handler. Tasks are cancelled when base is done.
func NewHandler(base context.Context, s Searcher, log *logger.Logger) *Handler {
	return &Handler{
		Searcher: s,
		Registry: NewRegistry(DefaultRegistrySize),
		Logger:   logger.OrDiscard(log).WithComponent("api"),
		base:     base,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/searches", func(r chi.Router) {
		r.Post("/", h.SubmitSearch)
		r.Get("/", h.ListSearches)
		r.Get("/{id}", h.GetSearch)
		r.Delete("/{id}", h.CancelSearch)
	})
}

// NewRouter returns a router serving h with the standard middleware.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Logger))
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	params := search.Params{Sort: h.DefaultSort}
	if err := json.Unmarshal(body, &params); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	task, err := h.Searcher.Search(h.base, params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.Registry.Add(task)

	h.Logger.Info("search accepted", "search_id", task.ID(), "query", params.Query)
	w.Header().Set("Location", "/searches/"+task.ID())
	writeJSON(w, http.StatusAccepted, SubmitResponse{ID: task.ID()})
}

func (h *Handler) ListSearches(w http.ResponseWriter, r *http.Request) {
	tasks := h.Registry.List()
	resp := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, NewTaskResponse(task, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSearch(w http.ResponseWriter, r *http.Request) {
	task, ok := h.Registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("search not found"))
		return
	}
	writeJSON(w, http.StatusOK, NewTaskResponse(task, true))
}

func (h *Handler) CancelSearch(w http.ResponseWriter, r *http.Request) {
	task, ok := h.Registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("search not found"))
		return
	}
	task.Cancel()
	h.Logger.Info("search cancel requested", "search_id", task.ID())
	writeJSON(w, http.StatusAccepted, NewTaskResponse(task, false))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
