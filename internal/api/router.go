package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Check-ins.
	r.Post("/checkins", h.CreateCheckIn)
	r.Get("/checkins", h.ListCheckIns)
	r.Get("/checkins/stats", h.MoodStats)
	r.Delete("/checkins/{id}", h.DeleteCheckIn)

	// Tasks.
	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks/{id}/toggle", h.ToggleTask)
	r.Put("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	// Sleep and cycle logs.
	r.Put("/sleep/{date}", h.UpsertSleep)
	r.Post("/cycles", h.CreateCycle)
	r.Delete("/cycles/{date}", h.DeleteCycle)

	// Inference surface.
	r.Get("/insight", h.GetInsight)
	r.Post("/insight/refresh", h.RefreshInsight)
	r.Get("/explain", h.Explain)
	r.Get("/mindmap", h.MindMap)

	// Local heuristics.
	r.Get("/nudges", h.Nudges)
	r.Get("/prompts", h.Prompts)
	r.Get("/assistant", h.Ask)

	// Snapshot backup/restore.
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
