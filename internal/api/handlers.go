package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/assistant"
	"github.com/starford/wunjo/internal/insight"
	"github.com/starford/wunjo/internal/journal"
	"github.com/starford/wunjo/internal/mindmap"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/vault"
)

// Handler holds API route handlers.
type Handler struct {
	journal   *journal.Service
	insights  *insight.Service
	maps      *mindmap.Service
	assistant *assistant.Service
	vault     *vault.Service
}

// NewHandler creates a new Handler.
func NewHandler(j *journal.Service, ins *insight.Service, m *mindmap.Service, a *assistant.Service, v *vault.Service) *Handler {
	return &Handler{journal: j, insights: ins, maps: m, assistant: a, vault: v}
}

// CreateCheckIn handles POST /checkins.
func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	rec, err := h.journal.AddCheckIn(r.Context(), journal.CheckInInput{
		Mood:      models.Mood(req.Mood),
		Notes:     req.Notes,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		slog.Error("create checkin failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ListCheckIns handles GET /checkins.
func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.journal.ListCheckIns(r.Context(), limit)
	if err != nil {
		slog.Error("list checkins failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []models.CheckIn{}
	}
	writeJSON(w, http.StatusOK, CheckInListResponse{CheckIns: items, Total: len(items)})
}

// DeleteCheckIn handles DELETE /checkins/{id}.
func (h *Handler) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.journal.DeleteCheckIn(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete checkin failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoodStats handles GET /checkins/stats.
func (h *Handler) MoodStats(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	stats, err := h.journal.MoodStats(r.Context(), days)
	if err != nil {
		slog.Error("mood stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	rec, err := h.journal.AddTask(r.Context(), journal.TaskInput{
		Title:  req.Title,
		DueAt:  req.DueAt,
		Repeat: models.TaskRepeat(req.Repeat),
	})
	if err != nil {
		slog.Error("create task failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.journal.ListTasks(r.Context())
	if err != nil {
		slog.Error("list tasks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []models.TaskItem{}
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: items, Total: len(items)})
}

// ToggleTask handles POST /tasks/{id}/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.journal.ToggleTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("toggle task failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateTask handles PUT /tasks/{id}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	patch := journal.TaskPatch{
		Title:     req.Title,
		DueAt:     req.DueAt,
		ClearDue:  req.ClearDue,
		Completed: req.Completed,
	}
	if req.Repeat != nil {
		repeat := models.TaskRepeat(*req.Repeat)
		patch.Repeat = &repeat
	}
	rec, err := h.journal.UpdateTask(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalid):
			writeJSON(w, http.StatusBadRequest, errorBody("invalid input"))
		default:
			slog.Error("update task failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.journal.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete task failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertSleep handles PUT /sleep/{date}.
func (h *Handler) UpsertSleep(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	date := chi.URLParam(r, "date")
	var req SleepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry := models.SleepEntry{Date: date, Hours: req.Hours}
	if err := h.journal.UpsertSleep(r.Context(), entry); err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid date or hours"))
			return
		}
		slog.Error("upsert sleep failed", slog.String("date", date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateCycle handles POST /cycles.
func (h *Handler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry := models.CycleEntry{Date: req.Date}
	if err := h.journal.AddCycle(r.Context(), entry); err != nil {
		slog.Error("create cycle failed", slog.String("date", req.Date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// DeleteCycle handles DELETE /cycles/{date}.
func (h *Handler) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := h.journal.DeleteCycle(r.Context(), date); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete cycle failed", slog.String("date", date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
