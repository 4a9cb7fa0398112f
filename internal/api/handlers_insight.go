package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// GetInsight handles GET /insight: the latest persisted daily insight, or
// a fresh inference when none has been stored yet.
func (h *Handler) GetInsight(w http.ResponseWriter, r *http.Request) {
	if res := h.insights.LatestInsight(r.Context()); res != nil {
		writeJSON(w, http.StatusOK, res)
		return
	}
	res, err := h.insights.InferToday(r.Context())
	if err != nil {
		slog.Error("infer today failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RefreshInsight handles POST /insight/refresh: retrain + infer + persist.
// Never fails; the response is whatever estimate could be produced.
func (h *Handler) RefreshInsight(w http.ResponseWriter, r *http.Request) {
	res := h.insights.RefreshDailyInsight(r.Context())
	writeJSON(w, http.StatusOK, res)
}

// Explain handles GET /explain: per-feature contribution breakdown.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	exp, err := h.insights.ExplainToday(r.Context())
	if err != nil {
		slog.Error("explain failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if exp == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no model trained yet"))
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// MindMap handles GET /mindmap.
func (h *Handler) MindMap(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	graph, err := h.maps.Build(r.Context(), days)
	if err != nil {
		slog.Error("mindmap failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

// Nudges handles GET /nudges.
func (h *Handler) Nudges(w http.ResponseWriter, r *http.Request) {
	items, err := h.assistant.Nudges(r.Context())
	if err != nil {
		slog.Error("nudges failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nudges": items})
}

// Prompts handles GET /prompts.
func (h *Handler) Prompts(w http.ResponseWriter, r *http.Request) {
	items, err := h.assistant.Prompts(r.Context())
	if err != nil {
		slog.Error("prompts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": items})
}

// Ask handles GET /assistant?q=.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	answer, err := h.assistant.Answer(r.Context(), q)
	if err != nil {
		slog.Error("assistant failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

// Export handles GET /export: a sealed snapshot of the full record set.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	blob, err := h.vault.Export(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="wunjo-snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// Import handles POST /import: replaces all records with the posted
// snapshot.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.vault.Import(r.Context(), blob); err != nil {
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorBody("invalid snapshot"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
