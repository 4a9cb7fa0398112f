package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/starford/wunjo/internal/feature"
)

// NudgesKey is the KV slot holding the most recent nudge batch.
const NudgesKey = "wunjo.nudges.latest"

// Nudge is one small suggested action.
type Nudge struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Nudges derives gentle suggestions from today's feature meta. Always
// returns at least one item.
func (s *Service) Nudges(ctx context.Context) ([]Nudge, error) {
	data, err := s.insights.CollectData(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	snap := feature.BuildDaily(data, now)
	meta := snap.Meta

	var out []Nudge
	push := func(title, detail string) {
		out = append(out, Nudge{
			ID:     fmt.Sprintf("%d-%d", now.UnixMilli(), len(out)),
			Title:  title,
			Detail: detail,
		})
	}

	if meta[feature.SleepYesterday] < 6 {
		push("Power rest (10 min)", "Low sleep detected. A short rest can help.")
	}
	if meta[feature.Compl7] < 0.4 {
		push("Tiny task", "Pick the smallest next action (1-2 minutes).")
	}
	if meta[feature.StressFlag] != 0 {
		push("2-minute breathing", "Reset your nervous system with a short breath break.")
	}
	if meta[feature.ContentFlag] != 0 {
		push("Screen break", "Take a quick offline pause to reduce overload.")
	}
	if meta[feature.CycleProx] > 0.2 {
		push("Gentle self-care", "PMS window - be extra kind to yourself.")
	}
	if len(out) == 0 {
		push("Mindful check-in", "Note one feeling, one need, one small step.")
	}

	// Keep the latest batch around for readers that want yesterday's
	// suggestions without recomputing. Persistence must not fail the call.
	if raw, err := json.Marshal(out); err == nil {
		_ = s.rec.KVSet(NudgesKey, string(raw))
	}
	return out, nil
}

// LatestNudges returns the most recently persisted nudge batch, or nil when
// none exists. A corrupt value is treated as absence.
func (s *Service) LatestNudges(_ context.Context) []Nudge {
	raw, ok, err := s.rec.KVGet(NudgesKey)
	if err != nil || !ok {
		return nil
	}
	var out []Nudge
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
