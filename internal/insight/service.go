// Package insight orchestrates training and inference for the daily
// mood-risk estimate: it assembles labeled windows from history, retrains
// the model, persists its parameters, and derives today's risk.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/wunjo/internal/feature"
	"github.com/starford/wunjo/internal/logit"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/sse"
	"github.com/starford/wunjo/internal/store"
)

// KV keys for persisted model state. One fixed key per concern.
const (
	ModelKey   = "wunjo.ml.moodRiskV1"
	InsightKey = "wunjo.ml.dailyInsight"
)

// DefaultWindowDays is the trailing training window.
const DefaultWindowDays = 60

// ColdStartRisk is returned before any model has been trained, so the UI
// never sees an undefined risk.
const ColdStartRisk = 0.2

// Publisher is the event sink the orchestrator announces fresh insights on.
// Delivery is best-effort fire-and-forget.
type Publisher interface {
	Publish(event sse.Event)
}

// Insight is one computed daily risk estimate.
type Insight struct {
	At      int64                   `json:"at"`  // epoch ms
	Day     string                  `json:"day"` // YYYY-MM-DD
	Risk    float64                 `json:"risk"`
	Meta    map[feature.Key]float64 `json:"meta"`
	Message string                  `json:"message,omitempty"`
}

// Service owns the persisted model parameters and the daily insight slot.
type Service struct {
	rec        store.Recorder
	broker     Publisher
	logger     *slog.Logger
	windowDays int
	now        func() time.Time
}

// NewService creates an insight service. broker may be nil when no event
// sink is wired (tests, MCP-only mode). windowDays is the trailing
// training window used by scheduled refreshes; 0 means DefaultWindowDays.
func NewService(rec store.Recorder, broker Publisher, logger *slog.Logger, windowDays int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Service{rec: rec, broker: broker, logger: logger, windowDays: windowDays, now: time.Now}
}

// CollectData assembles a fresh read-only context from the store.
// Never cached: every call reflects current store state.
func (s *Service) CollectData(_ context.Context) (*models.DataContext, error) {
	checkIns, err := s.rec.ListCheckIns()
	if err != nil {
		return nil, fmt.Errorf("insight: collect checkins: %w", err)
	}
	tasks, err := s.rec.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("insight: collect tasks: %w", err)
	}
	sleep, err := s.rec.ListSleep()
	if err != nil {
		return nil, fmt.Errorf("insight: collect sleep: %w", err)
	}
	cycles, err := s.rec.ListCycles()
	if err != nil {
		return nil, fmt.Errorf("insight: collect cycles: %w", err)
	}
	return &models.DataContext{CheckIns: checkIns, Tasks: tasks, Sleep: sleep, Cycles: cycles}, nil
}

// loadModel returns the persisted model, or nil when none exists.
// A corrupt value is treated as absence, not a failure.
func (s *Service) loadModel() *logit.Params {
	raw, ok, err := s.rec.KVGet(ModelKey)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("insight: model load failed", slog.String("error", err.Error()))
		}
		return nil
	}
	var p logit.Params
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("insight: corrupt model discarded", slog.String("error", err.Error()))
		return nil
	}
	return &p
}

func (s *Service) saveModel(p logit.Params) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("insight: marshal model: %w", err)
	}
	if err := s.rec.KVSet(ModelKey, string(raw)); err != nil {
		return fmt.Errorf("insight: save model: %w", err)
	}
	return nil
}

// labelFor implements the label rule: 1 when today's mood averaged into the
// low band (sad/tired), 0 otherwise. A day with no check-in labels 0.
func labelFor(moodToday float64) float64 {
	if moodToday > 0 && moodToday <= 2 {
		return 1
	}
	return 0
}

// TrainIfNeeded builds one labeled sample per day for the trailing
// windowDays days ending yesterday (today is the live inference target and
// is excluded), warm-starts from any persisted model, trains, and persists
// the result. No-ops when there is no check-in history at all, returning
// the existing persisted model unchanged.
func (s *Service) TrainIfNeeded(ctx context.Context, windowDays int) (*logit.Params, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	data, err := s.CollectData(ctx)
	if err != nil {
		return nil, err
	}
	if len(data.CheckIns) == 0 {
		return s.loadModel(), nil
	}

	now := s.now()
	X := make([][]float64, 0, windowDays)
	y := make([]float64, 0, windowDays)
	for d := windowDays; d >= 1; d-- {
		snap := feature.BuildDaily(data, now.AddDate(0, 0, -d))
		X = append(X, snap.X)
		y = append(y, labelFor(snap.Meta[feature.MoodToday]))
	}

	init := s.loadModel()
	trained := logit.Train(X, y, init, logit.DefaultOptions())
	trained.LastTrainedAt = now.UnixMilli()
	if err := s.saveModel(trained); err != nil {
		return nil, err
	}
	return &trained, nil
}

// InferToday computes today's risk estimate. Before any model exists it
// falls back to ColdStartRisk with no message.
func (s *Service) InferToday(ctx context.Context) (Insight, error) {
	data, err := s.CollectData(ctx)
	if err != nil {
		return Insight{}, err
	}
	now := s.now()
	snap := feature.BuildDaily(data, now)

	out := Insight{At: now.UnixMilli(), Day: snap.Day, Meta: snap.Meta}
	m := s.loadModel()
	if m == nil {
		out.Risk = ColdStartRisk
		return out, nil
	}
	out.Risk = logit.Predict(snap.X, *m)
	out.Message = buildMessage(out.Risk, snap.Meta)
	return out, nil
}

// RefreshDailyInsight retrains, infers, persists the snapshot, and
// announces it on the event sink. It never fails: training errors are
// logged and swallowed so inference still proceeds against whatever model
// is available, and a store fault degrades to the cold-start estimate.
func (s *Service) RefreshDailyInsight(ctx context.Context) Insight {
	if _, err := s.TrainIfNeeded(ctx, s.windowDays); err != nil {
		s.logger.Warn("insight: training skipped", slog.String("error", err.Error()))
	}

	res, err := s.InferToday(ctx)
	if err != nil {
		s.logger.Error("insight: inference failed", slog.String("error", err.Error()))
		now := s.now()
		res = Insight{At: now.UnixMilli(), Day: feature.DayKey(now), Risk: ColdStartRisk}
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := s.rec.KVSet(InsightKey, string(raw)); err != nil {
			s.logger.Warn("insight: snapshot persist failed", slog.String("error", err.Error()))
		}
	}
	if s.broker != nil {
		s.broker.Publish(sse.Event{Type: "insight.updated", Data: res})
	}
	return res
}

// LatestInsight returns the most recently persisted insight snapshot, or
// nil when none has been stored yet.
func (s *Service) LatestInsight(_ context.Context) *Insight {
	raw, ok, err := s.rec.KVGet(InsightKey)
	if err != nil || !ok {
		return nil
	}
	var res Insight
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		s.logger.Warn("insight: corrupt snapshot discarded", slog.String("error", err.Error()))
		return nil
	}
	return &res
}
