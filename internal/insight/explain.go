package insight

import (
	"context"
	"math"
	"sort"

	"github.com/starford/wunjo/internal/feature"
	"github.com/starford/wunjo/internal/logit"
)

// ExplainItem is one feature's contribution to today's risk.
// Contribution = value * weight; the sign marks the push direction.
type ExplainItem struct {
	Key          feature.Key `json:"key"`
	Label        string      `json:"label"`
	Value        float64     `json:"value"`
	Weight       float64     `json:"weight"`
	Contribution float64     `json:"contribution"`
	Hint         string      `json:"hint,omitempty"`
}

// Explanation decomposes today's risk into per-feature contributions,
// largest magnitude first.
type Explanation struct {
	Items []ExplainItem `json:"items"`
	Risk  float64       `json:"risk"`
}

// Human-readable labels and static guidance hints, aligned by feature key.
var (
	featureLabels = map[feature.Key]string{
		feature.MoodToday:      "Mood today",
		feature.MoodAvg7:       "7d mood avg",
		feature.Compl7:         "7d task completion",
		feature.SleepYesterday: "Sleep yesterday (h)",
		feature.SleepAvg7:      "7d sleep avg (h)",
		feature.CycleProx:      "Cycle proximity",
		feature.StressFlag:     "Stress cues",
		feature.ContentFlag:    "Content load",
	}
	featureHints = map[feature.Key]string{
		feature.MoodToday:      "Lower mood today raises risk.",
		feature.MoodAvg7:       "Consistently lower mood increases risk.",
		feature.Compl7:         "Lower task completion may correlate with dips.",
		feature.SleepYesterday: "Short sleep may impact mood.",
		feature.SleepAvg7:      "Sustained low sleep can elevate risk.",
		feature.CycleProx:      "Pre-menstrual window may affect mood.",
		feature.StressFlag:     "Stress signals in notes raise risk.",
		feature.ContentFlag:    "High content/social usage may affect mood.",
	}
)

// ExplainToday recomputes today's feature vector against the persisted
// weights and returns per-feature contributions sorted by descending
// absolute magnitude: the largest drivers surface first regardless of sign.
// Returns nil when no model is persisted — nothing to explain yet.
func (s *Service) ExplainToday(ctx context.Context) (*Explanation, error) {
	m := s.loadModel()
	if m == nil {
		return nil, nil
	}
	data, err := s.CollectData(ctx)
	if err != nil {
		return nil, err
	}
	snap := feature.BuildDaily(data, s.now())

	items := make([]ExplainItem, 0, feature.Dim)
	for i, k := range feature.Keys {
		var w float64
		if i < len(m.Weights) {
			w = m.Weights[i]
		}
		v := snap.X[i]
		items = append(items, ExplainItem{
			Key:          k,
			Label:        featureLabels[k],
			Value:        v,
			Weight:       w,
			Contribution: v * w,
			Hint:         featureHints[k],
		})
	}
	sort.SliceStable(items, func(a, b int) bool {
		return math.Abs(items[a].Contribution) > math.Abs(items[b].Contribution)
	})

	return &Explanation{Items: items, Risk: logit.Predict(snap.X, *m)}, nil
}
