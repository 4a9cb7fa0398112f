// Package mindmap builds the mood correlation graph for visualization:
// a mood hub with one spoke per tracked factor, edges weighted by Pearson
// correlation over a rolling window of daily feature aggregates.
package mindmap

import (
	"context"
	"math"
	"time"

	"github.com/starford/wunjo/internal/feature"
	"github.com/starford/wunjo/internal/insight"
)

// DefaultWindowDays is the rolling aggregation window.
const DefaultWindowDays = 30

// Node is one tracked factor in the graph.
type Node struct {
	ID    feature.Key `json:"id"`
	Label string      `json:"label"`
}

// Edge connects mood (source) to a factor (target) with a correlation
// weight in [-1, 1]. There is no further direction semantics.
type Edge struct {
	Source feature.Key `json:"source"`
	Target feature.Key `json:"target"`
	Weight float64     `json:"weight"`
}

// Graph is the fixed 1-hub/N-spoke correlation graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// nodes is the fixed topology: mood first (hub), then the spokes.
var nodes = []Node{
	{ID: feature.MoodToday, Label: "Mood"},
	{ID: feature.Compl7, Label: "Tasks"},
	{ID: feature.SleepYesterday, Label: "Sleep (yesterday)"},
	{ID: feature.SleepAvg7, Label: "Sleep (7d)"},
	{ID: feature.CycleProx, Label: "Cycle proximity"},
	{ID: feature.ContentFlag, Label: "Content load"},
	{ID: feature.StressFlag, Label: "Stress cues"},
}

// Service derives correlation graphs from the same data context the
// inference pipeline reads. Each call takes a fresh snapshot; there is no
// caching contract with the other readers.
type Service struct {
	insights *insight.Service
	now      func() time.Time
}

// NewService creates a mindmap service on top of the insight data source.
func NewService(insights *insight.Service) *Service {
	return &Service{insights: insights, now: time.Now}
}

// Build computes the correlation graph over the trailing windowDays days
// ending yesterday. Booleans in the daily meta are already coerced to 0/1
// by the feature builder, so every series is plain numeric.
func (s *Service) Build(ctx context.Context, windowDays int) (Graph, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	data, err := s.insights.CollectData(ctx)
	if err != nil {
		return Graph{}, err
	}

	now := s.now()
	series := make(map[feature.Key][]float64, feature.Dim)
	for d := windowDays; d >= 1; d-- {
		snap := feature.BuildDaily(data, now.AddDate(0, 0, -d))
		for _, k := range feature.Keys {
			series[k] = append(series[k], snap.Meta[k])
		}
	}

	mood := series[feature.MoodToday]
	edges := make([]Edge, 0, len(nodes)-1)
	for _, n := range nodes[1:] {
		edges = append(edges, Edge{
			Source: feature.MoodToday,
			Target: n.ID,
			Weight: pearson(mood, series[n.ID]),
		})
	}
	return Graph{Nodes: nodes, Edges: edges}, nil
}

// pearson returns cov(x,y)/sqrt(var(x)*var(y)) clamped to [-1,1].
// Fewer than 3 paired samples or a zero-variance series yields 0 — the
// correlation is undefined there and guarded rather than propagated.
func pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 3 {
		return 0
	}
	xs := x[len(x)-n:]
	ys := y[len(y)-n:]

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var num, dx, dy float64
	for i := 0; i < n; i++ {
		vx := xs[i] - mx
		vy := ys[i] - my
		num += vx * vy
		dx += vx * vx
		dy += vy * vy
	}
	den := math.Sqrt(dx * dy)
	if den == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, num/den))
}
