// Package assistant provides the local-only heuristic layer on top of the
// inference pipeline: canned answers, nudges, and reflective prompts.
// No ML beyond re-reading the daily feature meta, no network.
package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/starford/wunjo/internal/insight"
	"github.com/starford/wunjo/internal/mindmap"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/store"
)

// Service answers free-form wellbeing questions from local data.
type Service struct {
	insights *insight.Service
	maps     *mindmap.Service
	rec      store.Recorder
	now      func() time.Time
}

// NewService creates an assistant over the given data sources.
func NewService(insights *insight.Service, maps *mindmap.Service, rec store.Recorder) *Service {
	return &Service{insights: insights, maps: maps, rec: rec, now: time.Now}
}

// Answer matches the query against simple local intents (mood, tasks,
// cycle, sleep) and otherwise surfaces the strongest mood correlation from
// the mindmap.
func (s *Service) Answer(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(query)
	data, err := s.insights.CollectData(ctx)
	if err != nil {
		return "", err
	}

	const days = 14
	recent := data.CheckIns
	if len(recent) > days {
		recent = recent[len(recent)-days:]
	}
	var happy, low int
	for _, c := range recent {
		switch c.Mood {
		case models.MoodHappy:
			happy++
		case models.MoodSad, models.MoodTired:
			low++
		}
	}
	var done int
	for _, t := range data.Tasks {
		if t.Completed {
			done++
		}
	}
	var compl float64
	if len(data.Tasks) > 0 {
		compl = float64(done) / float64(len(data.Tasks))
	}

	switch {
	case containsAny(q, "mood", "feel"):
		return fmt.Sprintf("In the last %d days, you logged %d higher moods and %d lower moods. Consider a small self-care action if today feels heavy.", days, happy, low), nil
	case containsAny(q, "habit", "task", "productiv"):
		return fmt.Sprintf("Your overall completion is %.0f%%. A tiny task (1-2 minutes) can restart momentum.", compl*100), nil
	case containsAny(q, "cycle", "pms", "period"):
		return "Cycle effects can modulate mood. If applicable, be gentle with yourself around the PMS window.", nil
	case containsAny(q, "sleep"):
		return "Short sleep often correlates with lower mood. A 10-minute rest or earlier wind-down may help.", nil
	}

	// Fall back to the strongest mood correlation.
	graph, err := s.maps.Build(ctx, mindmap.DefaultWindowDays)
	if err != nil {
		return "", err
	}
	var top *mindmap.Edge
	for i := range graph.Edges {
		if top == nil || math.Abs(graph.Edges[i].Weight) > math.Abs(top.Weight) {
			top = &graph.Edges[i]
		}
	}
	if top != nil {
		label := string(top.Target)
		for _, n := range graph.Nodes {
			if n.ID == top.Target {
				label = n.Label
				break
			}
		}
		sign := "positive"
		if top.Weight < 0 {
			sign = "negative"
		}
		return fmt.Sprintf("Top correlation with mood is %s for %q at %.2f (local estimate). Consider small adjustments there.", sign, label, top.Weight), nil
	}
	return "I looked at your recent patterns locally. Try asking about mood, habits, sleep, or cycles.", nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
