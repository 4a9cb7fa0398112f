package assistant

import (
	"context"
	"fmt"

	"github.com/starford/wunjo/internal/models"
)

// Prompt is a reflective journaling prompt.
type Prompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Prompts generates reflective prompts keyed on the count of low moods in
// the last 10 check-ins: heavier stretches get emotion-processing prompts,
// lighter ones get values prompts.
func (s *Service) Prompts(ctx context.Context) ([]Prompt, error) {
	data, err := s.insights.CollectData(ctx)
	if err != nil {
		return nil, err
	}
	recent := data.CheckIns
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	var low int
	for _, c := range recent {
		if c.Mood == models.MoodSad || c.Mood == models.MoodTired {
			low++
		}
	}

	var texts []string
	if low >= 3 {
		texts = append(texts,
			"What emotion is most present right now? Where do you feel it in your body?",
			"What small act of kindness can you offer yourself today?",
		)
	} else {
		texts = append(texts,
			"What value matters most to you this week? How can you honor it tomorrow?",
			"Name one thing you're grateful for and why it mattered today.",
		)
	}
	texts = append(texts,
		"If a wise friend advised you now, what would they suggest?",
		"What is a 2-minute action that moves you toward your values?",
	)

	now := s.now().UnixMilli()
	out := make([]Prompt, len(texts))
	for i, t := range texts {
		out[i] = Prompt{ID: fmt.Sprintf("%d-%d", now, i), Text: t}
	}
	return out, nil
}
