package insight

import "github.com/starford/wunjo/internal/feature"

// Gentle, contextualized messages, fully local. First matching rule wins.
const (
	msgCycle     = "You might feel low today around your cycle. Be kind to yourself."
	msgSleep     = "Low sleep can affect mood. A short rest or walk may help."
	msgSmallStep = "It's okay to have off days. Start small: one tiny task today."
	msgBreathing = "Stress cues detected. Try a 2-minute breathing break."
	msgLowMood   = "You might feel low today. A gentle check-in could help."
	msgContent   = "Content overload can impact mood. Consider a short offline pause."
	msgMindful   = "Consider a mindful moment today."
)

// buildMessage derives the hint message from the risk band and today's
// feature meta. Below risk 0.4 there is no message.
func buildMessage(risk float64, meta map[feature.Key]float64) string {
	if risk >= 0.7 {
		switch {
		case meta[feature.CycleProx] > 0.2:
			return msgCycle
		case meta[feature.SleepYesterday] < 6:
			return msgSleep
		case meta[feature.Compl7] < 0.3:
			return msgSmallStep
		case meta[feature.StressFlag] != 0:
			return msgBreathing
		default:
			return msgLowMood
		}
	}
	if risk >= 0.4 {
		if meta[feature.ContentFlag] != 0 {
			return msgContent
		}
		return msgMindful
	}
	return ""
}
