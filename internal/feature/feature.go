// Package feature builds the fixed-order daily feature vector that feeds
// the mood-risk model.
package feature

import (
	"strings"
	"time"

	"github.com/starford/wunjo/internal/models"
)

// Key names one feature of the daily vector.
type Key string

// Feature keys. Their positional order is fixed by the Keys slice below.
const (
	MoodToday      Key = "moodToday"
	MoodAvg7       Key = "moodAvg7"
	Compl7         Key = "compl7"
	SleepYesterday Key = "sleepYesterday"
	SleepAvg7      Key = "sleepAvg7"
	CycleProx      Key = "cycleProx"
	StressFlag     Key = "stressFlag"
	ContentFlag    Key = "contentFlag"
)

// Keys is the canonical feature order. The model's weight vector is aligned
// with this order positionally; it must never change length or order once a
// model has been persisted, or all historical weights become meaningless.
var Keys = []Key{
	MoodToday,
	MoodAvg7,
	Compl7,
	SleepYesterday,
	SleepAvg7,
	CycleProx,
	StressFlag,
	ContentFlag,
}

// Dim is the feature vector length.
var Dim = len(Keys)

// Keyword cue sets matched case-insensitively as substrings of the day's
// check-in notes.
var (
	stressCues  = []string{"stress", "overwhelm", "anx", "panic", "pressure", "deadline"}
	contentCues = []string{"doomscroll", "social", "news", "reel", "video"}
)

// Snapshot is one day's feature vector plus its labeled metadata.
// X and Meta carry the same values; X is model input, Meta is for display.
type Snapshot struct {
	Day  string // YYYY-MM-DD of the target day
	X    []float64
	Meta map[Key]float64
}

// DayKey returns the calendar-day key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BuildDaily computes the feature snapshot for the calendar day containing
// day. Pure function of its inputs: no side effects, deterministic,
// restartable for any timestamp. Record timestamps are bucketed into
// calendar days using day's location.
func BuildDaily(data *models.DataContext, day time.Time) Snapshot {
	loc := day.Location()
	key := DayKey(day)

	// The 7 calendar days strictly before the target day.
	prev7 := make([]string, 7)
	for i := range prev7 {
		prev7[i] = DayKey(day.AddDate(0, 0, -(i + 1)))
	}

	recordDay := func(ms int64) string {
		return DayKey(time.UnixMilli(ms).In(loc))
	}

	// Mood stats.
	var todayScores, prevScores []float64
	var todayNotes []string
	prevSet := make(map[string]bool, len(prev7))
	for _, k := range prev7 {
		prevSet[k] = true
	}
	for _, c := range data.CheckIns {
		k := recordDay(c.CreatedAt)
		switch {
		case k == key:
			todayScores = append(todayScores, models.MoodScore[c.Mood])
			todayNotes = append(todayNotes, c.Notes)
		case prevSet[k]:
			prevScores = append(prevScores, models.MoodScore[c.Mood])
		}
	}
	moodToday := mean(todayScores)
	moodAvg7 := mean(prevScores)

	// Task completion ratio per due day, averaged over the window.
	// A day with zero tasks due contributes 0, not "missing".
	type cell struct{ done, total int }
	tasksByDay := make(map[string]cell)
	for _, t := range data.Tasks {
		if t.DueAt == nil {
			continue
		}
		k := recordDay(*t.DueAt)
		c := tasksByDay[k]
		c.total++
		if t.Completed {
			c.done++
		}
		tasksByDay[k] = c
	}
	ratios := make([]float64, 0, len(prev7))
	for _, k := range prev7 {
		c := tasksByDay[k]
		if c.total == 0 {
			ratios = append(ratios, 0)
		} else {
			ratios = append(ratios, float64(c.done)/float64(c.total))
		}
	}
	compl7 := mean(ratios)

	// Sleep: hours yesterday and 7-day average, missing days count as 0.
	var sleepYesterday, sleepAvg7 float64
	if len(data.Sleep) > 0 {
		byDate := make(map[string]float64, len(data.Sleep))
		for _, s := range data.Sleep {
			byDate[s.Date] = s.Hours
		}
		sleepYesterday = byDate[DayKey(day.AddDate(0, 0, -1))]
		hours := make([]float64, 0, len(prev7))
		for _, k := range prev7 {
			hours = append(hours, byDate[k])
		}
		sleepAvg7 = mean(hours)
	}

	cycleProx := cycleProximity(data.Cycles, day)

	// Text cues from today's notes.
	notes := strings.ToLower(strings.Join(todayNotes, " "))
	stressFlag := matchAny(notes, stressCues)
	contentFlag := matchAny(notes, contentCues)

	meta := map[Key]float64{
		MoodToday:      moodToday,
		MoodAvg7:       moodAvg7,
		Compl7:         compl7,
		SleepYesterday: sleepYesterday,
		SleepAvg7:      sleepAvg7,
		CycleProx:      cycleProx,
		StressFlag:     stressFlag,
		ContentFlag:    contentFlag,
	}

	// Assemble X from Meta in canonical order so the two can never drift.
	x := make([]float64, Dim)
	for i, k := range Keys {
		x[i] = meta[k]
	}
	return Snapshot{Day: key, X: x, Meta: meta}
}

// cycleProximity is the pre-menstrual-window heuristic: locate the most
// recent cycle start on or before the target day, assume a fixed 28-day
// cycle, and weight the last 5 days before the projected next start into
// (0,1]. 0 when no cycle data applies.
func cycleProximity(cycles []models.CycleEntry, day time.Time) float64 {
	if len(cycles) == 0 {
		return 0
	}
	dayKey := DayKey(day)
	var last string
	for _, c := range cycles {
		if c.Date <= dayKey && c.Date > last {
			last = c.Date
		}
	}
	if last == "" {
		return 0
	}
	start, err := time.ParseInLocation("2006-01-02", last, day.Location())
	if err != nil {
		return 0
	}
	daysSince := int(day.Sub(start).Hours() / 24)
	daysToNext := 28 - daysSince%28
	if daysToNext > 5 {
		return 0
	}
	return float64(6-daysToNext) / 5
}

func matchAny(text string, cues []string) float64 {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return 1
		}
	}
	return 0
}

func mean(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}
