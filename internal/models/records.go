// Package models defines the domain types for Wunjo.
package models

// Mood is the five-step check-in scale.
type Mood string

// Moods, from lowest to highest.
const (
	MoodSad     Mood = "sad"
	MoodTired   Mood = "tired"
	MoodNeutral Mood = "neutral"
	MoodCalm    Mood = "calm"
	MoodHappy   Mood = "happy"
)

// MoodScore maps each mood to its ordinal value (sad=1 .. happy=5).
var MoodScore = map[Mood]float64{
	MoodSad:     1,
	MoodTired:   2,
	MoodNeutral: 3,
	MoodCalm:    4,
	MoodHappy:   5,
}

// AllMoods lists every valid mood value, lowest first.
var AllMoods = []Mood{MoodSad, MoodTired, MoodNeutral, MoodCalm, MoodHappy}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := MoodScore[m]
	return ok
}

// CheckIn is a single timestamped mood entry. Immutable once stored;
// removed only via bulk clear/import.
type CheckIn struct {
	ID        string `json:"id"`
	Mood      Mood   `json:"mood"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"` // epoch ms
}

// TaskRepeat controls due-date rollover on completion.
type TaskRepeat string

// Repeat modes.
const (
	RepeatNone   TaskRepeat = "none"
	RepeatDaily  TaskRepeat = "daily"
	RepeatWeekly TaskRepeat = "weekly"
)

// Valid reports whether r is a known repeat mode.
func (r TaskRepeat) Valid() bool {
	return r == RepeatNone || r == RepeatDaily || r == RepeatWeekly
}

// TaskItem is a planner task. Completing a repeating task rolls its due
// date forward and resets Completed, so repeating tasks stay perpetually
// pending-with-history.
type TaskItem struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueAt     *int64     `json:"dueAt,omitempty"` // epoch ms
	Repeat    TaskRepeat `json:"repeat"`
	Completed bool       `json:"completed"`
	CreatedAt int64      `json:"createdAt"` // epoch ms
}

// SleepEntry records hours slept for one calendar day.
type SleepEntry struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Hours float64 `json:"hours"`
}

// CycleEntry marks a cycle/period start date.
type CycleEntry struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// DataContext is the read-only aggregate the feature builder consumes.
// It is assembled fresh on every invocation and never cached, so it always
// reflects the store state at call time.
type DataContext struct {
	CheckIns []CheckIn
	Tasks    []TaskItem
	Sleep    []SleepEntry
	Cycles   []CycleEntry
}
