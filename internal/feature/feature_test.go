package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wunjo/internal/models"
)

// day is a fixed noon reference so calendar bucketing is unambiguous.
var day = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func checkIn(mood models.Mood, notes string, at time.Time) models.CheckIn {
	return models.CheckIn{ID: "c", Mood: mood, Notes: notes, CreatedAt: at.UnixMilli()}
}

func TestBuildDaily_EmptyData(t *testing.T) {
	snap := BuildDaily(&models.DataContext{}, day)

	assert.Equal(t, "2025-06-10", snap.Day)
	require.Len(t, snap.X, Dim)
	for i, k := range Keys {
		assert.Zero(t, snap.X[i], "feature %s", k)
	}
}

func TestBuildDaily_MoodAveraging(t *testing.T) {
	data := &models.DataContext{CheckIns: []models.CheckIn{
		checkIn(models.MoodSad, "", day),
		checkIn(models.MoodHappy, "", day.Add(2*time.Hour)),
	}}
	snap := BuildDaily(data, day)

	// sad=1, happy=5; same calendar day averages to 3.
	assert.InDelta(t, 3.0, snap.Meta[MoodToday], 1e-9)
	assert.Zero(t, snap.Meta[MoodAvg7])
}

func TestBuildDaily_MoodWindowExcludesTodayAndDay8(t *testing.T) {
	data := &models.DataContext{CheckIns: []models.CheckIn{
		checkIn(models.MoodHappy, "", day),                   // today, not in avg7
		checkIn(models.MoodSad, "", day.AddDate(0, 0, -1)),   // in window
		checkIn(models.MoodCalm, "", day.AddDate(0, 0, -7)),  // in window
		checkIn(models.MoodHappy, "", day.AddDate(0, 0, -8)), // outside
	}}
	snap := BuildDaily(data, day)

	// (1 + 4) / 2
	assert.InDelta(t, 2.5, snap.Meta[MoodAvg7], 1e-9)
	assert.InDelta(t, 5.0, snap.Meta[MoodToday], 1e-9)
}

func TestBuildDaily_TaskCompletionEmptyDaysCountZero(t *testing.T) {
	due := day.AddDate(0, 0, -2).UnixMilli()
	dueDone := day.AddDate(0, 0, -2).Add(time.Hour).UnixMilli()
	data := &models.DataContext{Tasks: []models.TaskItem{
		{ID: "t1", Title: "a", DueAt: &due, Completed: false},
		{ID: "t2", Title: "b", DueAt: &dueDone, Completed: true},
	}}
	snap := BuildDaily(data, day)

	// One day at ratio 0.5, six task-free days at 0.
	assert.InDelta(t, 0.5/7, snap.Meta[Compl7], 1e-9)
}

func TestBuildDaily_TaskCompletionNoTasks(t *testing.T) {
	snap := BuildDaily(&models.DataContext{}, day)
	assert.Zero(t, snap.Meta[Compl7])
}

func TestBuildDaily_TasksWithoutDueDateIgnored(t *testing.T) {
	data := &models.DataContext{Tasks: []models.TaskItem{
		{ID: "t1", Title: "floating", Completed: true},
	}}
	snap := BuildDaily(data, day)
	assert.Zero(t, snap.Meta[Compl7])
}

func TestBuildDaily_Sleep(t *testing.T) {
	data := &models.DataContext{Sleep: []models.SleepEntry{
		{Date: "2025-06-09", Hours: 7.5}, // yesterday
		{Date: "2025-06-05", Hours: 6},
		{Date: "2025-06-10", Hours: 9}, // today, outside the window
	}}
	snap := BuildDaily(data, day)

	assert.InDelta(t, 7.5, snap.Meta[SleepYesterday], 1e-9)
	// (7.5 + 6) over 7 window days, missing days count as 0.
	assert.InDelta(t, 13.5/7, snap.Meta[SleepAvg7], 1e-9)
}

func TestBuildDaily_CycleProximity(t *testing.T) {
	tests := []struct {
		name   string
		cycles []models.CycleEntry
		want   float64
	}{
		{"no data", nil, 0},
		// 25 days since start: 3 days to projected next, (6-3)/5.
		{"inside window", []models.CycleEntry{{Date: "2025-05-16"}}, 0.6},
		// Exactly 5 days out is the window edge, (6-5)/5.
		{"window edge", []models.CycleEntry{{Date: "2025-05-18"}}, 0.2},
		{"started today", []models.CycleEntry{{Date: "2025-06-10"}}, 0},
		{"mid cycle", []models.CycleEntry{{Date: "2025-06-01"}}, 0},
		{"future start only", []models.CycleEntry{{Date: "2025-07-01"}}, 0},
		// Most recent applicable start wins.
		{"multiple starts", []models.CycleEntry{{Date: "2025-04-18"}, {Date: "2025-05-16"}}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := BuildDaily(&models.DataContext{Cycles: tt.cycles}, day)
			assert.InDelta(t, tt.want, snap.Meta[CycleProx], 1e-9)
		})
	}
}

func TestBuildDaily_NoteCues(t *testing.T) {
	tests := []struct {
		notes       string
		wantStress  float64
		wantContent float64
	}{
		{"big DEADLINE pressure at work", 1, 0},
		{"caught myself doomscrolling again", 0, 1},
		{"anxious and too much social media", 1, 1},
		{"a calm walk in the park", 0, 0},
		{"", 0, 0},
	}
	for _, tt := range tests {
		data := &models.DataContext{CheckIns: []models.CheckIn{
			checkIn(models.MoodNeutral, tt.notes, day),
		}}
		snap := BuildDaily(data, day)
		assert.Equal(t, tt.wantStress, snap.Meta[StressFlag], "stress for %q", tt.notes)
		assert.Equal(t, tt.wantContent, snap.Meta[ContentFlag], "content for %q", tt.notes)
	}
}

func TestBuildDaily_CuesOnlyFromToday(t *testing.T) {
	data := &models.DataContext{CheckIns: []models.CheckIn{
		checkIn(models.MoodNeutral, "so much stress", day.AddDate(0, 0, -1)),
	}}
	snap := BuildDaily(data, day)
	assert.Zero(t, snap.Meta[StressFlag])
}

func TestBuildDaily_VectorMatchesMetaOrder(t *testing.T) {
	due := day.AddDate(0, 0, -1).UnixMilli()
	data := &models.DataContext{
		CheckIns: []models.CheckIn{checkIn(models.MoodTired, "deadline video", day)},
		Tasks:    []models.TaskItem{{ID: "t", Title: "x", DueAt: &due, Completed: true}},
		Sleep:    []models.SleepEntry{{Date: "2025-06-09", Hours: 5}},
		Cycles:   []models.CycleEntry{{Date: "2025-05-16"}},
	}
	snap := BuildDaily(data, day)

	require.Len(t, snap.X, Dim)
	require.Len(t, snap.Meta, Dim)
	for i, k := range Keys {
		assert.Equal(t, snap.Meta[k], snap.X[i], "position %d (%s)", i, k)
	}
}

func TestBuildDaily_Deterministic(t *testing.T) {
	due := day.AddDate(0, 0, -3).UnixMilli()
	data := &models.DataContext{
		CheckIns: []models.CheckIn{checkIn(models.MoodCalm, "news binge", day)},
		Tasks:    []models.TaskItem{{ID: "t", Title: "x", DueAt: &due}},
		Sleep:    []models.SleepEntry{{Date: "2025-06-07", Hours: 8}},
	}
	a := BuildDaily(data, day)
	b := BuildDaily(data, day)
	assert.Equal(t, a, b)
}

func TestDayKey_UsesLocation(t *testing.T) {
	loc := time.FixedZone("plus9", 9*3600)
	// 23:30 UTC on the 10th is already the 11th at +09:00.
	at := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", DayKey(at))
	assert.Equal(t, "2025-06-11", DayKey(at.In(loc)))
}
