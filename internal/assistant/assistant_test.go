package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/starford/wunjo/internal/insight"
	"github.com/starford/wunjo/internal/mindmap"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/store"
	"github.com/starford/wunjo/internal/testutil"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	ins := insight.NewService(db, nil, nil, 0)
	svc := NewService(ins, mindmap.NewService(ins), db)
	svc.now = func() time.Time { return testNow }
	return svc, db
}

func seedCheckIn(t *testing.T, db *store.DB, mood models.Mood, notes string, at time.Time) {
	t.Helper()
	err := db.AddCheckIn(models.CheckIn{
		ID: uuid.NewString(), Mood: mood, Notes: notes, CreatedAt: at.UnixMilli(),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAnswer_MoodIntent(t *testing.T) {
	svc, db := newTestService(t)
	seedCheckIn(t, db, models.MoodHappy, "", testNow.AddDate(0, 0, -1))
	seedCheckIn(t, db, models.MoodSad, "", testNow.AddDate(0, 0, -2))

	got, err := svc.Answer(context.Background(), "How is my mood lately?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "1 higher moods and 1 lower moods") {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswer_TaskIntent(t *testing.T) {
	svc, db := newTestService(t)
	for i, done := range []bool{true, false, false, false} {
		err := db.AddTask(models.TaskItem{
			ID: uuid.NewString(), Title: "t", Completed: done,
			CreatedAt: testNow.AddDate(0, 0, -i).UnixMilli(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Answer(context.Background(), "am I being productive?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "25%") {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswer_SleepAndCycleIntents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Answer(ctx, "why is my sleep so bad")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.ToLower(got), "sleep") {
		t.Errorf("answer = %q", got)
	}

	got, err = svc.Answer(ctx, "does PMS affect me?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Cycle effects") {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswer_FallbackUsesCorrelations(t *testing.T) {
	svc, db := newTestService(t)

	// Mood tracks yesterday's sleep exactly so the fallback surfaces it.
	for d := 1; d <= 10; d++ {
		day := testNow.AddDate(0, 0, -d)
		mood := models.MoodSad
		hours := 4.0
		if d%2 == 0 {
			mood = models.MoodHappy
			hours = 8.0
		}
		seedCheckIn(t, db, mood, "", day)
		err := db.UpsertSleep(models.SleepEntry{
			Date:  day.AddDate(0, 0, -1).Format("2006-01-02"),
			Hours: hours,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Answer(context.Background(), "what should I pay attention to?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "correlation") {
		t.Errorf("answer = %q", got)
	}
}

func TestNudges_RuleSelection(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	// Empty data: sleepYesterday=0 (<6) and compl7=0 (<0.4) both fire.
	nudges, err := svc.Nudges(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(nudges) < 2 {
		t.Fatalf("nudges = %+v", nudges)
	}

	// Stress cues in today's notes add a breathing nudge.
	seedCheckIn(t, db, models.MoodNeutral, "deadline panic", testNow)
	nudges, err = svc.Nudges(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, n := range nudges {
		if strings.Contains(n.Title, "breathing") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a breathing nudge in %+v", nudges)
	}
}

func TestNudges_DefaultWhenAllCalm(t *testing.T) {
	svc, db := newTestService(t)

	// Good sleep and full task completion leave only the default nudge.
	for d := 1; d <= 7; d++ {
		day := testNow.AddDate(0, 0, -d)
		err := db.UpsertSleep(models.SleepEntry{Date: day.Format("2006-01-02"), Hours: 8})
		if err != nil {
			t.Fatal(err)
		}
		due := day.UnixMilli()
		err = db.AddTask(models.TaskItem{
			ID: uuid.NewString(), Title: "t", DueAt: &due, Completed: true,
			CreatedAt: due,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	nudges, err := svc.Nudges(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(nudges) != 1 || !strings.Contains(nudges[0].Title, "Mindful") {
		t.Errorf("nudges = %+v", nudges)
	}
}

func TestNudges_PersistsLatestBatch(t *testing.T) {
	svc, db := newTestService(t)
	seedCheckIn(t, db, models.MoodTired, "deadline pressure", testNow)

	nudges, err := svc.Nudges(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(nudges) == 0 {
		t.Fatal("expected at least one nudge")
	}

	if _, ok, _ := db.KVGet(NudgesKey); !ok {
		t.Fatalf("no value stored under %q", NudgesKey)
	}
	got := svc.LatestNudges(context.Background())
	if len(got) != len(nudges) {
		t.Fatalf("latest = %d nudges, want %d", len(got), len(nudges))
	}
	for i := range got {
		if got[i] != nudges[i] {
			t.Errorf("latest[%d] = %+v, want %+v", i, got[i], nudges[i])
		}
	}
}

func TestLatestNudges_AbsentOrCorrupt(t *testing.T) {
	svc, db := newTestService(t)

	if got := svc.LatestNudges(context.Background()); got != nil {
		t.Errorf("latest = %+v, want nil before any computation", got)
	}
	if err := db.KVSet(NudgesKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	if got := svc.LatestNudges(context.Background()); got != nil {
		t.Errorf("latest = %+v, want nil for a corrupt value", got)
	}
}

func TestPrompts_LowMoodStretch(t *testing.T) {
	svc, db := newTestService(t)
	for d := 1; d <= 4; d++ {
		seedCheckIn(t, db, models.MoodSad, "", testNow.AddDate(0, 0, -d))
	}

	prompts, err := svc.Prompts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts) != 4 {
		t.Fatalf("prompts = %d, want 4", len(prompts))
	}
	if !strings.Contains(prompts[0].Text, "emotion") {
		t.Errorf("first prompt = %q", prompts[0].Text)
	}
}

func TestPrompts_LightStretch(t *testing.T) {
	svc, db := newTestService(t)
	seedCheckIn(t, db, models.MoodHappy, "", testNow.AddDate(0, 0, -1))

	prompts, err := svc.Prompts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompts[0].Text, "value") {
		t.Errorf("first prompt = %q", prompts[0].Text)
	}
}
