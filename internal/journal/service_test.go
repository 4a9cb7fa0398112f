package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/store"
	"github.com/starford/wunjo/internal/testutil"
)

type captureBroker struct {
	kinds []string
}

func (b *captureBroker) PublishRecordEvent(kind, id string) {
	b.kinds = append(b.kinds, kind)
}

func newTestService(t *testing.T) (*Service, *store.DB, *captureBroker) {
	t.Helper()
	db := testutil.TestDB(t)
	broker := &captureBroker{}
	svc := NewService(db, broker)
	return svc, db, broker
}

func TestAddCheckIn(t *testing.T) {
	svc, _, broker := newTestService(t)
	ctx := context.Background()

	rec, err := svc.AddCheckIn(ctx, CheckInInput{Mood: models.MoodCalm, Notes: "good walk"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Error("check-in should get an id")
	}
	if rec.CreatedAt == 0 {
		t.Error("check-in should get a timestamp")
	}
	if len(broker.kinds) != 1 || broker.kinds[0] != "checkin.created" {
		t.Errorf("events = %v", broker.kinds)
	}
}

func TestAddCheckIn_InvalidMood(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddCheckIn(context.Background(), CheckInInput{Mood: "ecstatic"})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestListCheckIns_NewestFirstWithLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	for i, mood := range []models.Mood{models.MoodSad, models.MoodNeutral, models.MoodHappy} {
		_, err := svc.AddCheckIn(ctx, CheckInInput{
			Mood:      mood,
			CreatedAt: base.Add(time.Duration(i) * time.Hour).UnixMilli(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.ListCheckIns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Mood != models.MoodHappy || items[1].Mood != models.MoodNeutral {
		t.Errorf("order = %s, %s", items[0].Mood, items[1].Mood)
	}
}

func TestDeleteCheckIn_Missing(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.DeleteCheckIn(context.Background(), "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddTask_Defaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	rec, err := svc.AddTask(context.Background(), TaskInput{Title: "water plants"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Repeat != models.RepeatNone {
		t.Errorf("repeat = %q, want none", rec.Repeat)
	}
	if rec.Completed {
		t.Error("new task should be pending")
	}
}

func TestAddTask_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddTask(ctx, TaskInput{Title: ""}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty title: err = %v", err)
	}
	if _, err := svc.AddTask(ctx, TaskInput{Title: "x", Repeat: "hourly"}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad repeat: err = %v", err)
	}
}

func TestToggleTask_NonRepeating(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.AddTask(ctx, TaskInput{Title: "one-off"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.ToggleTask(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Error("first toggle should complete")
	}
	got, err = svc.ToggleTask(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Error("second toggle should un-complete")
	}
}

func TestToggleTask_DailyRollover(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC).UnixMilli()
	rec, err := svc.AddTask(ctx, TaskInput{Title: "journal", DueAt: &due, Repeat: models.RepeatDaily})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.ToggleTask(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Error("repeating task must reset to pending")
	}
	if got.DueAt == nil {
		t.Fatal("due date lost")
	}
	// Exactly 24 hours in milliseconds, regardless of calendar.
	if want := due + 24*60*60*1000; *got.DueAt != want {
		t.Errorf("dueAt = %d, want %d", *got.DueAt, want)
	}
}

func TestToggleTask_WeeklyRollover(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC).UnixMilli()
	rec, err := svc.AddTask(ctx, TaskInput{Title: "review", DueAt: &due, Repeat: models.RepeatWeekly})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.ToggleTask(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := due + 7*24*60*60*1000; *got.DueAt != want {
		t.Errorf("dueAt = %d, want %d", *got.DueAt, want)
	}
}

func TestToggleTask_RepeatingWithoutDueDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.AddTask(ctx, TaskInput{Title: "stretch", Repeat: models.RepeatDaily})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.ToggleTask(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Nothing to roll forward; behaves like a plain completion.
	if !got.Completed {
		t.Error("expected completed")
	}
}

func TestToggleTask_Missing(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.ToggleTask(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateTask(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	due := time.Now().UnixMilli()
	rec, err := svc.AddTask(ctx, TaskInput{Title: "draft", DueAt: &due})
	if err != nil {
		t.Fatal(err)
	}

	title := "final draft"
	completed := true
	got, err := svc.UpdateTask(ctx, rec.ID, TaskPatch{Title: &title, Completed: &completed, ClearDue: true})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != title || !got.Completed || got.DueAt != nil {
		t.Errorf("patched task = %+v", got)
	}

	empty := ""
	if _, err := svc.UpdateTask(ctx, rec.ID, TaskPatch{Title: &empty}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("empty title: err = %v", err)
	}
}

func TestUpsertSleep_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.UpsertSleep(ctx, models.SleepEntry{Date: "2025-07-01", Hours: 7.5}); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpsertSleep(ctx, models.SleepEntry{Date: "2025-07-01", Hours: 25}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("hours 25: err = %v", err)
	}
	if err := svc.UpsertSleep(ctx, models.SleepEntry{Date: "July 1st", Hours: 7}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad date: err = %v", err)
	}
}

func TestAddCycle_Validation(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddCycle(ctx, models.CycleEntry{Date: "not-a-date"}); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if err := svc.AddCycle(ctx, models.CycleEntry{Date: "2025-07-01"}); err != nil {
		t.Fatal(err)
	}
	cycles, err := db.ListCycles()
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 1 {
		t.Errorf("cycles = %d, want 1", len(cycles))
	}
}

func TestMoodStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	now := time.Now()
	for _, c := range []struct {
		mood models.Mood
		at   time.Time
	}{
		{models.MoodSad, now.Add(-1 * time.Hour)},
		{models.MoodSad, now.Add(-2 * time.Hour)},
		{models.MoodHappy, now.Add(-3 * time.Hour)},
		{models.MoodCalm, now.AddDate(0, 0, -40)}, // outside the window
	} {
		if _, err := svc.AddCheckIn(ctx, CheckInInput{Mood: c.mood, CreatedAt: c.at.UnixMilli()}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.MoodStats(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if stats[models.MoodSad] != 2 || stats[models.MoodHappy] != 1 || stats[models.MoodCalm] != 0 {
		t.Errorf("stats = %v", stats)
	}
}

func TestRecentNotes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	notes := []string{"", "first", "second", "", "third"}
	for i, n := range notes {
		_, err := svc.AddCheckIn(ctx, CheckInInput{
			Mood:      models.MoodNeutral,
			Notes:     n,
			CreatedAt: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.RecentNotes(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "third" || got[1] != "second" {
		t.Errorf("notes = %v", got)
	}
}
