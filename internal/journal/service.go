// Package journal implements the journaling operations around the record
// store: check-ins, planner tasks, sleep and cycle logs.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/store"
)

// RecordPublisher announces record changes to decoupled observers.
type RecordPublisher interface {
	PublishRecordEvent(kind, id string)
}

// Service coordinates record-store writes and change events.
type Service struct {
	rec    store.Recorder
	broker RecordPublisher
	now    func() time.Time
}

// NewService creates a journal service. broker may be nil.
func NewService(rec store.Recorder, broker RecordPublisher) *Service {
	return &Service{rec: rec, broker: broker, now: time.Now}
}

func (s *Service) publish(kind, id string) {
	if s.broker != nil {
		s.broker.PublishRecordEvent(kind, id)
	}
}

// CheckInInput is the payload for creating a check-in.
type CheckInInput struct {
	Mood      models.Mood
	Notes     string
	CreatedAt int64 // epoch ms; zero means now
}

// AddCheckIn validates and stores a new check-in.
func (s *Service) AddCheckIn(_ context.Context, in CheckInInput) (*models.CheckIn, error) {
	if !in.Mood.Valid() {
		return nil, apperr.ErrInvalid
	}
	createdAt := in.CreatedAt
	if createdAt == 0 {
		createdAt = s.now().UnixMilli()
	}
	rec := models.CheckIn{
		ID:        uuid.NewString(),
		Mood:      in.Mood,
		Notes:     in.Notes,
		CreatedAt: createdAt,
	}
	if err := s.rec.AddCheckIn(rec); err != nil {
		return nil, err
	}
	s.publish("checkin.created", rec.ID)
	return &rec, nil
}

// ListCheckIns returns check-ins newest first, optionally limited.
func (s *Service) ListCheckIns(_ context.Context, limit int) ([]models.CheckIn, error) {
	all, err := s.rec.ListCheckIns()
	if err != nil {
		return nil, err
	}
	// Store order is createdAt ascending; reverse for display.
	out := make([]models.CheckIn, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteCheckIn removes a check-in by id.
func (s *Service) DeleteCheckIn(_ context.Context, id string) error {
	if err := s.rec.DeleteCheckIn(id); err != nil {
		return err
	}
	s.publish("checkin.deleted", id)
	return nil
}

// MoodStats counts check-ins per mood over the trailing days.
func (s *Service) MoodStats(_ context.Context, days int) (map[models.Mood]int, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().UnixMilli() - int64(days)*24*60*60*1000
	all, err := s.rec.ListCheckIns()
	if err != nil {
		return nil, err
	}
	stats := make(map[models.Mood]int, len(models.AllMoods))
	for _, m := range models.AllMoods {
		stats[m] = 0
	}
	for _, c := range all {
		if c.CreatedAt > since {
			stats[c.Mood]++
		}
	}
	return stats, nil
}

// RecentNotes returns up to n most recent non-empty check-in notes.
func (s *Service) RecentNotes(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		n = 5
	}
	items, err := s.ListCheckIns(ctx, 50)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, c := range items {
		if c.Notes == "" {
			continue
		}
		out = append(out, c.Notes)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title  string
	DueAt  *int64 // epoch ms
	Repeat models.TaskRepeat
}

// AddTask validates and stores a new task.
func (s *Service) AddTask(_ context.Context, in TaskInput) (*models.TaskItem, error) {
	if in.Title == "" {
		return nil, apperr.ErrInvalid
	}
	repeat := in.Repeat
	if repeat == "" {
		repeat = models.RepeatNone
	}
	if !repeat.Valid() {
		return nil, apperr.ErrInvalid
	}
	rec := models.TaskItem{
		ID:        uuid.NewString(),
		Title:     in.Title,
		DueAt:     in.DueAt,
		Repeat:    repeat,
		Completed: false,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.rec.AddTask(rec); err != nil {
		return nil, err
	}
	s.publish("task.created", rec.ID)
	return &rec, nil
}

// ListTasks returns all tasks, oldest first.
func (s *Service) ListTasks(_ context.Context) ([]models.TaskItem, error) {
	return s.rec.ListTasks()
}

// ToggleTask flips a task's completed state. Completing a repeating task
// does not leave it completed: the due date rolls forward (+1 day for
// daily, +7 for weekly) and completed resets to false, so repeating tasks
// are perpetually pending-with-history. The 7-day completion-ratio feature
// depends on this behavior.
func (s *Service) ToggleTask(_ context.Context, id string) (*models.TaskItem, error) {
	t, err := s.rec.GetTask(id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	if t.Completed && t.Repeat != models.RepeatNone && t.DueAt != nil {
		days := int64(1)
		if t.Repeat == models.RepeatWeekly {
			days = 7
		}
		next := *t.DueAt + days*24*60*60*1000
		t.DueAt = &next
		t.Completed = false
	}
	if err := s.rec.PutTask(*t); err != nil {
		return nil, err
	}
	s.publish("task.updated", t.ID)
	return t, nil
}

// TaskPatch carries optional task field updates; nil fields are unchanged.
type TaskPatch struct {
	Title     *string
	DueAt     *int64
	ClearDue  bool
	Repeat    *models.TaskRepeat
	Completed *bool
}

// UpdateTask applies a partial update to a task.
func (s *Service) UpdateTask(_ context.Context, id string, patch TaskPatch) (*models.TaskItem, error) {
	t, err := s.rec.GetTask(id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, apperr.ErrInvalid
		}
		t.Title = *patch.Title
	}
	if patch.ClearDue {
		t.DueAt = nil
	} else if patch.DueAt != nil {
		t.DueAt = patch.DueAt
	}
	if patch.Repeat != nil {
		if !patch.Repeat.Valid() {
			return nil, apperr.ErrInvalid
		}
		t.Repeat = *patch.Repeat
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if err := s.rec.PutTask(*t); err != nil {
		return nil, err
	}
	s.publish("task.updated", t.ID)
	return t, nil
}

// DeleteTask removes a task by id.
func (s *Service) DeleteTask(_ context.Context, id string) error {
	if err := s.rec.DeleteTask(id); err != nil {
		return err
	}
	s.publish("task.deleted", id)
	return nil
}

// UpsertSleep records hours slept for a calendar day.
func (s *Service) UpsertSleep(_ context.Context, entry models.SleepEntry) error {
	if entry.Hours < 0 || entry.Hours > 24 || !validDate(entry.Date) {
		return apperr.ErrInvalid
	}
	return s.rec.UpsertSleep(entry)
}

// AddCycle records a cycle start date.
func (s *Service) AddCycle(_ context.Context, entry models.CycleEntry) error {
	if !validDate(entry.Date) {
		return apperr.ErrInvalid
	}
	return s.rec.AddCycle(entry)
}

// DeleteCycle removes a cycle start date.
func (s *Service) DeleteCycle(_ context.Context, date string) error {
	return s.rec.DeleteCycle(date)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
