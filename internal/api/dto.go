package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wunjo/internal/models"
)

var moodValues = []any{"sad", "tired", "neutral", "calm", "happy"}

var repeatValues = []any{"", "none", "daily", "weekly"}

// CreateCheckInRequest is the request body for logging a check-in.
type CreateCheckInRequest struct {
	Mood      string `json:"mood"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"` // epoch ms; zero means now
}

// Validate validates the check-in payload.
func (r CreateCheckInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mood, validation.Required, validation.In(moodValues...)),
		validation.Field(&r.Notes, validation.Length(0, 4000)),
	)
}

// CreateTaskRequest is the request body for adding a task.
type CreateTaskRequest struct {
	Title  string `json:"title"`
	DueAt  *int64 `json:"dueAt,omitempty"` // epoch ms
	Repeat string `json:"repeat,omitempty"`
}

// Validate validates the task payload.
func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Repeat, validation.In(repeatValues...)),
	)
}

// UpdateTaskRequest carries a partial task update; absent fields are left
// unchanged. Setting clearDue removes the due date.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	DueAt     *int64  `json:"dueAt,omitempty"`
	ClearDue  bool    `json:"clearDue,omitempty"`
	Repeat    *string `json:"repeat,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate validates the update payload.
func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Repeat, validation.When(r.Repeat != nil, validation.By(func(any) error {
			if !models.TaskRepeat(*r.Repeat).Valid() {
				return validation.NewError("validation_repeat", "must be none, daily or weekly")
			}
			return nil
		}))),
	)
}

// SleepRequest is the request body for PUT /sleep/{date}.
type SleepRequest struct {
	Hours float64 `json:"hours"`
}

// Validate validates the sleep payload.
func (r SleepRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Hours, validation.Min(0.0), validation.Max(24.0)),
	)
}

// CycleRequest is the request body for POST /cycles.
type CycleRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// Validate validates the cycle payload.
func (r CycleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// CheckInListResponse wraps a check-in listing.
type CheckInListResponse struct {
	CheckIns []models.CheckIn `json:"checkIns"`
	Total    int              `json:"total"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []models.TaskItem `json:"tasks"`
	Total int               `json:"total"`
}

// AnswerResponse wraps an assistant reply.
type AnswerResponse struct {
	Answer string `json:"answer"`
}
