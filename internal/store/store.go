package store

import "github.com/starford/wunjo/internal/models"

// Recorder defines the interface for record-store operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Recorder interface {
	AddCheckIn(c models.CheckIn) error
	ListCheckIns() ([]models.CheckIn, error)
	DeleteCheckIn(id string) error

	AddTask(t models.TaskItem) error
	GetTask(id string) (*models.TaskItem, error)
	ListTasks() ([]models.TaskItem, error)
	PutTask(t models.TaskItem) error
	DeleteTask(id string) error

	UpsertSleep(s models.SleepEntry) error
	ListSleep() ([]models.SleepEntry, error)
	AddCycle(c models.CycleEntry) error
	DeleteCycle(date string) error
	ListCycles() ([]models.CycleEntry, error)

	ReplaceAll(data models.DataContext) error

	KVGet(key string) (string, bool, error)
	KVSet(key, value string) error

	Close() error
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)
