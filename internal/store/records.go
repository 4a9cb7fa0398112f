package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
)

// isConstraintErr reports whether err is a SQLite constraint violation,
// which for our id-keyed tables means a duplicate record.
func isConstraintErr(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint
}

// AddCheckIn inserts a new check-in record.
func (db *DB) AddCheckIn(c models.CheckIn) error {
	_, err := db.conn.Exec(`
		INSERT INTO checkins (id, mood, notes, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, string(c.Mood), c.Notes, c.CreatedAt)
	if isConstraintErr(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: add checkin: %w", err)
	}
	return nil
}

// ListCheckIns returns every check-in ordered by created_at ascending.
func (db *DB) ListCheckIns() ([]models.CheckIn, error) {
	rows, err := db.conn.Query(`SELECT id, mood, notes, created_at FROM checkins ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: list checkins: %w", err)
	}
	defer rows.Close()

	var out []models.CheckIn
	for rows.Next() {
		var c models.CheckIn
		var mood string
		if err := rows.Scan(&c.ID, &mood, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Mood = models.Mood(mood)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCheckIn removes a check-in by id.
func (db *DB) DeleteCheckIn(id string) error {
	res, err := db.conn.Exec(`DELETE FROM checkins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete checkin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddTask inserts a new task record.
func (db *DB) AddTask(t models.TaskItem) error {
	_, err := db.conn.Exec(`
		INSERT INTO tasks (id, title, due_at, repeat, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.DueAt, string(t.Repeat), boolToInt(t.Completed), t.CreatedAt)
	if isConstraintErr(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: add task: %w", err)
	}
	return nil
}

// GetTask returns a task by id, or apperr.ErrNotFound.
func (db *DB) GetTask(id string) (*models.TaskItem, error) {
	row := db.conn.QueryRow(`SELECT id, title, due_at, repeat, completed, created_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task ordered by created_at ascending.
func (db *DB) ListTasks() ([]models.TaskItem, error) {
	rows, err := db.conn.Query(`SELECT id, title, due_at, repeat, completed, created_at FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.TaskItem
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// PutTask replaces an existing task record.
func (db *DB) PutTask(t models.TaskItem) error {
	res, err := db.conn.Exec(`
		UPDATE tasks SET title = ?, due_at = ?, repeat = ?, completed = ? WHERE id = ?
	`, t.Title, t.DueAt, string(t.Repeat), boolToInt(t.Completed), t.ID)
	if err != nil {
		return fmt.Errorf("store: put task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task by id.
func (db *DB) DeleteTask(id string) error {
	res, err := db.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpsertSleep inserts or replaces the sleep entry for a calendar day.
func (db *DB) UpsertSleep(s models.SleepEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO sleep (date, hours) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET hours = excluded.hours
	`, s.Date, s.Hours)
	if err != nil {
		return fmt.Errorf("store: upsert sleep: %w", err)
	}
	return nil
}

// ListSleep returns all sleep entries ordered by date.
func (db *DB) ListSleep() ([]models.SleepEntry, error) {
	rows, err := db.conn.Query(`SELECT date, hours FROM sleep ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("store: list sleep: %w", err)
	}
	defer rows.Close()

	var out []models.SleepEntry
	for rows.Next() {
		var s models.SleepEntry
		if err := rows.Scan(&s.Date, &s.Hours); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AddCycle records a cycle start date. Duplicate dates are ignored.
func (db *DB) AddCycle(c models.CycleEntry) error {
	_, err := db.conn.Exec(`INSERT OR IGNORE INTO cycles (date) VALUES (?)`, c.Date)
	if err != nil {
		return fmt.Errorf("store: add cycle: %w", err)
	}
	return nil
}

// DeleteCycle removes a cycle start date.
func (db *DB) DeleteCycle(date string) error {
	res, err := db.conn.Exec(`DELETE FROM cycles WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("store: delete cycle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListCycles returns all cycle start dates ordered by date.
func (db *DB) ListCycles() ([]models.CycleEntry, error) {
	rows, err := db.conn.Query(`SELECT date FROM cycles ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("store: list cycles: %w", err)
	}
	defer rows.Close()

	var out []models.CycleEntry
	for rows.Next() {
		var c models.CycleEntry
		if err := rows.Scan(&c.Date); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceAll atomically swaps the entire record set for the given one.
// Used by snapshot import; the kv table (model state) is left untouched.
func (db *DB) ReplaceAll(data models.DataContext) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"checkins", "tasks", "sleep", "cycles"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}
	for _, c := range data.CheckIns {
		if _, err := tx.Exec(`INSERT INTO checkins (id, mood, notes, created_at) VALUES (?, ?, ?, ?)`,
			c.ID, string(c.Mood), c.Notes, c.CreatedAt); err != nil {
			return fmt.Errorf("store: import checkin: %w", err)
		}
	}
	for _, t := range data.Tasks {
		if _, err := tx.Exec(`INSERT INTO tasks (id, title, due_at, repeat, completed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.DueAt, string(t.Repeat), boolToInt(t.Completed), t.CreatedAt); err != nil {
			return fmt.Errorf("store: import task: %w", err)
		}
	}
	for _, s := range data.Sleep {
		if _, err := tx.Exec(`INSERT INTO sleep (date, hours) VALUES (?, ?)`, s.Date, s.Hours); err != nil {
			return fmt.Errorf("store: import sleep: %w", err)
		}
	}
	for _, c := range data.Cycles {
		if _, err := tx.Exec(`INSERT INTO cycles (date) VALUES (?)`, c.Date); err != nil {
			return fmt.Errorf("store: import cycle: %w", err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.TaskItem, error) {
	var t models.TaskItem
	var repeat string
	var completed int
	var due sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &due, &repeat, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		v := due.Int64
		t.DueAt = &v
	}
	t.Repeat = models.TaskRepeat(repeat)
	t.Completed = completed != 0
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
