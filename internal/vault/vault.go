// Package vault implements whole-dataset snapshot export and import, the
// bulk data path behind backup, device migration, and the import watcher.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/wunjo/internal/checksum"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/store"
)

// SnapshotVersion is bumped on incompatible snapshot format changes.
const SnapshotVersion = 1

// Snapshot is the serialized form of the full record set.
type Snapshot struct {
	Version    int          `json:"version"`
	ExportedAt int64        `json:"exportedAt"` // epoch ms
	Checksum   string       `json:"checksum"`   // sha256 over the data payload
	Data       SnapshotData `json:"data"`
}

// SnapshotData holds the four record collections.
type SnapshotData struct {
	CheckIns []models.CheckIn    `json:"checkIns"`
	Tasks    []models.TaskItem   `json:"tasks"`
	Sleep    []models.SleepEntry `json:"sleep,omitempty"`
	Cycles   []models.CycleEntry `json:"cycles,omitempty"`
}

// Service exports and imports snapshots through a Cipher collaborator.
type Service struct {
	rec    store.Recorder
	cipher Cipher
	now    func() time.Time
}

// NewService creates a vault service. A nil cipher means plaintext.
func NewService(rec store.Recorder, cipher Cipher) *Service {
	if cipher == nil {
		cipher = Plain{}
	}
	return &Service{rec: rec, cipher: cipher, now: time.Now}
}

// Export serializes the full record set into a sealed snapshot blob.
// Model parameters are deliberately excluded: they are derived state and
// retrain from history after import.
func (s *Service) Export(_ context.Context) ([]byte, error) {
	checkIns, err := s.rec.ListCheckIns()
	if err != nil {
		return nil, fmt.Errorf("vault: export checkins: %w", err)
	}
	tasks, err := s.rec.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("vault: export tasks: %w", err)
	}
	sleep, err := s.rec.ListSleep()
	if err != nil {
		return nil, fmt.Errorf("vault: export sleep: %w", err)
	}
	cycles, err := s.rec.ListCycles()
	if err != nil {
		return nil, fmt.Errorf("vault: export cycles: %w", err)
	}

	data := SnapshotData{CheckIns: checkIns, Tasks: tasks, Sleep: sleep, Cycles: cycles}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("vault: marshal data: %w", err)
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.now().UnixMilli(),
		Checksum:   checksum.Sum(payload),
		Data:       data,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("vault: marshal snapshot: %w", err)
	}
	return s.cipher.Seal(raw)
}

// Import opens a snapshot blob and atomically replaces all records.
// Existing data is dropped, matching the original import semantics; the
// persisted model is kept and retrains on the next refresh.
func (s *Service) Import(_ context.Context, blob []byte) error {
	raw, err := s.cipher.Open(blob)
	if err != nil {
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("vault: parse snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return fmt.Errorf("vault: unsupported snapshot version %d", snap.Version)
	}
	if snap.Checksum != "" {
		payload, err := json.Marshal(snap.Data)
		if err != nil {
			return fmt.Errorf("vault: remarshal data: %w", err)
		}
		if checksum.Sum(payload) != snap.Checksum {
			return fmt.Errorf("vault: snapshot checksum mismatch")
		}
	}
	return s.rec.ReplaceAll(models.DataContext{
		CheckIns: snap.Data.CheckIns,
		Tasks:    snap.Data.Tasks,
		Sleep:    snap.Data.Sleep,
		Cycles:   snap.Data.Cycles,
	})
}
