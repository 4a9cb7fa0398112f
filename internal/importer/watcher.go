// Package importer watches a drop directory for exported snapshot files
// and ingests them automatically, so restoring a backup is a file copy.
package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/wunjo/internal/vault"
)

// ImportedCallback is called after a snapshot has been imported.
type ImportedCallback func(path string)

// debounce delays ingestion after the last write event so partially
// copied files are not read mid-transfer.
const debounce = 300 * time.Millisecond

// Watch starts an fsnotify watcher on dir and imports every snapshot file
// dropped into it until ctx is cancelled. Each file is ingested at most
// once per write burst; failures are logged and skipped, never fatal.
func Watch(ctx context.Context, v *vault.Service, dir string, logger *slog.Logger, cb ImportedCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("importer: started", slog.String("dir", dir))

	// pending holds paths waiting out their debounce window.
	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(path string) {
		pending[path] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	ingest := func(path string) {
		blob, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", readErr.Error()))
			return
		}
		if impErr := v.Import(ctx, blob); impErr != nil {
			logger.Warn("importer: import failed", slog.String("path", path), slog.String("error", impErr.Error()))
			return
		}
		logger.Info("importer: snapshot imported", slog.String("path", path))
		if cb != nil {
			cb(path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("importer: stopped")
			return nil

		case <-timerCh:
			for path := range pending {
				delete(pending, path)
				ingest(path)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isSnapshotFile(ev.Name) {
				continue
			}
			schedule(ev.Name)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isSnapshotFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".wunjo")
}
