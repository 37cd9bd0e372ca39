package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"qazaq-scraper/pkg/models"
)

// SnapshotSink implements engine.Sink by replacing the snapshot file wholesale.
type SnapshotSink struct {
	*Storage
	Logger *log.Logger
}

func NewSnapshotSink(s *Storage, logger *log.Logger) *SnapshotSink {
	return &SnapshotSink{Storage: s, Logger: logger}
}

// Save writes batch to a temp file next to the snapshot and renames it into
// place, so readers see either the old or the new snapshot.
func (s *SnapshotSink) Save(batch []models.Product) error {
	if batch == nil {
		batch = []models.Product{}
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}
	committed = true

	s.Logger.Info("Data saved", "path", s.path, "products", len(batch))
	return nil
}
