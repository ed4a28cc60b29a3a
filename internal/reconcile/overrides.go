package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"cadence/internal/logging"
)

// Overrides loads user-authored reconciliation overrides: a JSON object
// mapping exact manifest track names to catalog filenames. Overrides exist
// for entries normalization cannot match, such as romanization mismatches
// between manifest titles and local tags.
type Overrides struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	loaded  time.Time
	entries map[string]string
}

// NewOverrides constructs an override catalog backed by the provided JSON
// file. Returns nil for an empty path; a nil *Overrides is safe to query.
func NewOverrides(path string, logger *slog.Logger) *Overrides {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Overrides{path: trimmed, logger: logger}
}

// Lookup returns the catalog filename pinned to the manifest track name.
// The file is re-read when its modification time changes; a missing file
// simply yields no overrides.
func (o *Overrides) Lookup(trackName string) (string, bool, error) {
	if o == nil || strings.TrimSpace(o.path) == "" {
		return "", false, nil
	}
	if err := o.ensureLoaded(); err != nil {
		return "", false, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	filename, ok := o.entries[trackName]
	return filename, ok, nil
}

// Len returns the number of loaded overrides, loading on demand.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	if err := o.ensureLoaded(); err != nil {
		return 0
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

func (o *Overrides) ensureLoaded() error {
	info, err := os.Stat(o.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	o.mu.RLock()
	alreadyLoaded := !o.loaded.IsZero() && o.loaded.Equal(info.ModTime())
	o.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	data, err := os.ReadFile(o.path)
	if err != nil {
		return err
	}

	entries := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parse overrides %s: %w", o.path, err)
		}
	}

	o.mu.Lock()
	o.entries = entries
	o.loaded = info.ModTime()
	o.mu.Unlock()
	o.logger.Debug("overrides loaded",
		logging.String("path", o.path),
		logging.Int("count", len(entries)))
	return nil
}
