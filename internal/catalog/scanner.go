package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"cadence/internal/logging"
	"cadence/internal/tags"
)

// audioExtensions lists the file types the scanner considers playable.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".ogg":  {},
	".m4a":  {},
}

// ScanResult carries the tracks discovered by a scan plus the number of
// files skipped due to extraction failures.
type ScanResult struct {
	Tracks  []Track
	Skipped int
}

// Scanner walks directories and builds catalog entries through the tag
// extraction collaborator. Failures are per-file: logged, counted, skipped.
type Scanner struct {
	reader tags.Reader
	logger *slog.Logger
}

// NewScanner constructs a scanner. A nil logger discards output.
func NewScanner(reader tags.Reader, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{reader: reader, logger: logger.With(logging.String("component", "scanner"))}
}

// ScanDir walks dir recursively and extracts every audio file found. The
// walk honors ctx cancellation between files. The returned error is non-nil
// only when the root itself cannot be walked; per-file failures surface in
// ScanResult.Skipped.
func (s *Scanner) ScanDir(ctx context.Context, dir string) (ScanResult, error) {
	var result ScanResult
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			s.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(walkErr))
			result.Skipped++
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !IsAudioFile(path) {
			return nil
		}
		track, err := s.ScanFile(path)
		if err != nil {
			s.logger.Warn("tag extraction failed", logging.String("path", path), logging.Error(err))
			result.Skipped++
			return nil
		}
		result.Tracks = append(result.Tracks, track)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("scan %s: %w", dir, err)
	}
	s.logger.Info("scan complete",
		logging.String("dir", dir),
		logging.Int("tracks", len(result.Tracks)),
		logging.Int("skipped", result.Skipped))
	return result, nil
}

// ScanFile extracts a single audio file into a Track.
func (s *Scanner) ScanFile(path string) (Track, error) {
	md, err := s.reader.Read(path)
	if err != nil {
		return Track{}, err
	}
	return NewTrack(path, md), nil
}

// IsAudioFile reports whether the path has a recognized audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
