package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Metadata is the per-file extraction result. Title, Artist, and Album are
// empty when the file carries no usable tags; AlbumArt is nil when no image
// is embedded.
type Metadata struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds int
	AlbumArt        []byte
}

// Reader extracts metadata from a single audio file.
type Reader interface {
	Read(path string) (Metadata, error)
}

// DurationFunc probes a file's playable duration in seconds. Implementations
// live beside the audio decoder; a nil func leaves duration at zero.
type DurationFunc func(path string) (int, error)

// FileReader reads embedded tags with dhowden/tag and optionally probes
// duration through the supplied DurationFunc.
type FileReader struct {
	Duration DurationFunc
}

// Read parses the file's embedded tags. The returned error is non-nil when
// the file cannot be opened or no tag format is recognized; callers treat it
// as skip-and-continue.
func (r FileReader) Read(path string) (Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var md Metadata
	parsed, err := tag.ReadFrom(file)
	if err != nil {
		// No recognizable tag block. Duration may still be probeable, so fall
		// through with empty fields rather than failing the file outright.
		md = Metadata{}
	} else {
		md = Metadata{
			Title:  strings.TrimSpace(parsed.Title()),
			Artist: strings.TrimSpace(parsed.Artist()),
			Album:  strings.TrimSpace(parsed.Album()),
		}
		if pic := parsed.Picture(); pic != nil && len(pic.Data) > 0 {
			md.AlbumArt = append([]byte(nil), pic.Data...)
		}
	}

	if r.Duration != nil {
		if seconds, derr := r.Duration(path); derr == nil && seconds > 0 {
			md.DurationSeconds = seconds
		}
	}
	return md, nil
}
