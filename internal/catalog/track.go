package catalog

import (
	"path/filepath"
	"strings"

	"cadence/internal/tags"
)

// Fallback values for tracks without usable tags.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// TagSource distinguishes tracks with structured metadata from tracks known
// only by filename. Matching weights branch on this.
type TagSource int

const (
	// TagSourceFilename marks tracks whose tags were absent or unusable.
	TagSourceFilename TagSource = iota
	// TagSourceMetadata marks tracks with a non-empty title and artist.
	TagSourceMetadata
)

// Track is an immutable catalog entry. Path is the identity key; records are
// reconstructed by re-scanning, never mutated in place.
type Track struct {
	Path            string
	Title           string
	Artist          string
	Album           string
	DurationSeconds int
	AlbumArt        []byte
	Source          TagSource
}

// NewTrack builds a Track from extracted metadata, applying fallback values
// and deriving the tag source. A track has structured metadata only when both
// title and artist are present.
func NewTrack(path string, md tags.Metadata) Track {
	title := strings.TrimSpace(md.Title)
	artist := strings.TrimSpace(md.Artist)
	album := strings.TrimSpace(md.Album)

	source := TagSourceFilename
	if title != "" && artist != "" {
		source = TagSourceMetadata
	}
	if artist == "" {
		artist = UnknownArtist
	}
	if album == "" {
		album = UnknownAlbum
	}
	duration := md.DurationSeconds
	if duration < 0 {
		duration = 0
	}
	return Track{
		Path:            path,
		Title:           title,
		Artist:          artist,
		Album:           album,
		DurationSeconds: duration,
		AlbumArt:        md.AlbumArt,
		Source:          source,
	}
}

// Filename returns the path's base name.
func (t Track) Filename() string {
	return filepath.Base(t.Path)
}

// HasMetadata reports whether the track carries structured title/artist tags.
func (t Track) HasMetadata() bool {
	return t.Source == TagSourceMetadata
}

// DisplayTitle returns the tag title, falling back to the filename stem.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	name := t.Filename()
	return strings.TrimSuffix(name, filepath.Ext(name))
}
