package catalog

import (
	"sort"
	"strings"

	"cadence/internal/textutil"
)

// Catalog is the set of locally known tracks keyed by path. Iteration order
// is stable (sorted by path) so that downstream tie-breaks are deterministic
// across re-scans.
type Catalog struct {
	byPath map[string]Track
	sorted []string
	dirty  bool
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byPath: make(map[string]Track)}
}

// Add inserts a track unless its path is already present (first-seen wins).
// Reports whether the track was inserted.
func (c *Catalog) Add(track Track) bool {
	if track.Path == "" {
		return false
	}
	if _, exists := c.byPath[track.Path]; exists {
		return false
	}
	c.byPath[track.Path] = track
	c.sorted = append(c.sorted, track.Path)
	c.dirty = true
	return true
}

// Merge adds every track, skipping paths already present. Returns the number
// of newly inserted tracks.
func (c *Catalog) Merge(tracks []Track) int {
	var added int
	for _, track := range tracks {
		if c.Add(track) {
			added++
		}
	}
	return added
}

// Get returns the track for path.
func (c *Catalog) Get(path string) (Track, bool) {
	track, ok := c.byPath[path]
	return track, ok
}

// Contains reports whether path is known.
func (c *Catalog) Contains(path string) bool {
	_, ok := c.byPath[path]
	return ok
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.byPath)
}

// Tracks returns all tracks sorted by path.
func (c *Catalog) Tracks() []Track {
	c.ensureSorted()
	out := make([]Track, 0, len(c.sorted))
	for _, path := range c.sorted {
		out = append(out, c.byPath[path])
	}
	return out
}

// Search returns tracks whose title, artist, album, or filename contains the
// normalized query substring, sorted by path.
func (c *Catalog) Search(query string) []Track {
	needle := textutil.Normalize(query)
	if needle == "" {
		return c.Tracks()
	}
	var out []Track
	for _, track := range c.Tracks() {
		haystacks := []string{track.Title, track.Artist, track.Album, track.Filename()}
		for _, h := range haystacks {
			if strings.Contains(textutil.Normalize(h), needle) {
				out = append(out, track)
				break
			}
		}
	}
	return out
}

func (c *Catalog) ensureSorted() {
	if c.dirty {
		sort.Strings(c.sorted)
		c.dirty = false
	}
}
