// Package playlist manages named, ordered track collections and their
// persistence. Manifest-imported playlists are persistent: they reject
// reordering, deletion, and removal of individual songs.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"cadence/internal/catalog"
	"cadence/internal/store"
	"cadence/internal/tags"
)

var (
	// ErrDuplicateName is returned when a create or rename collides with an
	// existing playlist.
	ErrDuplicateName = errors.New("playlist name already exists")
	// ErrProtected is returned when a mutation targets a persistent playlist.
	ErrProtected = errors.New("playlist is persistent")
	// ErrNotFound is returned when the named playlist does not exist.
	ErrNotFound = errors.New("playlist not found")
)

// Playlist is a named, ordered track sequence with a provenance tag.
type Playlist struct {
	Name       string
	Songs      []catalog.Track
	Created    string
	Persistent bool
}

// Paths returns the ordered song paths.
func (p *Playlist) Paths() []string {
	paths := make([]string, len(p.Songs))
	for i, song := range p.Songs {
		paths[i] = song.Path
	}
	return paths
}

func (p *Playlist) hasPath(path string) bool {
	for _, song := range p.Songs {
		if song.Path == path {
			return true
		}
	}
	return false
}

// Store holds every playlist and mirrors mutations to the database.
type Store struct {
	db        *store.Store
	playlists map[string]*Playlist
}

// NewStore returns an empty playlist store writing through db. A nil db keeps
// the store memory-only, which the tests rely on.
func NewStore(db *store.Store) *Store {
	return &Store{db: db, playlists: make(map[string]*Playlist)}
}

// Create adds an empty mutable playlist.
func (s *Store) Create(ctx context.Context, name string) (*Playlist, error) {
	return s.CreateTagged(ctx, name, "user", false)
}

// CreateTagged adds a playlist with an explicit provenance tag and
// persistence flag. Import flows use it to mark playlists protected.
func (s *Store) CreateTagged(ctx context.Context, name, created string, persistent bool) (*Playlist, error) {
	if name == "" {
		return nil, errors.New("playlist name required")
	}
	if _, exists := s.playlists[name]; exists {
		return nil, fmt.Errorf("create %q: %w", name, ErrDuplicateName)
	}
	p := &Playlist{Name: name, Created: created, Persistent: persistent}
	s.playlists[name] = p
	if err := s.persist(ctx, p); err != nil {
		delete(s.playlists, name)
		return nil, err
	}
	return p, nil
}

// Delete removes a playlist. Persistent playlists are protected.
func (s *Store) Delete(ctx context.Context, name string) error {
	p, exists := s.playlists[name]
	if !exists {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	if p.Persistent {
		return fmt.Errorf("delete %q: %w", name, ErrProtected)
	}
	delete(s.playlists, name)
	if s.db != nil {
		if err := s.db.DeletePlaylist(ctx, name); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// Rename changes a playlist's key. The new name must be free.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	p, exists := s.playlists[oldName]
	if !exists {
		return fmt.Errorf("rename %q: %w", oldName, ErrNotFound)
	}
	if _, taken := s.playlists[newName]; taken {
		return fmt.Errorf("rename to %q: %w", newName, ErrDuplicateName)
	}
	delete(s.playlists, oldName)
	p.Name = newName
	s.playlists[newName] = p
	if s.db != nil {
		if err := s.db.RenamePlaylist(ctx, oldName, newName); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// AddSong appends a track unless its path is already present. The returned
// bool reports whether the song was actually added.
func (s *Store) AddSong(ctx context.Context, name string, track catalog.Track) (bool, error) {
	p, exists := s.playlists[name]
	if !exists {
		return false, fmt.Errorf("add to %q: %w", name, ErrNotFound)
	}
	if p.hasPath(track.Path) {
		return false, nil
	}
	p.Songs = append(p.Songs, track)
	if err := s.persist(ctx, p); err != nil {
		p.Songs = p.Songs[:len(p.Songs)-1]
		return false, err
	}
	return true, nil
}

// RemoveSong drops the song at the given position. Positions address songs
// unambiguously since a playlist never holds the same path twice; callers
// holding a track rather than a position use RemoveSongByPath. Persistent
// playlists are protected.
func (s *Store) RemoveSong(ctx context.Context, name string, position int) error {
	p, exists := s.playlists[name]
	if !exists {
		return fmt.Errorf("remove from %q: %w", name, ErrNotFound)
	}
	if p.Persistent {
		return fmt.Errorf("remove from %q: %w", name, ErrProtected)
	}
	if position < 0 || position >= len(p.Songs) {
		return fmt.Errorf("remove from %q: position %d out of range", name, position)
	}
	removed := p.Songs[position]
	p.Songs = append(p.Songs[:position], p.Songs[position+1:]...)
	if err := s.persist(ctx, p); err != nil {
		p.Songs = append(p.Songs[:position], append([]catalog.Track{removed}, p.Songs[position:]...)...)
		return err
	}
	return nil
}

// RemoveSongByPath drops the song with the given path, with the same
// protection and rollback behavior as RemoveSong.
func (s *Store) RemoveSongByPath(ctx context.Context, name, path string) error {
	p, exists := s.playlists[name]
	if !exists {
		return fmt.Errorf("remove from %q: %w", name, ErrNotFound)
	}
	for i, song := range p.Songs {
		if song.Path == path {
			return s.RemoveSong(ctx, name, i)
		}
	}
	return fmt.Errorf("remove from %q: path %s not in playlist", name, path)
}

// Reorder replaces the song order atomically. newOrder maps new positions to
// old positions and must be a permutation of the current indices.
func (s *Store) Reorder(ctx context.Context, name string, newOrder []int) error {
	p, exists := s.playlists[name]
	if !exists {
		return fmt.Errorf("reorder %q: %w", name, ErrNotFound)
	}
	if p.Persistent {
		return fmt.Errorf("reorder %q: %w", name, ErrProtected)
	}
	if len(newOrder) != len(p.Songs) {
		return fmt.Errorf("reorder %q: got %d positions, want %d", name, len(newOrder), len(p.Songs))
	}
	seen := make(map[int]bool, len(newOrder))
	reordered := make([]catalog.Track, len(newOrder))
	for newPos, oldPos := range newOrder {
		if oldPos < 0 || oldPos >= len(p.Songs) || seen[oldPos] {
			return fmt.Errorf("reorder %q: invalid permutation", name)
		}
		seen[oldPos] = true
		reordered[newPos] = p.Songs[oldPos]
	}
	previous := p.Songs
	p.Songs = reordered
	if err := s.persist(ctx, p); err != nil {
		p.Songs = previous
		return err
	}
	return nil
}

// Get looks up a playlist by name.
func (s *Store) Get(name string) (*Playlist, bool) {
	p, exists := s.playlists[name]
	return p, exists
}

// All returns every playlist sorted by name.
func (s *Store) All() []*Playlist {
	names := make([]string, 0, len(s.playlists))
	for name := range s.playlists {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Playlist, len(names))
	for i, name := range names {
		result[i] = s.playlists[name]
	}
	return result
}

// Len reports the number of playlists.
func (s *Store) Len() int {
	return len(s.playlists)
}

// Adopt inserts a fully-formed playlist, replacing any existing mutable one
// with the same name, and persists it. Import flows use it after building the
// song list elsewhere. A persistent playlist under the name is protected and
// must be renamed or targeted under a different name instead.
func (s *Store) Adopt(ctx context.Context, p *Playlist) error {
	if p == nil || p.Name == "" {
		return errors.New("playlist name required")
	}
	if existing, exists := s.playlists[p.Name]; exists && existing.Persistent {
		return fmt.Errorf("adopt %q: %w", p.Name, ErrProtected)
	}
	previous, hadPrevious := s.playlists[p.Name]
	s.playlists[p.Name] = p
	if err := s.persist(ctx, p); err != nil {
		if hadPrevious {
			s.playlists[p.Name] = previous
		} else {
			delete(s.playlists, p.Name)
		}
		return err
	}
	return nil
}

func (s *Store) persist(ctx context.Context, p *Playlist) error {
	if s.db == nil {
		return nil
	}
	return s.db.SavePlaylist(ctx, store.PlaylistRecord{
		Name:       p.Name,
		SongPaths:  p.Paths(),
		Created:    p.Created,
		Persistent: p.Persistent,
	})
}

// Load rehydrates playlists from the database against the catalog. Paths no
// longer in the catalog are dropped, except paths still present on disk,
// which are read fresh and merged into the catalog first. Returns the number
// of dropped paths.
func (s *Store) Load(ctx context.Context, cat *catalog.Catalog, reader tags.Reader) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	records, err := s.db.LoadPlaylists(ctx)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for _, rec := range records {
		p := &Playlist{Name: rec.Name, Created: rec.Created, Persistent: rec.Persistent}
		for _, path := range rec.SongPaths {
			track, found := cat.Get(path)
			if !found {
				track, found = s.readmit(cat, reader, path)
			}
			if !found {
				dropped++
				continue
			}
			p.Songs = append(p.Songs, track)
		}
		s.playlists[p.Name] = p
	}
	return dropped, nil
}

// readmit re-derives metadata for a path that left the catalog but still
// exists on disk, inserting it as a fresh catalog entry.
func (s *Store) readmit(cat *catalog.Catalog, reader tags.Reader, path string) (catalog.Track, bool) {
	if reader == nil {
		return catalog.Track{}, false
	}
	if _, err := os.Stat(path); err != nil {
		return catalog.Track{}, false
	}
	meta, err := reader.Read(path)
	if err != nil {
		return catalog.Track{}, false
	}
	track := catalog.NewTrack(path, meta)
	cat.Add(track)
	return track, true
}
