package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"cadence/internal/config"
)

// ErrNotFound is returned when a named playlist does not exist.
var ErrNotFound = errors.New("not found")

// Store manages playlist and settings persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// PlaylistRecord is the serialized form of a playlist: its identity, an
// ordered song-path list, a creation provenance tag, and the persistent flag.
type PlaylistRecord struct {
	Name       string
	SongPaths  []string
	Created    string
	Persistent bool
}

// SavePlaylist upserts a playlist and replaces its song list atomically.
func (s *Store) SavePlaylist(ctx context.Context, rec PlaylistRecord) error {
	if rec.Name == "" {
		return errors.New("playlist name required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO playlists (name, created, persistent) VALUES (?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET created = excluded.created, persistent = excluded.persistent`,
		rec.Name, rec.Created, boolToInt(rec.Persistent),
	); err != nil {
		return fmt.Errorf("upsert playlist %q: %w", rec.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_name = ?`, rec.Name); err != nil {
		return fmt.Errorf("clear songs for %q: %w", rec.Name, err)
	}
	for position, path := range rec.SongPaths {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlist_songs (playlist_name, position, path) VALUES (?, ?, ?)`,
			rec.Name, position, path,
		); err != nil {
			return fmt.Errorf("insert song %d for %q: %w", position, rec.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist and its songs.
func (s *Store) DeletePlaylist(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete playlist %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("playlist %q: %w", name, ErrNotFound)
	}
	return nil
}

// RenamePlaylist changes a playlist's name; song rows follow via cascade.
func (s *Store) RenamePlaylist(ctx context.Context, oldName, newName string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE playlists SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return fmt.Errorf("rename playlist %q: %w", oldName, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("playlist %q: %w", oldName, ErrNotFound)
	}
	return nil
}

// LoadPlaylists returns every stored playlist with songs in saved order,
// sorted by name.
func (s *Store) LoadPlaylists(ctx context.Context) ([]PlaylistRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, created, persistent FROM playlists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var records []PlaylistRecord
	for rows.Next() {
		var rec PlaylistRecord
		var persistent int
		if err := rows.Scan(&rec.Name, &rec.Created, &persistent); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		rec.Persistent = persistent != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	for i := range records {
		paths, err := s.loadSongs(ctx, records[i].Name)
		if err != nil {
			return nil, err
		}
		records[i].SongPaths = paths
	}
	return records, nil
}

func (s *Store) loadSongs(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM playlist_songs WHERE playlist_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("query songs for %q: %w", name, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return paths, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
