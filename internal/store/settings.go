package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Settings is the single persisted playback state row.
type Settings struct {
	Volume     float64
	Shuffle    bool
	RepeatMode int
	WinX       int
	WinY       int
	WinWidth   int
	WinHeight  int
}

// DefaultSettings returns the values used before any state has been saved.
func DefaultSettings() Settings {
	return Settings{Volume: 0.8}
}

// LoadSettings reads the settings row, returning defaults when absent.
func (s *Store) LoadSettings(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	var shuffle int
	row := s.db.QueryRowContext(ctx,
		`SELECT volume, shuffle, repeat_mode, win_x, win_y, win_width, win_height FROM settings WHERE id = 1`)
	err := row.Scan(&settings.Volume, &shuffle, &settings.RepeatMode,
		&settings.WinX, &settings.WinY, &settings.WinWidth, &settings.WinHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings.Shuffle = shuffle != 0
	return settings, nil
}

// SaveSettings upserts the settings row.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, volume, shuffle, repeat_mode, win_x, win_y, win_width, win_height)
         VALUES (1, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             volume = excluded.volume,
             shuffle = excluded.shuffle,
             repeat_mode = excluded.repeat_mode,
             win_x = excluded.win_x,
             win_y = excluded.win_y,
             win_width = excluded.win_width,
             win_height = excluded.win_height`,
		settings.Volume, boolToInt(settings.Shuffle), settings.RepeatMode,
		settings.WinX, settings.WinY, settings.WinWidth, settings.WinHeight)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
