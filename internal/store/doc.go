// Package store persists playlists and playback settings in SQLite.
//
// The database lives under the configured state directory. Playlists are
// stored as a name-keyed row plus an ordered song-path list; settings are a
// single row. All multi-statement writes run in transactions so partial
// states are never visible. Schema changes ship as embedded, versioned
// migrations applied at open.
package store
