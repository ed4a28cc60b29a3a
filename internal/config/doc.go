// Package config loads and validates Cadence configuration from TOML.
//
// Configuration covers the music library location, persistent state paths,
// logging, manifest reconciliation overrides, remote acquisition, playback
// defaults, and optional push notifications. Load falls back to built-in
// defaults when no config file exists, expands "~" in all path fields, and
// validates the result before returning it.
package config
