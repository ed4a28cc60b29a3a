// Package logging constructs slog loggers for the CLI and playback session.
//
// Two output formats are supported: a console format for interactive use and
// a JSON format for log files and scripting. Output can fan out to stdout and
// a logfile under the configured log directory. Typed attribute helpers keep
// call sites terse and consistent across packages.
package logging
