package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAcquire(); err != nil {
		return err
	}
	if err := c.normalizePlayback(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OverridesPath, err = expandPath(c.Paths.OverridesPath); err != nil {
		return fmt.Errorf("paths.overrides_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcquire() error {
	c.Acquire.Command = strings.TrimSpace(c.Acquire.Command)
	if strings.TrimSpace(c.Acquire.DownloadDir) == "" {
		c.Acquire.DownloadDir = filepath.Join(c.Paths.LibraryDir, "downloads")
	}
	var err error
	if c.Acquire.DownloadDir, err = expandPath(c.Acquire.DownloadDir); err != nil {
		return fmt.Errorf("acquire.download_dir: %w", err)
	}
	if c.Acquire.TimeoutSeconds <= 0 {
		c.Acquire.TimeoutSeconds = defaultAcquireTimeout
	}
	if c.Acquire.ShutdownSeconds <= 0 {
		c.Acquire.ShutdownSeconds = defaultShutdownSeconds
	}
	return nil
}

func (c *Config) normalizePlayback() error {
	if c.Playback.PositionPollMS <= 0 {
		c.Playback.PositionPollMS = defaultPositionPollMS
	}
	if strings.TrimSpace(c.Playback.SocketPath) == "" {
		c.Playback.SocketPath = defaultSocketPath
	}
	var err error
	if c.Playback.SocketPath, err = expandPath(c.Playback.SocketPath); err != nil {
		return fmt.Errorf("playback.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
