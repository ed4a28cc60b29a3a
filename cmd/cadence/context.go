package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"log/slog"

	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/ipc"
	"cadence/internal/logging"
	"cadence/internal/player"
	"cadence/internal/playlist"
	"cadence/internal/store"
	"cadence/internal/tags"
)

type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewForDir(cfg.Paths.LogDir, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// tagReader builds the extraction collaborator with the audio decoder's
// duration probe wired in.
func (c *commandContext) tagReader() tags.Reader {
	return tags.FileReader{Duration: player.ProbeDuration}
}

// loadCatalog scans the configured library directory into a fresh catalog.
func (c *commandContext) loadCatalog(ctx context.Context, logger *slog.Logger) (*catalog.Catalog, catalog.ScanResult, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, catalog.ScanResult{}, err
	}
	if strings.TrimSpace(cfg.Paths.LibraryDir) == "" {
		return nil, catalog.ScanResult{}, errors.New("no library_dir configured")
	}

	scanner := catalog.NewScanner(c.tagReader(), logger)
	result, err := scanner.ScanDir(ctx, cfg.Paths.LibraryDir)
	if err != nil {
		return nil, result, err
	}
	cat := catalog.New()
	cat.Merge(result.Tracks)
	return cat, result, nil
}

// openPlaylists opens the database and rehydrates stored playlists against
// the catalog. The caller owns closing the returned store.
func (c *commandContext) openPlaylists(ctx context.Context, cat *catalog.Catalog) (*store.Store, *playlist.Store, int, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, 0, err
	}
	db, err := store.Open(cfg)
	if err != nil {
		return nil, nil, 0, err
	}
	playlists := playlist.NewStore(db)
	dropped, err := playlists.Load(ctx, cat, c.tagReader())
	if err != nil {
		_ = db.Close()
		return nil, nil, 0, err
	}
	return db, playlists, dropped, nil
}

func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return *c.socketFlag
	}
	cfg, err := c.ensureConfig()
	if err == nil && strings.TrimSpace(cfg.Playback.SocketPath) != "" {
		return cfg.Playback.SocketPath
	}
	return ""
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	socket := c.socketPath()
	if socket == "" {
		return errors.New("no playback socket configured")
	}
	client, err := ipc.Dial(socket)
	if err != nil {
		return wrapDialError(err, socket)
	}
	defer client.Close()
	return fn(client)
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to session: socket %s not found; start playback with `cadence play`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to session: socket %s refused the connection; verify a session is running", socket)
	default:
		return fmt.Errorf("connect to session: %w", err)
	}
}
