package config

const (
	defaultLibraryDir      = "~/music"
	defaultStateDir        = "~/.local/share/cadence"
	defaultLogDir          = "~/.local/share/cadence/logs"
	defaultOverridesPath   = "~/.config/cadence/overrides.json"
	defaultImportedPrefix  = "imported-"
	defaultAcquireCommand  = "yt-dlp"
	defaultAcquireTimeout  = 1800
	defaultShutdownSeconds = 5
	defaultVolume          = 0.8
	defaultPositionPollMS  = 100
	defaultSocketPath      = "~/.local/share/cadence/control.sock"
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:    defaultLibraryDir,
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
			OverridesPath: defaultOverridesPath,
		},
		Manifest: Manifest{
			ImportedPlaylistPrefix: defaultImportedPrefix,
		},
		Acquire: Acquire{
			Command:         defaultAcquireCommand,
			TimeoutSeconds:  defaultAcquireTimeout,
			ShutdownSeconds: defaultShutdownSeconds,
		},
		Playback: Playback{
			Volume:         defaultVolume,
			PositionPollMS: defaultPositionPollMS,
			SocketPath:     defaultSocketPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Acquisition:    true,
			Reconcile:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
