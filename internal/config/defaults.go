package config

const (
	defaultDataDir         = "~/.local/share/geomatch"
	defaultLogDir          = "~/.local/share/geomatch/logs"
	defaultMaxDeltaSeconds = 60
	defaultWorkers         = 4
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Match: Match{
			MaxDeltaSeconds: defaultMaxDeltaSeconds,
			Workers:         defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
