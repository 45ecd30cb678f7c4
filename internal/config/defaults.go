package config

const (
	defaultRoot           = "~/Player"
	defaultRescanInterval = 300
	defaultWatchDebounce  = 2000
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// maxRepairWorkers caps the default pool size; decoding is CPU-bound and
	// larger pools just thrash the page cache.
	maxRepairWorkers = 8
)

// Default returns the built-in configuration. Path fields stay unexpanded
// until normalize runs.
func Default() Config {
	return Config{
		Paths: Paths{
			Root: defaultRoot,
		},
		Repair: Repair{
			Workers: 0,
		},
		Workflow: Workflow{
			RescanInterval: defaultRescanInterval,
			WatchDebounce:  defaultWatchDebounce,
		},
		Logging: Logging{
			LogFormat: defaultLogFormat,
			LogLevel:  defaultLogLevel,
		},
	}
}
