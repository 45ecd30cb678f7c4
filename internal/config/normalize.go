package config

import (
	"path/filepath"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRepair()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

// normalizePaths expands every configured path and derives the pipeline
// directories from Root where they are not set explicitly.
func (c *Config) normalizePaths() error {
	root, err := expandPath(strings.TrimSpace(c.Root))
	if err != nil {
		return err
	}
	c.Root = root

	derive := func(field *string, name string) error {
		value := strings.TrimSpace(*field)
		if value == "" {
			*field = filepath.Join(c.Root, name)
			return nil
		}
		expanded, err := expandPath(value)
		if err != nil {
			return err
		}
		*field = expanded
		return nil
	}

	if err := derive(&c.ImportDir, "Import"); err != nil {
		return err
	}
	if err := derive(&c.MusicDir, "Music"); err != nil {
		return err
	}
	if err := derive(&c.ImportedDir, "Imported"); err != nil {
		return err
	}
	if err := derive(&c.ProblemDir, "Problem"); err != nil {
		return err
	}
	if err := derive(&c.ManifestPath, "lib.jsonl"); err != nil {
		return err
	}
	return derive(&c.LogDir, "logs")
}

func (c *Config) normalizeRepair() {
	if c.Workers <= 0 {
		workers := runtime.NumCPU()
		if workers > maxRepairWorkers {
			workers = maxRepairWorkers
		}
		c.Workers = workers
	}
}

func (c *Config) normalizeWorkflow() {
	if c.RescanInterval < 0 {
		c.RescanInterval = 0
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = defaultWatchDebounce
	}
}

func (c *Config) normalizeLogging() {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
