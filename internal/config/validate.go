package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("config: root must not be empty")
	}
	dirs := map[string]string{
		"import_dir":   c.ImportDir,
		"music_dir":    c.MusicDir,
		"imported_dir": c.ImportedDir,
		"problem_dir":  c.ProblemDir,
	}
	seen := make(map[string]string, len(dirs))
	for name, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("config: %s must not be empty", name)
		}
		if other, dup := seen[dir]; dup {
			return fmt.Errorf("config: %s and %s must not share directory %q", name, other, dir)
		}
		seen[dir] = name
	}
	if strings.TrimSpace(c.ManifestPath) == "" {
		return fmt.Errorf("config: manifest_path must not be empty")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging format must be console or json, got %q", c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: repair workers must be positive, got %d", c.Workers)
	}
	return nil
}
