// Package config loads, normalizes, and validates phono's TOML
// configuration. The pipeline directories (Import, Music, Imported, Problem)
// and the manifest path derive from a single configurable root unless set
// explicitly, and every component receives the resolved config as an
// explicit value.
package config
