package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"phono/internal/config"
	"phono/internal/importer"
	"phono/internal/logging"
	"phono/internal/manifest"
	"phono/internal/repair"
	"phono/internal/scanner"
	"phono/internal/tags"
)

// commandContext lazily resolves the configuration and wires the pipeline
// components commands share.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			LogFile: filepath.Join(cfg.LogDir, "phono.log"),
		})
	})
	return c.logger, c.loggerErr
}

// pipeline bundles the components a pipeline-driving command needs.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	reader   *tags.Reader
	scanner  *scanner.Scanner
	importer *importer.Importer
	pool     *repair.Pool
	store    *manifest.Store
}

func (c *commandContext) buildPipeline() (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	reader := tags.NewReader(logger)
	scan := scanner.New(reader, logger)
	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		reader:   reader,
		scanner:  scan,
		importer: importer.New(cfg, reader, scan, logger),
		pool:     repair.NewPool(cfg, scan, logger),
		store:    manifest.NewStore(cfg.ManifestPath, logger),
	}, nil
}
