// Package daemon runs the import pipeline continuously: an fsnotify
// watcher on the import directory, a periodic rescan ticker, and
// flock-based locking so only one instance operates against a root.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"phono/internal/catalog"
	"phono/internal/config"
	"phono/internal/errors"
	"phono/internal/importer"
	"phono/internal/logging"
	"phono/internal/manifest"
	"phono/internal/repair"
)

// Daemon owns the long-running pipeline. Import and repair invocations
// are serialized internally; the directories tolerate no concurrent
// pipeline instances, which the lock file enforces across processes.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	importer *importer.Importer
	pool     *repair.Pool
	store    *manifest.Store

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex // guards catalog and pipeline invocations
	catalog *catalog.Catalog

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, imp *importer.Importer, pool *repair.Pool, store *manifest.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || imp == nil || pool == nil || store == nil {
		return nil, errors.New("daemon requires config, importer, repair pool, and manifest store")
	}
	lockPath := filepath.Join(cfg.LogDir, "phonod.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		importer: imp,
		pool:     pool,
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, loads the catalog, and launches the
// watcher and rescan loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another phono daemon instance is already running")
	}

	loaded, skipped, err := d.store.LoadCatalog()
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}
	for _, s := range skipped {
		d.logger.Warn("manifest line skipped",
			logging.Int("line", s.Line),
			logging.Error(s.Err))
	}
	d.mu.Lock()
	d.catalog = loaded
	d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(2)
	go d.watchLoop(runCtx)
	go d.rescanLoop(runCtx)

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("entries", loaded.Len()))
	return nil
}

// Stop halts the loops and releases the lock. Safe to call repeatedly.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the daemon loops are active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// RunImport performs one import batch and persists the catalog.
func (d *Daemon) RunImport() ([]importer.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runImportLocked()
}

func (d *Daemon) runImportLocked() ([]importer.Result, error) {
	if d.catalog == nil {
		d.catalog = catalog.New()
	}
	results, err := d.importer.ImportAllPending(d.catalog)
	if err != nil {
		return nil, err
	}
	if err := d.store.Save(d.catalog); err != nil {
		return results, err
	}
	return results, nil
}

// RunRepair repairs problem files, then imports whatever the repair pass
// promoted back into the import tree.
func (d *Daemon) RunRepair(onProgress repair.ProgressFunc) ([]repair.Success, []repair.Failure, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	successes, failures, err := d.pool.RepairAll(onProgress)
	if err != nil {
		return nil, nil, err
	}
	if len(successes) > 0 {
		if _, err := d.runImportLocked(); err != nil {
			return successes, failures, err
		}
	}
	return successes, failures, nil
}

func (d *Daemon) logBatch(results []importer.Result, err error) {
	if err != nil {
		d.logger.Error("import batch failed", logging.Error(err))
		return
	}
	var ok int
	for _, r := range results {
		if r.Err == nil {
			ok++
		}
	}
	if len(results) > 0 {
		d.logger.Info("background import",
			logging.Int("imported", ok),
			logging.Int("failed", len(results)-ok))
	}
}
