// Package repair recovers durations for files parked in the problem tree
// and promotes them back into the import queue.
//
// Candidates are processed by a fixed-size worker pool. Progress delivery
// is serialized through a channel consumed by a single goroutine, so the
// caller's callback never runs concurrently with itself even though the
// shared counter is lock-free.
package repair

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"phono/internal/audio"
	"phono/internal/config"
	"phono/internal/errors"
	"phono/internal/fileutil"
	"phono/internal/importer"
	"phono/internal/logging"
	"phono/internal/scanner"
	"phono/internal/tags"
)

// Progress reports one file about to be attempted. Current is 1-based and
// monotonically increasing across workers; it does not correspond to
// filesystem order.
type Progress struct {
	Current int
	Total   int
	Path    string
}

// ProgressFunc receives progress updates. It is invoked from a single
// consumer goroutine and must not block indefinitely.
type ProgressFunc func(Progress)

// Success records one repaired file.
type Success struct {
	Path     string
	Duration time.Duration
	MovedTo  string
}

// Failure records one file that could not be repaired.
type Failure struct {
	Path   string
	Reason error
}

// Pool repairs problem files in parallel.
type Pool struct {
	cfg     *config.Config
	scanner *scanner.Scanner
	decode  audio.DurationFunc
	workers int
	logger  *slog.Logger
}

// NewPool builds a repair pool with the configured worker count, decoding
// with the real audio decoder.
func NewPool(cfg *config.Config, scan *scanner.Scanner, logger *slog.Logger) *Pool {
	return NewPoolWithDecoder(cfg, scan, audio.DecodeDuration, logger)
}

// NewPoolWithDecoder allows injecting the duration decoder (used in tests).
func NewPoolWithDecoder(cfg *config.Config, scan *scanner.Scanner, decode audio.DurationFunc, logger *slog.Logger) *Pool {
	return &Pool{
		cfg:     cfg,
		scanner: scan,
		decode:  decode,
		workers: cfg.Workers,
		logger:  logging.NewComponentLogger(logger, "repair"),
	}
}

// RepairAll scans the problem tree and attempts every readable candidate.
// Every candidate lands in exactly one of the returned lists; neither list
// carries ordering guarantees. onProgress may be nil.
func (p *Pool) RepairAll(onProgress ProgressFunc) ([]Success, []Failure, error) {
	candidates, err := p.scanner.Scan(p.cfg.ProblemDir)
	if err != nil {
		return nil, nil, err
	}
	total := len(candidates)
	if total == 0 {
		return nil, nil, nil
	}

	p.logger.Info("repair batch started",
		logging.Int("candidates", total),
		logging.Int("workers", p.workers))

	jobs := make(chan string)
	progress := make(chan Progress, total)
	results := make(chan outcome, total)

	var consumer sync.WaitGroup
	consumer.Add(1)
	go func() {
		defer consumer.Done()
		for update := range progress {
			if onProgress != nil {
				onProgress(update)
			}
		}
	}()

	var counter atomic.Int64
	var workers sync.WaitGroup
	n := p.workers
	if n > total {
		n = total
	}
	for w := 0; w < n; w++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for path := range jobs {
				progress <- Progress{
					Current: int(counter.Add(1)),
					Total:   total,
					Path:    path,
				}
				results <- p.repairOne(path)
			}
		}()
	}

	for _, c := range candidates {
		jobs <- c.Ref.Path
	}
	close(jobs)
	workers.Wait()
	close(progress)
	close(results)
	consumer.Wait()

	var successes []Success
	var failures []Failure
	for r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		successes = append(successes, r.success)
	}

	fileutil.RemoveEmptyDirs(p.cfg.ProblemDir)

	p.logger.Info("repair batch finished",
		logging.Int("repaired", len(successes)),
		logging.Int("failed", len(failures)))
	return successes, failures, nil
}

// outcome is the per-file result flowing out of workers.
type outcome struct {
	success Success
	failure *Failure
}

func failed(path string, reason error) outcome {
	return outcome{failure: &Failure{Path: path, Reason: reason}}
}

// repairOne recomputes the file's duration by full decode, writes it into
// the tag, and moves the file into the import tree at its mirrored path.
func (p *Pool) repairOne(path string) outcome {
	d, err := p.decode(path)
	if err != nil {
		return failed(path, errors.Wrap(err, errors.CodeNoDuration, "decode failed"))
	}
	if d <= 0 {
		return failed(path, errors.ErrNoDuration.WithPath(path))
	}

	if err := tags.BackfillDuration(path, d); err != nil {
		return failed(path, err)
	}

	dest := importer.MirrorPath(p.cfg.ImportDir, p.cfg.ProblemDir, path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return failed(path, errors.IO(dest, err))
	}
	if err := fileutil.MoveFile(path, dest); err != nil {
		return failed(path, errors.IO(path, err))
	}

	p.logger.Info("repaired",
		logging.String("path", path),
		logging.Duration("duration", d),
		logging.String("moved_to", dest))
	return outcome{success: Success{Path: path, Duration: d, MovedTo: dest}}
}
