// Package engine runs one full mirroring pass over a source tree: it
// discovers files, classifies each against its mirrored copy, hands the
// resulting actions to a FileProcessor and accounts for the outcome.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bamsammich/sightsync/internal/event"
	"github.com/bamsammich/sightsync/internal/filter"
	"github.com/bamsammich/sightsync/internal/stats"
)

// ErrAborted wraps the error that stopped a run early.
var ErrAborted = errors.New("run aborted")

// FileProcessor performs the per-file actions. Both methods return the
// number of bytes the action accounts for: reclaimed bytes for Process,
// removed bytes for Delete.
type FileProcessor interface {
	Process(ctx context.Context, src, dst string) (int64, error)
	Delete(ctx context.Context, path string) (int64, error)
}

// Config describes a sync pass.
type Config struct {
	Processor   FileProcessor
	Stats       *stats.Collector   // optional; created when nil
	Filter      *filter.Chain      // optional
	Events      chan<- event.Event // sends block until received or ctx is done
	Logger      *slog.Logger
	Now         func() time.Time
	SourceRoot  string
	TargetRoot  string
	OlderThan   int // days
	Workers     int // files processed concurrently; <= 1 is sequential
	CopyFiles   bool
	DeleteFiles bool
}

func (c Config) emit(ctx context.Context, e event.Event) {
	if c.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case c.Events <- e:
	case <-ctx.Done():
	}
}

// Result is the outcome of a sync pass.
type Result struct {
	Err   error
	Stats stats.Snapshot
}

// Aborted reports whether the run stopped on a fatal per-file outcome.
func (r Result) Aborted() bool {
	return errors.Is(r.Err, ErrAborted)
}

// Run executes a sync pass, blocking until every discovered file has been
// handled, a fatal outcome aborts the pass, or ctx is done.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Processor == nil {
		return Result{Err: errors.New("engine: no file processor"), Stats: cfg.Stats.Snapshot()}
	}

	cfg.emit(ctx, event.Event{Type: event.ScanStarted})
	files, err := Discover(cfg.SourceRoot, cfg.Filter, cfg.Logger)
	if err != nil {
		return Result{Err: fmt.Errorf("discover %s: %w", cfg.SourceRoot, err), Stats: cfg.Stats.Snapshot()}
	}
	cfg.Stats.SetFilesTotal(int64(len(files)))
	cfg.emit(ctx, event.Event{Type: event.ScanComplete, Total: int64(len(files))})
	cfg.Logger.Debug("scan complete", "root", cfg.SourceRoot, "files", len(files))

	p := &pass{cfg: cfg}
	if cfg.Workers == 1 {
		err = p.sequential(ctx, files)
	} else {
		err = p.parallel(ctx, files)
	}
	return Result{Err: err, Stats: cfg.Stats.Snapshot()}
}
