package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/sightsync/internal/event"
)

type pass struct {
	cfg Config
}

// entry is one discovered source file.
type entry struct {
	src  string
	rel  string
	dst  string
	size int64
}

func (p *pass) sequential(ctx context.Context, files []string) error {
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if out, err := p.handle(ctx, path); out == OutcomeFatal {
			return err
		}
	}
	return nil
}

// parallel handles files with up to cfg.Workers goroutines. The first fatal
// outcome cancels the rest.
func (p *pass) parallel(ctx context.Context, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if out, err := p.handle(gctx, path); out == OutcomeFatal {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// handle inspects, classifies and acts on a single file.
func (p *pass) handle(ctx context.Context, path string) (Outcome, error) {
	logger := p.cfg.Logger

	rel, dst, err := TargetPath(p.cfg.SourceRoot, p.cfg.TargetRoot, path)
	if err != nil {
		logger.Error("cannot map path", "path", path, "error", err)
		return OutcomeRecoverable, nil
	}

	now := p.cfg.Now()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("file not found, skipping", "path", path)
		} else {
			logger.Error("cannot stat file, skipping", "path", path, "error", err)
		}
		return OutcomeRecoverable, nil
	}
	e := entry{src: path, rel: rel, dst: dst, size: info.Size()}

	p.cfg.Stats.AddFilesInspected(1)
	p.cfg.Stats.AddBytesInspected(e.size)
	p.cfg.emit(ctx, event.Event{Type: event.FileInspected, Path: rel, Size: e.size})

	facts := Facts{Now: now, SourceModTime: info.ModTime()}
	if tinfo, err := os.Stat(dst); err == nil {
		facts.TargetExists = true
		facts.TargetModTime = tinfo.ModTime()
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("cannot stat target", "path", dst, "error", err)
	}

	c := Classify(facts, Policy{
		OlderThan:   p.cfg.OlderThan,
		CopyFiles:   p.cfg.CopyFiles,
		DeleteFiles: p.cfg.DeleteFiles,
	})
	logger.Info("inspected",
		"path", path,
		"age_days", c.AgeDays,
		"old", c.Old,
		"copied", c.Copied,
		"newer", c.Updated,
		"process", c.ShouldProcess,
		"delete", c.ShouldDelete,
	)

	outcome := OutcomeOK
	if c.ShouldProcess {
		out, err := p.process(ctx, e)
		if out == OutcomeFatal {
			return out, err
		}
		outcome = max(outcome, out)
	}
	if c.ShouldDelete {
		out, err := p.delete(ctx, e)
		if out == OutcomeFatal {
			return out, err
		}
		outcome = max(outcome, out)
	}
	return outcome, nil
}

func (p *pass) process(ctx context.Context, e entry) (Outcome, error) {
	delta, err := p.cfg.Processor.Process(ctx, e.src, e.dst)
	if err != nil && ctx.Err() != nil {
		return OutcomeFatal, ctx.Err()
	}

	out := OutcomeOf(err)
	switch out {
	case OutcomeOK:
		p.cfg.Stats.AddFilesProcessed(1)
		p.cfg.Stats.AddBytesProcessed(e.size)
		p.cfg.Stats.AddBytesReclaimed(delta)
		p.cfg.emit(ctx, event.Event{Type: event.FileProcessed, Path: e.rel, Size: e.size, Delta: delta})
		return out, nil
	case OutcomeRecoverable:
		p.cfg.Stats.AddProcessFailed(1)
		p.cfg.Logger.Error("processing failed", "path", e.src, "error", err)
		p.cfg.emit(ctx, event.Event{Type: event.ProcessFailed, Path: e.rel, Size: e.size, Error: err})
		return out, nil
	default:
		p.cfg.Stats.AddProcessFailed(1)
		return out, p.abort(ctx, e, "processing", err)
	}
}

func (p *pass) delete(ctx context.Context, e entry) (Outcome, error) {
	size, err := p.cfg.Processor.Delete(ctx, e.src)
	if err != nil && ctx.Err() != nil {
		return OutcomeFatal, ctx.Err()
	}

	out := OutcomeOf(err)
	switch out {
	case OutcomeOK:
		p.cfg.Stats.AddFilesDeleted(1)
		p.cfg.Stats.AddBytesDeleted(size)
		p.cfg.emit(ctx, event.Event{Type: event.FileDeleted, Path: e.rel, Size: size})
		return out, nil
	case OutcomeRecoverable:
		p.cfg.Stats.AddDeleteFailed(1)
		p.cfg.Logger.Error("deletion failed", "path", e.src, "error", err)
		p.cfg.emit(ctx, event.Event{Type: event.DeleteFailed, Path: e.rel, Size: e.size, Error: err})
		return out, nil
	default:
		p.cfg.Stats.AddDeleteFailed(1)
		return out, p.abort(ctx, e, "deletion", err)
	}
}

func (p *pass) abort(ctx context.Context, e entry, action string, err error) error {
	p.cfg.Logger.Error("file vanished during "+action+", aborting run", "path", e.src, "error", err)
	p.cfg.emit(ctx, event.Event{Type: event.RunAborted, Path: e.rel, Size: e.size, Error: err})
	return fmt.Errorf("%w: %s %s: %w", ErrAborted, action, e.rel, err)
}
