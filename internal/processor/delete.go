package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Delete removes path and returns its size. Errors other than a missing
// file are logged here; all errors are returned so the caller can count
// them. Dry runs remove nothing and return zero.
func (p *Processor) Delete(ctx context.Context, path string) (int64, error) {
	if !p.Deleting() {
		p.logger.Info("would delete", "path", path)
		return 0, nil
	}
	p.logger.Info("deleting", "path", path)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err == nil {
		err = os.Remove(path)
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Error("could not delete", "path", path, "error", err)
		}
		return 0, fmt.Errorf("delete %s: %w", path, err)
	}
	return info.Size(), nil
}
