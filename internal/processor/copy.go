package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bamsammich/sightsync/internal/platform"
)

// Copy copies src over dst, creating parent directories as needed. The data
// lands in a hidden temp file first and is renamed into place, so dst is
// never observed half-written. Copy never reclaims space and returns zero.
func (p *Processor) Copy(ctx context.Context, src, dst string) (int64, error) {
	if !p.Copying() {
		p.logger.Info("would copy", "src", src, "dst", dst)
		return 0, nil
	}
	p.logger.Info("copying", "src", src, "dst", dst)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create target dir: %w", err)
	}

	tmp := tmpName(dst)
	RegisterTmp(tmp)
	defer DeregisterTmp(tmp)

	res, err := platform.CopyFile(src, tmp, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}

	if p.cfg.Verify {
		if err := p.verify(src, tmp); err != nil {
			_ = os.Remove(tmp)
			return 0, err
		}
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("rename into %s: %w", dst, err)
	}

	p.logger.Debug("copied", "dst", dst, "bytes", res.BytesWritten, "method", res.Method.String())
	return 0, nil
}

// tmpName returns a hidden sibling of dst: .<name>.<uuid8>.sightsync-tmp
func tmpName(dst string) string {
	return filepath.Join(
		filepath.Dir(dst),
		fmt.Sprintf(".%s.%s.sightsync-tmp", filepath.Base(dst), uuid.NewString()[:8]),
	)
}

func (p *Processor) verify(src, dst string) error {
	srcHash, err := HashFile(src)
	if err != nil {
		return err
	}
	dstHash, err := HashFile(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		if p.cfg.Stats != nil {
			p.cfg.Stats.AddVerifyFailed(1)
		}
		return fmt.Errorf("%w: %s (src %s, dst %s)", ErrVerifyMismatch, src, srcHash[:16], dstHash[:16])
	}
	if p.cfg.Stats != nil {
		p.cfg.Stats.AddFilesVerified(1)
	}
	p.logger.Debug("verified", "path", src, "blake3", srcHash)
	return nil
}
