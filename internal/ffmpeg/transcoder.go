package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bamsammich/sightsync/internal/avi"
)

// Config configures a Transcoder.
type Config struct {
	Runner  Runner
	Logger  *slog.Logger
	Binary  string // default "ffmpeg"
	Verbose bool   // selects LogLevelVerbose
	DryRun  bool   // log the command instead of running it
	// TrackTmp, when set, is told about the temp output before the encoder
	// starts and returns a func that forgets it again.
	TrackTmp func(path string) (untrack func())
}

// Job is a single source to target encode.
type Job struct {
	Source      string
	Target      string
	Codec       Codec
	PixelFormat PixelFormat
}

// Transcoder repairs AVI headers and re-encodes files.
type Transcoder struct {
	runner   Runner
	logger   *slog.Logger
	binary   string
	verbose  bool
	dryRun   bool
	trackTmp func(string) func()
}

// NewTranscoder creates a Transcoder. A nil Runner runs the real binary.
func NewTranscoder(cfg Config) *Transcoder {
	t := &Transcoder{
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		binary:   cfg.Binary,
		verbose:  cfg.Verbose,
		dryRun:   cfg.DryRun,
		trackTmp: cfg.TrackTmp,
	}
	if t.runner == nil {
		t.runner = ExecRunner{Stderr: os.Stderr}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.binary == "" {
		t.binary = "ffmpeg"
	}
	return t
}

// Command returns the encoder command for job.
func (t *Transcoder) Command(job Job) Command {
	return Command{
		Binary:      t.binary,
		Input:       job.Source,
		Output:      job.Target,
		Codec:       job.Codec,
		PixelFormat: job.PixelFormat,
		Verbose:     t.verbose,
	}
}

// Transcode patches the source header and encodes it to the target. It
// returns the source size minus the target size, which is negative when the
// encode grew the file. A missing source is not an error and reclaims
// nothing. In dry-run mode nothing is written and zero is returned.
//
// The encoder writes a hidden sibling of the target that is renamed into
// place on success, so a failed encode leaves an existing target untouched.
func (t *Transcoder) Transcode(ctx context.Context, job Job) (int64, error) {
	srcInfo, err := os.Stat(job.Source)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", job.Source, err)
	}

	if _, err := avi.PatchHeader(job.Source, !t.dryRun, t.logger); err != nil {
		return 0, err
	}

	cmd := t.Command(job)
	if t.dryRun {
		t.logger.Info("would convert", "src", job.Source, "dst", job.Target)
		t.logger.Info("would run " + cmd.String())
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(job.Target), 0o755); err != nil {
		return 0, fmt.Errorf("create target dir: %w", err)
	}

	tmp := TmpOutput(job.Target)
	if t.trackTmp != nil {
		defer t.trackTmp(tmp)()
	}
	cmd.Output = tmp

	t.logger.Info("converting", "src", job.Source, "dst", job.Target, "codec", job.Codec)
	if err := t.runner.Run(ctx, cmd.Args()); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("transcode %s: %w", job.Source, err)
	}

	dstInfo, err := os.Stat(tmp)
	if err != nil {
		return 0, fmt.Errorf("stat encoded %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, job.Target); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("rename into %s: %w", job.Target, err)
	}
	return srcInfo.Size() - dstInfo.Size(), nil
}

// TmpOutput returns a hidden sibling of target that keeps its extension, so
// the encoder still picks the container from the name:
// .<name>.<uuid8>.sightsync-tmp<ext>
func TmpOutput(target string) string {
	base := filepath.Base(target)
	return filepath.Join(
		filepath.Dir(target),
		fmt.Sprintf(".%s.%s.sightsync-tmp%s", base, uuid.NewString()[:8], filepath.Ext(base)),
	)
}
