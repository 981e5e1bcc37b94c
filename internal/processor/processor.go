// Package processor performs the per-file actions of a sync pass: copy or
// transcode a source file into the target tree, and delete a source file.
// Every action is gated by the run Mode and the copy/delete switches.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bamsammich/sightsync/internal/ffmpeg"
	"github.com/bamsammich/sightsync/internal/stats"
)

// ErrVerifyMismatch is returned when a copied file does not hash the same
// as its source.
var ErrVerifyMismatch = errors.New("checksum mismatch")

// aviExt is the extension of files eligible for transcoding.
const aviExt = ".avi"

// Config configures a Processor.
type Config struct {
	Logger       *slog.Logger
	Stats        *stats.Collector // receives verify counters; may be nil
	Runner       ffmpeg.Runner    // nil runs the encoder binary
	FFmpeg       string
	Codec        ffmpeg.Codec
	Mode         Mode
	CopyFiles    bool
	DeleteFiles  bool
	ConvertVideo bool
	Verify       bool
	Debug        bool
}

// Processor executes file actions. It is safe for concurrent use.
type Processor struct {
	cfg        Config
	logger     *slog.Logger
	transcoder *ffmpeg.Transcoder
}

// New creates a Processor.
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Codec == "" {
		cfg.Codec = ffmpeg.FFV1
	}
	p := &Processor{cfg: cfg, logger: logger}
	p.transcoder = ffmpeg.NewTranscoder(ffmpeg.Config{
		Runner:   cfg.Runner,
		Logger:   logger,
		Binary:   cfg.FFmpeg,
		Verbose:  cfg.Debug,
		DryRun:   !p.Copying(),
		TrackTmp: func(path string) func() {
			RegisterTmp(path)
			return func() { DeregisterTmp(path) }
		},
	})
	return p
}

// Copying reports whether copy and transcode actions execute.
func (p *Processor) Copying() bool {
	return p.cfg.Mode == RealRun && p.cfg.CopyFiles
}

// Deleting reports whether delete actions execute.
func (p *Processor) Deleting() bool {
	return p.cfg.Mode == RealRun && p.cfg.DeleteFiles
}

// Process mirrors src to dst. AVI files are transcoded when video
// conversion is on; everything else is copied. It returns the bytes
// reclaimed by transcoding, zero for copies and dry runs.
func (p *Processor) Process(ctx context.Context, src, dst string) (int64, error) {
	if p.cfg.ConvertVideo && isAVI(src) {
		return p.transcoder.Transcode(ctx, ffmpeg.Job{
			Source:      src,
			Target:      dst,
			Codec:       p.cfg.Codec,
			PixelFormat: ffmpeg.Gray,
		})
	}
	return p.Copy(ctx, src, dst)
}

func isAVI(path string) bool {
	return strings.EqualFold(filepath.Ext(path), aviExt)
}
