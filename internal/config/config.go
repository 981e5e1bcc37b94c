// Package config loads and validates sightsync job files.
//
// A job is described by a YAML file. Values are resolved in order: built-in
// defaults, the optional user TOML file, the job file, then command-line
// flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"

	"github.com/bamsammich/sightsync/internal/ffmpeg"
	"github.com/bamsammich/sightsync/internal/filter"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is a fully resolved job.
type Config struct {
	Source      string   `yaml:"source"`
	Target      string   `yaml:"target"`
	FFmpeg      string   `yaml:"ffmpeg"`
	OlderThan   int      `yaml:"older_than"`
	Video       Video    `yaml:"video"`
	CopyFiles   bool     `yaml:"copy_files"`
	DeleteFiles bool     `yaml:"delete_files"`
	Workers     int      `yaml:"workers"`
	Verify      bool     `yaml:"verify"`
	Exclude     []string `yaml:"exclude,omitempty"`
	Include     []string `yaml:"include,omitempty"`
}

// Video holds the transcoding settings.
type Video struct {
	Codec       string `yaml:"codec"`
	PixelFormat string `yaml:"pixel_format"`
	Convert     bool   `yaml:"convert"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		FFmpeg:    "ffmpeg",
		OlderThan: 30,
		Video: Video{
			Codec:       string(ffmpeg.FFV1),
			PixelFormat: string(ffmpeg.Gray),
		},
		Workers: 1,
	}
}

// Load decodes the job file at path on top of base. Unknown keys are an
// error. An empty file leaves base unchanged.
func Load(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Codec returns the parsed video codec.
func (c Config) Codec() (ffmpeg.Codec, error) {
	return ffmpeg.ParseCodec(c.Video.Codec)
}

// PixelFormat returns the parsed video pixel format.
func (c Config) PixelFormat() (ffmpeg.PixelFormat, error) {
	return ffmpeg.ParsePixelFormat(c.Video.PixelFormat)
}

// Filter builds the discovery filter from the include and exclude lists.
func (c Config) Filter() (*filter.Chain, error) {
	return filter.Build(c.Include, c.Exclude)
}

// Validate reports every problem with the resolved values. It does not
// touch the filesystem; see CheckPaths.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Source == "" {
		invalid("source is not set")
	}
	if c.Target == "" {
		invalid("target is not set")
	}
	if c.FFmpeg == "" {
		invalid("ffmpeg is not set")
	}
	if c.OlderThan < 0 {
		invalid("older_than must not be negative, got %d", c.OlderThan)
	}
	if c.Workers < 1 {
		invalid("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Codec(); err != nil {
		invalid("video.codec: %v", err)
	}
	if _, err := c.PixelFormat(); err != nil {
		invalid("video.pixel_format: %v", err)
	}
	if _, err := c.Filter(); err != nil {
		invalid("filter: %v", err)
	}
	return errors.Join(errs...)
}

// CheckPaths verifies that the source is a readable directory, the target
// a writable directory, and that neither contains the other.
func (c Config) CheckPaths() error {
	src, err := checkDir("source", c.Source, unix.R_OK|unix.X_OK)
	if err != nil {
		return err
	}
	dst, err := checkDir("target", c.Target, unix.W_OK|unix.X_OK)
	if err != nil {
		return err
	}
	if within(src, dst) || within(dst, src) {
		return fmt.Errorf("%w: source %s and target %s overlap", ErrInvalid, src, dst)
	}
	return nil
}

func checkDir(name, path string, mode uint32) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrInvalid, name, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s %s is not a directory", ErrInvalid, name, abs)
	}
	if err := unix.Access(abs, mode); err != nil {
		return "", fmt.Errorf("%w: %s %s is not accessible: %w", ErrInvalid, name, abs, err)
	}
	return abs, nil
}

// within reports whether path equals root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
