package ui

import (
	"io"
	"time"

	"github.com/bamsammich/sightsync/internal/event"
	"github.com/bamsammich/sightsync/internal/stats"
)

// Presenter consumes engine events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final one-line summary.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer   io.Writer
	Stats    stats.Reader
	Interval time.Duration // progress line period; default 5s
	Width    int           // progress bar width; 0 hides the bar
	Progress bool
	Quiet    bool
	Color    bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet || !cfg.Progress {
		return &quietPresenter{stats: cfg.Stats}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &progressPresenter{
		w:        cfg.Writer,
		stats:    cfg.Stats,
		interval: interval,
		width:    cfg.Width,
		theme:    newTheme(cfg.Writer, cfg.Color),
	}
}
