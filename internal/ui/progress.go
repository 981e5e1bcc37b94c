package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/sightsync/internal/event"
	"github.com/bamsammich/sightsync/internal/stats"
)

// progressPresenter prints a periodic progress line, plus one line per
// failed action and on abort.
type progressPresenter struct {
	w        io.Writer
	stats    stats.Reader
	interval time.Duration
	width    int
	theme    theme
	total    int64
}

func (p *progressPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.printProgress()
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *progressPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.ScanComplete:
		p.total = ev.Total
		fmt.Fprintf(p.w, "found %s files\n", p.theme.render(p.theme.num, FormatCount(ev.Total)))
	case event.ProcessFailed, event.DeleteFailed:
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s %s  %s\n", p.theme.render(p.theme.err, "✗"),
			p.theme.render(p.theme.path, ev.Path), msg)
	case event.RunAborted:
		fmt.Fprintf(p.w, "%s %s\n", p.theme.render(p.theme.err, "aborted at"),
			p.theme.render(p.theme.path, ev.Path))
	}
}

func (p *progressPresenter) printProgress() {
	snap := p.stats.Snapshot()
	total := max(p.total, snap.FilesTotal)

	if total > 0 {
		frac := float64(snap.FilesInspected) / float64(total)
		var eta time.Duration
		if snap.FilesInspected > 0 && frac < 1 {
			eta = time.Duration(float64(snap.Elapsed) / frac * (1 - frac))
		}
		line := fmt.Sprintf("progress: %3.0f%%", frac*100)
		if p.width > 0 {
			line += " " + p.theme.render(p.theme.ok, ProgressBar(frac, p.width))
		}
		var rate float64
		if secs := snap.Elapsed.Seconds(); secs > 0 {
			rate = float64(snap.BytesInspected) / secs
		}
		fmt.Fprintf(p.w, "%s %s/%s files  %s inspected (%s)  %s failed  eta %s\n",
			line,
			FormatCount(snap.FilesInspected), FormatCount(total),
			FormatBytes(snap.BytesInspected), FormatRate(rate),
			p.theme.failures(snap.Failed()),
			FormatETA(eta),
		)
		return
	}
	fmt.Fprintf(p.w, "progress: %s files  %s inspected\n",
		FormatCount(snap.FilesInspected), FormatBytes(snap.BytesInspected))
}

func (p *progressPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
