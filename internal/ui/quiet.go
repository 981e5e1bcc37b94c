package ui

import (
	"github.com/bamsammich/sightsync/internal/event"
	"github.com/bamsammich/sightsync/internal/stats"
)

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats stats.Reader
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
		// Drain; the log already carries every decision.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	if p.stats == nil {
		return ""
	}
	return CompletionSummary(p.stats.Snapshot())
}
