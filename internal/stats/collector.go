// Package stats holds the run-wide counters of a sync pass.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks run counters using lock-free atomic counters. Counters
// only ever grow, except reclaimed bytes, which accumulates signed deltas.
type Collector struct {
	filesTotal     atomic.Int64
	filesInspected atomic.Int64
	bytesInspected atomic.Int64
	filesProcessed atomic.Int64
	bytesProcessed atomic.Int64
	bytesReclaimed atomic.Int64
	processFailed  atomic.Int64
	filesDeleted   atomic.Int64
	bytesDeleted   atomic.Int64
	deleteFailed   atomic.Int64
	filesVerified  atomic.Int64
	verifyFailed   atomic.Int64
	startTime      time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Reader exposes read-only access to a Collector.
type Reader interface {
	Snapshot() Snapshot
}

// SetFilesTotal records the number of discovered files.
func (c *Collector) SetFilesTotal(n int64) { c.filesTotal.Store(n) }

func (c *Collector) AddFilesInspected(n int64) { c.filesInspected.Add(n) }
func (c *Collector) AddBytesInspected(n int64) { c.bytesInspected.Add(n) }
func (c *Collector) AddFilesProcessed(n int64) { c.filesProcessed.Add(n) }
func (c *Collector) AddBytesProcessed(n int64) { c.bytesProcessed.Add(n) }
func (c *Collector) AddBytesReclaimed(n int64) { c.bytesReclaimed.Add(n) }
func (c *Collector) AddProcessFailed(n int64)  { c.processFailed.Add(n) }
func (c *Collector) AddFilesDeleted(n int64)   { c.filesDeleted.Add(n) }
func (c *Collector) AddBytesDeleted(n int64)   { c.bytesDeleted.Add(n) }
func (c *Collector) AddDeleteFailed(n int64)   { c.deleteFailed.Add(n) }
func (c *Collector) AddFilesVerified(n int64)  { c.filesVerified.Add(n) }
func (c *Collector) AddVerifyFailed(n int64)   { c.verifyFailed.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesTotal     int64
	FilesInspected int64
	BytesInspected int64
	FilesProcessed int64
	BytesProcessed int64
	BytesReclaimed int64
	ProcessFailed  int64
	FilesDeleted   int64
	BytesDeleted   int64
	DeleteFailed   int64
	FilesVerified  int64
	VerifyFailed   int64
	Elapsed        time.Duration
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesTotal:     c.filesTotal.Load(),
		FilesInspected: c.filesInspected.Load(),
		BytesInspected: c.bytesInspected.Load(),
		FilesProcessed: c.filesProcessed.Load(),
		BytesProcessed: c.bytesProcessed.Load(),
		BytesReclaimed: c.bytesReclaimed.Load(),
		ProcessFailed:  c.processFailed.Load(),
		FilesDeleted:   c.filesDeleted.Load(),
		BytesDeleted:   c.bytesDeleted.Load(),
		DeleteFailed:   c.deleteFailed.Load(),
		FilesVerified:  c.filesVerified.Load(),
		VerifyFailed:   c.verifyFailed.Load(),
		Elapsed:        c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Failed returns the total number of failed process and delete actions.
func (s Snapshot) Failed() int64 {
	return s.ProcessFailed + s.DeleteFailed
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"inspected=%d/%dB processed=%d/%dB reclaimed=%dB deleted=%d/%dB failed=%d+%d",
		s.FilesInspected, s.BytesInspected,
		s.FilesProcessed, s.BytesProcessed,
		s.BytesReclaimed,
		s.FilesDeleted, s.BytesDeleted,
		s.ProcessFailed, s.DeleteFailed,
	)
}
