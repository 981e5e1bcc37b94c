// Package event defines the per-file events a sync pass emits.
package event

import (
	"log/slog"
	"time"
)

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	FileInspected
	FileProcessed
	ProcessFailed
	FileDeleted
	DeleteFailed
	RunAborted
)

var typeNames = [...]string{
	ScanStarted:   "ScanStarted",
	ScanComplete:  "ScanComplete",
	FileInspected: "FileInspected",
	FileProcessed: "FileProcessed",
	ProcessFailed: "ProcessFailed",
	FileDeleted:   "FileDeleted",
	DeleteFailed:  "DeleteFailed",
	RunAborted:    "RunAborted",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress event from the engine.
type Event struct {
	Timestamp time.Time
	Error     error
	Path      string // relative to the source root
	Type      Type
	Size      int64 // source file size
	Delta     int64 // bytes reclaimed by FileProcessed
	Total     int64 // discovered files (ScanComplete)
}

// LogAttrs renders the event as structured log attributes.
func (e Event) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.Time("ts", e.Timestamp),
	}
	if e.Path != "" {
		attrs = append(attrs, slog.String("path", e.Path), slog.Int64("size", e.Size))
	}
	if e.Delta != 0 {
		attrs = append(attrs, slog.Int64("reclaimed", e.Delta))
	}
	if e.Type == ScanComplete {
		attrs = append(attrs, slog.Int64("total", e.Total))
	}
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}
	return attrs
}
