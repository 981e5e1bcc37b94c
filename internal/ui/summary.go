package ui

import (
	"fmt"

	"github.com/bamsammich/sightsync/internal/stats"
)

// SummaryOptions controls how the end-of-run report is worded.
type SummaryOptions struct {
	RunID string
	// Copied and Deleted report whether the actions executed, which
	// selects "copied" over "to copy" and "deleted" over "to delete".
	Copied  bool
	Deleted bool
	DryRun  bool
	Verify  bool
	Aborted bool
	Color   bool
}

// Summary renders the end-of-run report, one line per element.
func Summary(snap stats.Snapshot, opts SummaryOptions) []string {
	t := theme{}
	if opts.Color {
		t = newTheme(nil, true)
	}

	copyVerb, deleteVerb := "to copy", "to delete"
	if opts.Copied {
		copyVerb = "copied"
	}
	if opts.Deleted {
		deleteVerb = "deleted"
	}

	lines := []string{
		fmt.Sprintf("%s files (%s) inspected",
			t.render(t.num, FormatCount(snap.FilesInspected)), FormatBytes(snap.BytesInspected)),
		fmt.Sprintf("  - %s (%s) %s (%s failed)",
			t.render(t.num, FormatCount(snap.FilesProcessed)), FormatBytes(snap.BytesProcessed),
			copyVerb, t.failures(snap.ProcessFailed)),
		fmt.Sprintf("     - %s reclaimed by re-encoding", t.render(t.num, FormatBytes(snap.BytesReclaimed))),
		fmt.Sprintf("  - %s (%s) %s (%s failed)",
			t.render(t.num, FormatCount(snap.FilesDeleted)), FormatBytes(snap.BytesDeleted),
			deleteVerb, t.failures(snap.DeleteFailed)),
	}
	if opts.Verify {
		lines = append(lines, fmt.Sprintf("  - %s verified (%s mismatched)",
			t.render(t.num, FormatCount(snap.FilesVerified)), t.failures(snap.VerifyFailed)))
	}
	if opts.DryRun {
		lines = append(lines, fmt.Sprintf("This was a %s, no files were actually copied or deleted",
			t.render(t.warn, "dry run")))
	}
	if opts.Aborted {
		lines = append(lines, t.render(t.err, "Run aborted before all files were inspected"))
	}

	finished := "Finished in " + FormatDuration(snap.Elapsed)
	if opts.RunID != "" {
		finished += " (run " + opts.RunID + ")"
	}
	return append(lines, finished)
}

// CompletionSummary builds a one-line summary from a snapshot.
// Format: done ✓  inspected 2  processed 2  deleted 0  reclaimed 146 KiB  time 3s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.Failed() > 0 || snap.VerifyFailed > 0 {
		icon = "✗"
	}
	return fmt.Sprintf("done %s  inspected %s  processed %s  deleted %s  reclaimed %s  time %s  errors %d",
		icon,
		FormatCount(snap.FilesInspected),
		FormatCount(snap.FilesProcessed),
		FormatCount(snap.FilesDeleted),
		FormatBytes(snap.BytesReclaimed),
		FormatDuration(snap.Elapsed),
		snap.Failed(),
	)
}
