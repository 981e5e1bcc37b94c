package engine

import "time"

const day = 24 * time.Hour

// Facts are the filesystem observations for one source file.
type Facts struct {
	Now           time.Time
	SourceModTime time.Time
	TargetModTime time.Time
	TargetExists  bool
}

// Policy holds the run-wide switches that drive decisions.
type Policy struct {
	OlderThan   int // days
	CopyFiles   bool
	DeleteFiles bool
}

// Classification is the decision made for one source file.
type Classification struct {
	Age     time.Duration
	AgeDays int
	// Copied: the target exists.
	Copied bool
	// Updated: the source was modified after the target, so the target is
	// stale.
	Updated bool
	// Old: the source is at least OlderThan whole days old.
	Old           bool
	ShouldProcess bool
	ShouldDelete  bool
}

// Classify decides what to do with a source file. A missing target is
// always processed; a stale one only when copying is enabled. Deletion
// needs an old source, an existing target and deletion enabled.
func Classify(f Facts, p Policy) Classification {
	age := f.Now.Sub(f.SourceModTime)
	c := Classification{
		Age:     age,
		AgeDays: AgeDays(age),
		Copied:  f.TargetExists,
	}
	if c.Copied {
		c.Updated = age < f.Now.Sub(f.TargetModTime)
	}
	c.Old = c.AgeDays >= p.OlderThan
	c.ShouldProcess = !c.Copied || (c.Updated && p.CopyFiles)
	c.ShouldDelete = c.Old && c.Copied && p.DeleteFiles
	return c
}

// AgeDays returns the number of whole days in age, rounded toward negative
// infinity so a file modified in the future is -1 days old.
func AgeDays(age time.Duration) int {
	days := age / day
	if age < 0 && age%day != 0 {
		days--
	}
	return int(days)
}
