package processor

// Mode selects whether mutating actions execute or are only logged.
type Mode int

const (
	DryRun Mode = iota
	RealRun
)

// ModeFor returns RealRun when at least one kind of action was requested.
func ModeFor(copyFiles, deleteFiles bool) Mode {
	if copyFiles || deleteFiles {
		return RealRun
	}
	return DryRun
}

func (m Mode) String() string {
	if m == RealRun {
		return "real run"
	}
	return "dry run"
}
