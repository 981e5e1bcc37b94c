package engine

import (
	"context"
	"errors"
	"io/fs"
)

// Outcome is the result of handling one file.
type Outcome int

const (
	// OutcomeOK means every requested action succeeded.
	OutcomeOK Outcome = iota
	// OutcomeRecoverable means an action failed; the pass continues.
	OutcomeRecoverable
	// OutcomeFatal stops the pass.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRecoverable:
		return "recoverable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// OutcomeOf maps an action error to an Outcome. A file that disappeared
// mid-run is fatal, as is cancellation; any other error is recoverable.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeFatal
	default:
		return OutcomeRecoverable
	}
}
