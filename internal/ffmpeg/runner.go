package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

var (
	// ErrEncoderFailed matches any non-zero encoder exit.
	ErrEncoderFailed = errors.New("encoder failed")
	// ErrEncoderNotFound is returned when the encoder binary cannot be started.
	ErrEncoderNotFound = errors.New("encoder not found")
)

// ExitError reports a non-zero encoder exit status.
type ExitError struct {
	Code   int
	Stderr string // tail of the encoder's stderr
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encoder exited with status %d", e.Code)
	}
	return fmt.Sprintf("encoder exited with status %d: %s", e.Code, e.Stderr)
}

func (*ExitError) Unwrap() error { return ErrEncoderFailed }

// Runner executes an encoder argument vector synchronously.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs the encoder as a child process. Stderr, when set, receives
// the encoder's stderr as it is produced.
type ExecRunner struct {
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: empty command", ErrEncoderNotFound)
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: tail(stderrBuf.String(), 3)}
	}
	// Start failures never unwrap to fs.ErrNotExist; that is reserved for
	// a vanished source file.
	return fmt.Errorf("%w: %s: %v", ErrEncoderNotFound, args[0], err)
}

// tail returns the last n non-empty lines of s joined by "; ".
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(out) < n; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			out = append(out, l)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return strings.Join(out, "; ")
}
