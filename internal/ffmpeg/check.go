package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Info describes a usable encoder binary.
type Info struct {
	Path    string
	Version string
}

// Check resolves bin and verifies it can encode with codec.
func Check(ctx context.Context, bin string, codec Codec) (Info, error) {
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrEncoderNotFound, bin, err)
	}
	info := Info{Path: path}

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return info, fmt.Errorf("%s -version: %w", path, err)
	}
	info.Version = firstLine(string(out))

	out, err = exec.CommandContext(ctx, path, "-hide_banner", "-encoders").Output()
	if err != nil {
		return info, fmt.Errorf("%s -encoders: %w", path, err)
	}
	if !hasEncoder(string(out), codec) {
		return info, fmt.Errorf("%w: %s does not provide encoder %s", ErrEncoderNotFound, path, codec)
	}
	return info, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// hasEncoder scans `ffmpeg -encoders` output, whose rows look like
// " V....D ffv1                 FFmpeg video codec #1".
func hasEncoder(out string, codec Codec) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == string(codec) {
			return true
		}
	}
	return false
}
