package ffmpeg

import (
	"strconv"
	"strings"
)

// ffmpeg numeric log levels.
const (
	LogLevelVerbose = 32 // info
	LogLevelQuiet   = 24 // warning
)

// Command describes one encode.
type Command struct {
	Binary      string
	Input       string
	Output      string
	Codec       Codec
	PixelFormat PixelFormat
	Verbose     bool
}

// Args returns the full argument vector, binary first.
func (c Command) Args() []string {
	level := LogLevelQuiet
	if c.Verbose {
		level = LogLevelVerbose
	}

	args := []string{
		c.Binary,
		"-hide_banner",
		"-y",
		"-i", c.Input,
		"-loglevel", strconv.Itoa(level),
		"-c:v", string(c.Codec),
	}
	// libx264 rate control is lossy unless the quantizer is pinned to zero.
	if c.Codec == H264 {
		args = append(args, "-qp", "0")
	}
	return append(args, "-pix_fmt", string(c.PixelFormat), c.Output)
}

func (c Command) String() string {
	return strings.Join(c.Args(), " ")
}
