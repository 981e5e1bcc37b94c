// Package ffmpeg builds and runs the encoder command used to re-encode
// legacy AVI captures.
package ffmpeg

import (
	"fmt"
	"strings"
)

// Codec is an ffmpeg video encoder name.
type Codec string

const (
	// Raw stores frames uncompressed.
	Raw Codec = "rawvideo"
	// H264 is libx264 forced into lossless mode with -qp 0.
	H264 Codec = "libx264"
	// FFV1 is the lossless archival codec.
	FFV1 Codec = "ffv1"
)

var codecs = []Codec{Raw, H264, FFV1}

// Codecs returns the supported codecs.
func Codecs() []Codec {
	return append([]Codec(nil), codecs...)
}

// ParseCodec validates a codec name.
func ParseCodec(s string) (Codec, error) {
	for _, c := range codecs {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown codec %q (want one of %s)", s, joinNames(codecs))
}

// PixelFormat is an ffmpeg -pix_fmt value.
type PixelFormat string

const (
	RGBA PixelFormat = "rgba"
	Gray PixelFormat = "gray"
)

var pixelFormats = []PixelFormat{RGBA, Gray}

// ParsePixelFormat validates a pixel format name.
func ParsePixelFormat(s string) (PixelFormat, error) {
	for _, p := range pixelFormats {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pixel format %q (want one of %s)", s, joinNames(pixelFormats))
}

func joinNames[T ~string](vals []T) string {
	names := make([]string, len(vals))
	for i, v := range vals {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
