// Package avi repairs a known-bad pixel format tag in legacy AVI headers.
package avi

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// HeaderOffset is the byte offset of the stream pixel format tag.
const HeaderOffset = 188

var (
	// FaultyTag is written by some capture firmware for 8-bit grayscale
	// streams. Decoders read it as 16-bit and produce garbage.
	FaultyTag = []byte("Y16 ")
	// FixedTag is the correct FourCC for 8-bit grayscale.
	FixedTag = []byte("Y800")
)

// PatchHeader inspects the 4 bytes at HeaderOffset in path. If they hold
// FaultyTag it logs a warning and, when write is set, overwrites them in
// place with FixedTag. It reports whether the faulty tag was found.
//
// Files shorter than HeaderOffset+4 bytes are left alone.
func PatchHeader(path string, write bool, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tag := make([]byte, len(FaultyTag))
	n, err := f.ReadAt(tag, HeaderOffset)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read header %s: %w", path, err)
	}
	if n < len(tag) || !bytes.Equal(tag, FaultyTag) {
		return false, nil
	}

	if !write {
		logger.Warn("video header is Y16, not correcting", "path", path)
		return true, nil
	}

	logger.Warn("video header is Y16, correcting to Y800", "path", path)
	if _, err := f.WriteAt(FixedTag, HeaderOffset); err != nil {
		return true, fmt.Errorf("patch header %s: %w", path, err)
	}
	return true, f.Close()
}
