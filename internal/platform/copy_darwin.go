//go:build darwin

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// cloneFile makes a copy-on-write clone of src at dst when the filesystem
// supports it. ok is false when the caller should copy the data itself.
func cloneFile(src, dst string) (CopyResult, bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return CopyResult{}, false, err
	}
	err = unix.Clonefile(src, dst, unix.CLONE_NOFOLLOW)
	if err == nil {
		return CopyResult{BytesWritten: info.Size(), Method: Clonefile}, true, nil
	}
	if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EXDEV) {
		return CopyResult{}, false, nil
	}
	return CopyResult{}, false, &os.PathError{Op: "clonefile", Path: dst, Err: err}
}

func copyData(dst, src *os.File, _ int64) (CopyResult, error) {
	return copyReadWrite(dst, src)
}
