//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// copyData tries copy_file_range, then sendfile, then a buffered copy,
// falling through on unsupported or cross-device errors.
func copyData(dst, src *os.File, size int64) (CopyResult, error) {
	res, err := copyFileRange(dst, src, size)
	if err == nil || res.BytesWritten > 0 || !isFallbackErr(err) {
		return res, err
	}

	res, err = copySendfile(dst, src, size)
	if err == nil || res.BytesWritten > 0 || !isFallbackErr(err) {
		return res, err
	}

	return copyReadWrite(dst, src)
}

//nolint:gosec // G115: fd values are small non-negative integers
func copyFileRange(dst, src *os.File, size int64) (CopyResult, error) {
	var roff, woff int64
	res := CopyResult{Method: CopyFileRange}
	for remaining := size; remaining > 0; {
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		res.BytesWritten += int64(n)
	}
	return res, nil
}

//nolint:gosec // G115: fd values are small non-negative integers
func copySendfile(dst, src *os.File, size int64) (CopyResult, error) {
	var offset int64
	res := CopyResult{Method: Sendfile}
	for remaining := size; remaining > 0; {
		n, err := unix.Sendfile(int(dst.Fd()), int(src.Fd()), &offset, int(remaining))
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		res.BytesWritten += int64(n)
	}
	return res, nil
}

// isFallbackErr reports whether err should move on to the next strategy.
func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}
