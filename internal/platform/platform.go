// Package platform copies file contents with the fastest mechanism the
// operating system offers.
package platform

import (
	"fmt"
	"os"
)

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
	Clonefile                // macOS clonefile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	case Clonefile:
		return "clonefile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyFile copies srcPath into a new file at dstPath created with perm.
// dstPath must not exist. On error the partial destination is removed.
func CopyFile(srcPath, dstPath string, perm os.FileMode) (CopyResult, error) {
	if res, ok, err := cloneFile(srcPath, dstPath); ok || err != nil {
		return res, err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return CopyResult{}, err
	}

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return CopyResult{}, err
	}

	preallocate(dst, info.Size())
	res, err := copyData(dst, src, info.Size())
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", dstPath, closeErr)
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return res, err
	}
	return res, nil
}
