package platform

import (
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies from the start of src to the start of dst through a
// pooled buffer.
func copyReadWrite(dst, src *os.File) (CopyResult, error) {
	res := CopyResult{Method: ReadWrite}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return res, err
	}
	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return res, err
	}

	bufp := bufPool.Get().(*[]byte) //nolint:forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)

	// Hide ReadFrom/WriteTo so io.CopyBuffer really uses the buffer.
	n, err := io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, *bufp)
	res.BytesWritten = n
	return res, err
}
