//go:build !linux && !darwin

package platform

import "os"

func copyData(dst, src *os.File, _ int64) (CopyResult, error) {
	return copyReadWrite(dst, src)
}
