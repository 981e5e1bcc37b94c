package processor

import (
	"os"
	"sync"
)

// tmpFiles tracks in-progress temp files so an interrupted run can remove
// them before exiting.
var tmpFiles = &tmpRegistry{}

type tmpRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// RegisterTmp records a temp file path.
func RegisterTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	if tmpFiles.paths == nil {
		tmpFiles.paths = make(map[string]struct{})
	}
	tmpFiles.paths[path] = struct{}{}
}

// DeregisterTmp forgets a temp file path.
func DeregisterTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	delete(tmpFiles.paths, path)
}

// CleanupTmpFiles removes every registered temp file and returns how many
// were registered.
func CleanupTmpFiles() int {
	tmpFiles.mu.Lock()
	paths := make([]string, 0, len(tmpFiles.paths))
	for p := range tmpFiles.paths {
		paths = append(paths, p)
	}
	tmpFiles.paths = nil
	tmpFiles.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
	return len(paths)
}
