//go:build !darwin

package platform

func cloneFile(_, _ string) (CopyResult, bool, error) {
	return CopyResult{}, false, nil
}
