package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTmpFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept")
	dropped := filepath.Join(dir, "dropped")
	require.NoError(t, os.WriteFile(kept, nil, 0o644))
	require.NoError(t, os.WriteFile(dropped, nil, 0o644))

	RegisterTmp(kept)
	RegisterTmp(dropped)
	DeregisterTmp(kept)

	assert.Equal(t, 1, CleanupTmpFiles())
	assert.FileExists(t, kept)
	assert.NoFileExists(t, dropped)
	assert.Zero(t, CleanupTmpFiles())
}

func TestTmpName(t *testing.T) {
	got := tmpName(filepath.Join("/mirror", "2024", "b.txt"))
	assert.Equal(t, filepath.Join("/mirror", "2024"), filepath.Dir(got))

	base := filepath.Base(got)
	assert.True(t, strings.HasPrefix(base, ".b.txt."), base)
	assert.True(t, strings.HasSuffix(base, ".sightsync-tmp"), base)
	assert.Len(t, base, len(".b.txt.")+8+len(".sightsync-tmp"))
	assert.NotEqual(t, got, tmpName(filepath.Join("/mirror", "2024", "b.txt")))
}
