package processor_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sightsync/internal/ffmpeg"
	"github.com/bamsammich/sightsync/internal/processor"
	"github.com/bamsammich/sightsync/internal/stats"
)

type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, args []string) error {
	f.calls = append(f.calls, args)
	return os.WriteFile(args[len(args)-1], []byte("encoded"), 0o644)
}

func newProcessor(t *testing.T, cfg processor.Config) (*processor.Processor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return processor.New(cfg), &logs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, processor.DryRun, processor.ModeFor(false, false))
	assert.Equal(t, processor.RealRun, processor.ModeFor(true, false))
	assert.Equal(t, processor.RealRun, processor.ModeFor(false, true))
	assert.Equal(t, processor.RealRun, processor.ModeFor(true, true))
	assert.Equal(t, "dry run", processor.DryRun.String())
	assert.Equal(t, "real run", processor.RealRun.String())
}

func TestCopy_RealRun(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "b.txt")
	writeFile(t, src, "sighting notes")
	dstRoot := t.TempDir()
	dst := filepath.Join(dstRoot, "2024", "03", "b.txt")

	p, logs := newProcessor(t, processor.Config{Mode: processor.RealRun, CopyFiles: true})
	n, err := p.Copy(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "sighting notes", string(got))
	assert.Contains(t, logs.String(), "msg=copying")

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
}

func TestCopy_OverwritesTarget(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "b.txt")
	dst := filepath.Join(t.TempDir(), "b.txt")
	writeFile(t, src, "new")
	writeFile(t, dst, "old and longer")

	p, _ := newProcessor(t, processor.Config{Mode: processor.RealRun, CopyFiles: true})
	_, err := p.Copy(context.Background(), src, dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopy_Gated(t *testing.T) {
	t.Parallel()

	for _, cfg := range []processor.Config{
		{Mode: processor.DryRun, CopyFiles: true},
		{Mode: processor.RealRun, CopyFiles: false, DeleteFiles: true},
	} {
		src := filepath.Join(t.TempDir(), "b.txt")
		writeFile(t, src, "x")
		dstRoot := t.TempDir()

		p, logs := newProcessor(t, cfg)
		assert.False(t, p.Copying())
		n, err := p.Copy(context.Background(), src, filepath.Join(dstRoot, "sub", "b.txt"))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Contains(t, logs.String(), "would copy")

		entries, err := os.ReadDir(dstRoot)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestCopy_MissingSource(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(t, processor.Config{Mode: processor.RealRun, CopyFiles: true})
	_, err := p.Copy(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), filepath.Join(t.TempDir(), "gone.txt"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCopy_Verify(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "b.txt")
	writeFile(t, src, strings.Repeat("frame", 1000))
	collector := stats.NewCollector()

	p, logs := newProcessor(t, processor.Config{
		Mode: processor.RealRun, CopyFiles: true, Verify: true, Stats: collector,
	})
	_, err := p.Copy(context.Background(), src, filepath.Join(t.TempDir(), "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), collector.Snapshot().FilesVerified)
	assert.Contains(t, logs.String(), "blake3=")
}

func TestCopy_Canceled(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "b.txt")
	writeFile(t, src, "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := newProcessor(t, processor.Config{Mode: processor.RealRun, CopyFiles: true})
	_, err := p.Copy(ctx, src, filepath.Join(t.TempDir(), "b.txt"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDelete_RealRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "old.avi")
	writeFile(t, path, "12345")

	p, logs := newProcessor(t, processor.Config{Mode: processor.RealRun, DeleteFiles: true})
	n, err := p.Delete(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, logs.String(), "msg=deleting")
}

func TestDelete_Gated(t *testing.T) {
	t.Parallel()

	for _, cfg := range []processor.Config{
		{Mode: processor.DryRun, DeleteFiles: true},
		{Mode: processor.RealRun, CopyFiles: true},
	} {
		path := filepath.Join(t.TempDir(), "old.avi")
		writeFile(t, path, "12345")

		p, logs := newProcessor(t, cfg)
		n, err := p.Delete(context.Background(), path)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.FileExists(t, path)
		assert.Contains(t, logs.String(), "would delete")
	}
}

func TestDelete_Missing(t *testing.T) {
	t.Parallel()

	p, logs := newProcessor(t, processor.Config{Mode: processor.RealRun, DeleteFiles: true})
	_, err := p.Delete(context.Background(), filepath.Join(t.TempDir(), "gone.avi"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotContains(t, logs.String(), "could not delete")
}

func TestDelete_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "locked")
	path := filepath.Join(dir, "old.avi")
	writeFile(t, path, "12345")
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	p, logs := newProcessor(t, processor.Config{Mode: processor.RealRun, DeleteFiles: true})
	_, err := p.Delete(context.Background(), path)
	require.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, logs.String(), "could not delete")
	assert.FileExists(t, path)
}

func TestProcess_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		file      string
		convert   bool
		transcode bool
	}{
		{name: "avi converted", file: "a.avi", convert: true, transcode: true},
		{name: "upper case extension", file: "A.AVI", convert: true, transcode: true},
		{name: "avi copied when conversion off", file: "a.avi", convert: false},
		{name: "text copied", file: "b.txt", convert: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, src, strings.Repeat("x", 300))
			dst := filepath.Join(t.TempDir(), "out", tt.file)
			runner := &fakeRunner{}

			p, _ := newProcessor(t, processor.Config{
				Mode: processor.RealRun, CopyFiles: true, ConvertVideo: tt.convert,
				Codec: ffmpeg.H264, Runner: runner,
			})
			n, err := p.Process(context.Background(), src, dst)
			require.NoError(t, err)

			got, err := os.ReadFile(dst)
			require.NoError(t, err)
			if tt.transcode {
				require.Len(t, runner.calls, 1)
				assert.Contains(t, runner.calls[0], "libx264")
				assert.Contains(t, runner.calls[0], "gray")
				assert.Equal(t, "encoded", string(got))
				assert.Equal(t, int64(300-len("encoded")), n)
			} else {
				assert.Empty(t, runner.calls)
				assert.Len(t, got, 300)
				assert.Zero(t, n)
			}
		})
	}
}

func TestProcess_DryRunTranscode(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "a.avi")
	writeFile(t, src, strings.Repeat("x", 300))
	dstRoot := t.TempDir()
	runner := &fakeRunner{}

	p, logs := newProcessor(t, processor.Config{
		Mode: processor.DryRun, CopyFiles: true, ConvertVideo: true, Runner: runner, FFmpeg: "/usr/bin/ffmpeg",
	})
	n, err := p.Process(context.Background(), src, filepath.Join(dstRoot, "a.avi"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, runner.calls)
	assert.Contains(t, logs.String(), "would run /usr/bin/ffmpeg")
	assert.Contains(t, logs.String(), "-c:v ffv1")

	entries, err := os.ReadDir(dstRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHashFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	writeFile(t, a, "same")
	writeFile(t, b, "same")
	writeFile(t, c, "different")

	ha, err := processor.HashFile(a)
	require.NoError(t, err)
	hb, err := processor.HashFile(b)
	require.NoError(t, err)
	hc, err := processor.HashFile(c)
	require.NoError(t, err)

	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)

	_, err = processor.HashFile(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
