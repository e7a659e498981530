package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/common"
	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/types"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataDir = "/data"

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) result {
	t.Helper()

	root := newRootCmd(fs)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(dataDir, 0o755))
	for _, name := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, name), nil, 0o644))
	}
	return fs
}

func TestListCommand(t *testing.T) {
	fs := memFs(t, "b.txt", "a.txt")
	require.NoError(t, fs.Mkdir(filepath.Join(dataDir, "sub"), 0o755))

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "list")
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt\nb.txt\n", res.stdout)

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "list", "--count")
	require.NoError(t, res.err)
	assert.Equal(t, "2\n", res.stdout)

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "list", "--unsorted")
	require.NoError(t, res.err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, strings.Fields(res.stdout))
}

func TestListEmpty(t *testing.T) {
	res := execute(t, memFs(t), "", "--strict", "--dir", dataDir, "list")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No files found in "+dataDir)
}

func TestStrictRejectsMissingDirectory(t *testing.T) {
	res := execute(t, memFs(t), "", "--strict", "--dir", "/missing", "list")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, common.ErrNotFound)
}

func TestAddCommand(t *testing.T) {
	fs := memFs(t, "old.txt")

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "add", "new.txt", "old.txt")
	assert.ErrorIs(t, res.err, common.ErrAlreadyExists)
	assert.Contains(t, res.stdout, "new.txt: created")
	assert.Contains(t, res.stdout, "old.txt: already exists")

	exists, err := afero.Exists(fs, filepath.Join(dataDir, "new.txt"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAddRejectsInvalidName(t *testing.T) {
	fs := memFs(t)

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "add", "CON")
	assert.ErrorIs(t, res.err, common.ErrInvalidName)
	assert.Contains(t, res.stderr, "suggestion: CON.txt")

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "--allowed-ext", "txt", "add", "data.csv")
	assert.ErrorIs(t, res.err, common.ErrInvalidName)
	assert.Contains(t, res.err.Error(), "extension must be one of txt")
}

func TestDeleteCommand(t *testing.T) {
	fs := memFs(t, "a.txt", "b.txt")

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "delete", "--yes", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt: deleted\n", res.stdout)

	res = execute(t, fs, "n\n", "--strict", "--dir", dataDir, "delete", "b.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "b.txt: skipped")
	assert.Contains(t, res.stderr, "Delete 'b.txt'? (y/n): ")

	res = execute(t, fs, "y\n", "--strict", "--dir", dataDir, "delete", "B.txt")
	assert.ErrorIs(t, res.err, common.ErrNotFound)

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "delete", "-y", "../b.txt")
	assert.ErrorIs(t, res.err, common.ErrInvalidName)

	exists, err := afero.Exists(fs, filepath.Join(dataDir, "b.txt"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSearchCommand(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, "report.txt"), make([]byte, 2048), 0o644))

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "search", "report.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Size: 2.00 KB")
	assert.Contains(t, res.stdout, "Path: "+filepath.Join(dataDir, "report.txt"))

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "search", "--json", "report.txt")
	require.NoError(t, res.err)
	var entry types.FileEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entry))
	assert.Equal(t, "report.txt", entry.Name)
	assert.Equal(t, int64(2048), entry.Size)
	assert.True(t, entry.Writable)

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "search", "Report.txt")
	assert.ErrorIs(t, res.err, common.ErrNotFound)
}

func TestFindCommand(t *testing.T) {
	fs := memFs(t, "app.log", "error.LOG", "readme.txt")

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "find", "log")
	require.NoError(t, res.err)
	assert.ElementsMatch(t, []string{"app.log", "error.LOG"}, strings.Fields(res.stdout))
}

func TestSuggestCommand(t *testing.T) {
	fs := memFs(t)

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "suggest", "a/b")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "invalid: Filename contains invalid characters")
	assert.Contains(t, res.stdout, "suggestion: a_b.txt")

	res = execute(t, fs, "", "--strict", "--dir", dataDir, "suggest", "fine.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "valid\n", res.stdout)
}

func TestRootRunsShell(t *testing.T) {
	res := execute(t, memFs(t, "a.txt"), "1\n3\n", "--strict", "--dir", dataDir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1. a.txt")
	assert.Contains(t, res.stdout, "Thank you for using LockedMe.com!")
}

func TestConfigFileAndEnvironment(t *testing.T) {
	fs := memFs(t, "a.txt")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("directory: /data\nstrictDirectory: true\n"), 0o644))

	res := execute(t, fs, "", "--config", cfgPath, "list")
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt\n", res.stdout)

	t.Setenv("LOCKEDME_DIRECTORY", dataDir)
	t.Setenv("LOCKEDME_STRICTDIRECTORY", "true")
	res = execute(t, fs, "", "list", "--count")
	require.NoError(t, res.err)
	assert.Equal(t, "1\n", res.stdout)
}

func TestLogsGoToStderr(t *testing.T) {
	res := execute(t, memFs(t), "", "--strict", "--dir", dataDir, "--log-level", "debug", "--log-format", "json", "add", "x.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "x.txt: created\n", res.stdout)
	assert.Contains(t, res.stderr, `"message":"File created"`)
}

func TestApplicationLogsBeforeConfigLoads(t *testing.T) {
	app := newApplication(afero.NewMemMapFs())
	assert.Equal(t, zerolog.WarnLevel, app.logger.GetLevel())
}

func TestSearchShowsModificationTime(t *testing.T) {
	fs := memFs(t, "a.txt")
	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	require.NoError(t, fs.Chtimes(filepath.Join(dataDir, "a.txt"), stamp, stamp))

	res := execute(t, fs, "", "--strict", "--dir", dataDir, "search", "a.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Last Modified: 2024-05-06 07:08:09")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	res := execute(t, afero.NewMemMapFs(), "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "LockedMe.com 1.2.3 (commit abc123, built today)\n", res.stdout)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewDirectoryWatcher(t *testing.T) {
	w, err := newDirectoryWatcher(4, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	assert.NoError(t, w.Close())

	_, open := <-w.Events()
	assert.False(t, open)
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()

	root := newRootCmd(afero.NewOsFs())
	out, errOut := &syncBuffer{}, &syncBuffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs([]string{"--strict", "--dir", dir, "watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "Watching")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "create notes.txt")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
