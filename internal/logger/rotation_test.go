package logger

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotatingWriter(t *testing.T) {
	t.Run("create rotating writer", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "birthdaybot.log")

		rw, err := NewRotatingWriter(logFile, 10, 7, false)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(logFile)
		assert.NoError(t, err)
	})

	t.Run("create directory if not exists", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "birthdaybot.log")

		rw, err := NewRotatingWriter(logFile, 10, 7, false)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(filepath.Dir(logFile))
		assert.NoError(t, err)
	})

	t.Run("appends to existing file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "birthdaybot.log")
		require.NoError(t, os.WriteFile(logFile, []byte("earlier run\n"), 0644))

		rw, err := NewRotatingWriter(logFile, 10, 7, false)
		require.NoError(t, err)
		_, err = rw.Write([]byte("this run\n"))
		require.NoError(t, err)
		require.NoError(t, rw.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Equal(t, "earlier run\nthis run\n", string(content))
	})
}

func TestRotatingWriterWrite(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "birthdaybot.log")

	rw, err := NewRotatingWriter(logFile, 1, 7, false)
	require.NoError(t, err)
	defer rw.Close()

	data := []byte("test log message\n")
	n, err := rw.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test log message")
}

func TestRotatingWriterRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "birthdaybot.log")

	// 0 MB rotates on every write after the first
	rw, err := NewRotatingWriter(logFile, 0, 7, false)
	require.NoError(t, err)

	tick := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rw.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	_, err = rw.Write([]byte(strings.Repeat("a", 200)))
	require.NoError(t, err)
	_, err = rw.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	files, err := filepath.Glob(logFile + ".*")
	require.NoError(t, err)
	require.Len(t, files, 1)

	rotated, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 200), string(rotated))

	current, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(current))
}

func TestRotatingWriterCompressesOnRotate(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "birthdaybot.log")

	rw, err := NewRotatingWriter(logFile, 10, 7, true)
	require.NoError(t, err)

	_, err = rw.Write([]byte("before rotation\n"))
	require.NoError(t, err)
	require.NoError(t, rw.Rotate())
	require.NoError(t, rw.Close())

	files, err := filepath.Glob(logFile + ".*.gz")
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(gzr)
	require.NoError(t, err)
	assert.Equal(t, "before rotation\n", string(content))
}

func TestCompressFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test content"), 0644))

	require.NoError(t, compressFile(testFile))

	_, err := os.Stat(testFile + ".gz")
	assert.NoError(t, err)

	_, err = os.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "birthdaybot.log")

	oldFile := logFile + ".20200101-120000"
	require.NoError(t, os.WriteFile(oldFile, []byte("old log"), 0644))
	oldTime := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	recentFile := logFile + ".20991231-120000"
	require.NoError(t, os.WriteFile(recentFile, []byte("recent log"), 0644))

	rw, err := NewRotatingWriter(logFile, 10, 7, false)
	require.NoError(t, err)
	defer rw.Close()

	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(recentFile)
	assert.NoError(t, err)
}
