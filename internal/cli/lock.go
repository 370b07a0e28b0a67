package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// runLock is a PID file held while a command drives the Chrome profile.
// Chrome refuses a profile that is already open, so overlapping runs would
// only fail later with a confusing launch error.
type runLock struct {
	path string
}

// lockGrace is how long an unreadable lock file is assumed to belong to a run
// that has created it but not yet written its PID
const lockGrace = 10 * time.Second

// acquireRunLock creates path exclusively and writes our PID to it. A file
// left by a crashed run, or one holding garbage past lockGrace, is taken over.
func acquireRunLock(path string) (*runLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	err := createLockFile(path)
	if errors.Is(err, os.ErrExist) {
		if err := checkHeld(path); err != nil {
			return nil, err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
		err = createLockFile(path)
	}
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("another run is in progress (lock %s)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return &runLock{path: path}, nil
}

func createLockFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// checkHeld returns an error when the existing lock file still belongs to a run
func checkHeld(path string) error {
	pid, err := readPID(path)
	if err == nil {
		if processAlive(pid) {
			return fmt.Errorf("another run is in progress (PID %d, lock %s)", pid, path)
		}
		return nil
	}

	if age, ok := lockAge(path); ok && age < lockGrace {
		return fmt.Errorf("another run is in progress (lock %s)", path)
	}
	return nil
}

// Release removes the PID file
func (l *runLock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// readPID reads the PID stored in a lock file
func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID file %s", path)
	}
	return pid, nil
}

// runningPID reports the PID in the lock file if that process is alive
func runningPID(path string) (int, bool) {
	pid, err := readPID(path)
	if err != nil {
		return 0, false
	}
	return pid, processAlive(pid)
}

// processAlive probes a PID with signal 0
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// lockAge returns how long the lock file has existed
func lockAge(path string) (time.Duration, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
