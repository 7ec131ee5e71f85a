package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var ErrAlreadyRunning = errors.New("pidfile: already running")

// CreatePidFile claims path for this process. A file left behind by a
// process that is gone is overwritten.
func CreatePidFile(path string) error {
	if pidBytes, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
		if err == nil && pid != os.Getpid() && alive(pid) {
			return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("pidfile: could not write pid file: %w", err)
	}

	return nil
}

func RemovePidFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("pidfile: could not remove pid file: %w", err)
	}
	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// signal 0 only checks for existence
	return process.Signal(syscall.Signal(0)) == nil
}
