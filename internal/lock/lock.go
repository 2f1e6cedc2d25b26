// Package lock serialises plan commits across processes with a lockfile holding the
// owner's PID. A lockfile whose process is gone, or is no longer traffic, is stale and
// gets taken over.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid

	ErrLocked = errors.New("another traffic process is committing")
)

type Lock struct {
	path string
}

// Path returns the commit lockfile inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.CommitLockfileName)
}

// Acquire takes the lockfile at path or returns ErrLocked if a live traffic process holds it.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", getpidFunc(), time.Now().UTC().Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("writing lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lockfile: %w", err)
		}

		holder, alive := holderAlive(path)
		if alive {
			return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrLocked, holder, path)
		}
		logger.Warn("Removing stale commit lockfile", "path", path, "pid", holder)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w (lockfile %s keeps reappearing)", ErrLocked, path)
}

// holderAlive reads the PID from the lockfile and reports whether it still belongs to a
// running traffic process. Unreadable lockfiles count as stale.
func holderAlive(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.SplitN(strings.TrimSpace(string(content)), "|", 2)[0])
	if err != nil {
		return 0, false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
