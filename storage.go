package logease

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// DefaultLogFileName is the file name used by DefaultLogPath.
const DefaultLogFileName = "logease.log"

// pathLocks maps a cleaned absolute file path to the *sync.Mutex serializing every
// rotation, append and delete on it within the process.
var pathLocks sync.Map

// lockPath acquires the process-wide lock of path and returns its release function.
func lockPath(path string) func() {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	v, _ := pathLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// DefaultLogPath returns <user cache dir>/<executable name>/logease.log, creating the
// application directory. The cache directory itself is used if the application
// directory cannot be created.
func DefaultLogPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve cache directory")
	}

	exe, err := os.Executable()
	if err != nil {
		return filepath.Join(base, DefaultLogFileName), nil
	}
	appDir := filepath.Join(base, filepath.Base(exe))
	if err := os.MkdirAll(appDir, 0755); err != nil {
		diagf("could not create %s: %v", appDir, err)
		return filepath.Join(base, DefaultLogFileName), nil
	}
	return filepath.Join(appDir, DefaultLogFileName), nil
}

// fileSize returns the size of path, treating a missing file as empty.
func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "stat %s", path)
	}
	return fi.Size(), nil
}

// appendLine appends data to path, creating the file and its parent directories when
// missing. With sync set the file is flushed to stable storage before closing.
func appendLine(path string, data []byte, sync bool) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create directory %s", filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if sync {
		if err := f.Sync(); err != nil {
			return errors.Wrapf(err, "sync %s", path)
		}
	}
	return nil
}

// removeFile deletes path. A file that does not exist counts as removed.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}
