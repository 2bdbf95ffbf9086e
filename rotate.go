package logease

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// rotatedPath inserts a 1-based index before the extension of path:
// app.log -> app.1.log, app -> app.1.
func rotatedPath(path string, index int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "." + strconv.Itoa(index) + ext
}

// rotateFiles shifts the backup chain of path by one and moves the active file to
// index 1. With count files in rotation, backups 1..count-1 are kept and the oldest
// one (count-1) is deleted to make room.
func rotateFiles(path string, count int) error {
	last := count - 1
	for index := last; index >= 1; index-- {
		old := rotatedPath(path, index)
		if _, err := os.Stat(old); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "stat %s", old)
		}

		if index == last {
			if err := os.Remove(old); err != nil {
				return errors.Wrapf(err, "remove %s", old)
			}
			continue
		}

		next := rotatedPath(path, index+1)
		if err := os.Rename(old, next); err != nil {
			return errors.Wrapf(err, "rename %s to %s", old, next)
		}
	}

	first := rotatedPath(path, 1)
	if err := os.Rename(path, first); err != nil {
		return errors.Wrapf(err, "rename %s to %s", path, first)
	}
	return nil
}
