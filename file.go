package logease

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// File destination defaults.
const (
	DefaultMaxFileSize   int64 = 5 * 1024 * 1024
	DefaultRotationCount       = 1
)

// errNoPath is reported when neither an explicit nor a default path could be resolved.
var errNoPath = errors.New("no log file path")

// FileDestination appends rendered lines to a log file and rotates it by size.
//
// Rotation is active only with a RotationCount above 1. Before a write, if the active
// file is larger than MaxFileSize, backups are shifted (app.1.log becomes app.2.log,
// and so on) keeping RotationCount-1 of them, and the active file becomes app.1.log.
type FileDestination struct {
	*Base

	path          string
	maxFileSize   int64
	rotationCount int
	syncWrites    bool

	failures atomic.Uint64
}

// FileOption configures a FileDestination at construction time.
type FileOption func(*FileDestination)

// WithMaxFileSize sets the size in bytes above which the file is rotated.
func WithMaxFileSize(size int64) FileOption {
	return func(f *FileDestination) {
		if size > 0 {
			f.maxFileSize = size
		}
	}
}

// WithRotationCount sets the number of files in rotation, active file included.
// A count of 1 disables rotation.
func WithRotationCount(count int) FileOption {
	return func(f *FileDestination) {
		if count > 0 {
			f.rotationCount = count
		}
	}
}

// WithSyncAfterEachWrite forces the file to stable storage after every line.
func WithSyncAfterEachWrite(sync bool) FileOption {
	return func(f *FileDestination) { f.syncWrites = sync }
}

// WithBase applies destination options to the file destination's Base.
func WithBase(opts ...Option) FileOption {
	return func(f *FileDestination) {
		f.Base = NewBase(opts...)
	}
}

// NewFile creates a file destination writing to path. An empty path resolves to
// DefaultLogPath; if that fails too, the destination reports and drops every event.
func NewFile(path string, opts ...FileOption) *FileDestination {
	f := &FileDestination{
		path:          path,
		maxFileSize:   DefaultMaxFileSize,
		rotationCount: DefaultRotationCount,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Base == nil {
		f.Base = NewBase()
	}
	if f.path == "" {
		p, err := DefaultLogPath()
		if err != nil {
			diagf("file destination %s: %v", f.ID(), err)
		}
		f.path = p
	}
	return f
}

// Path returns the active log file path.
func (f *FileDestination) Path() string { return f.path }

// MaxFileSize returns the rotation threshold in bytes.
func (f *FileDestination) MaxFileSize() int64 { return f.maxFileSize }

// RotationCount returns the number of files in rotation, active file included.
func (f *FileDestination) RotationCount() int { return f.rotationCount }

// SyncAfterEachWrite reports whether every write is flushed to stable storage.
func (f *FileDestination) SyncAfterEachWrite() bool { return f.syncWrites }

// Failures returns the number of events lost to I/O errors.
func (f *FileDestination) Failures() uint64 { return f.failures.Load() }

// Emit renders e and appends it to the file.
func (f *FileDestination) Emit(e Event) {
	f.save(f.Render(e))
}

// Save appends line to the file as Emit does, bypassing rendering.
// It reports whether the line was written.
func (f *FileDestination) Save(line string) bool {
	var ok bool
	f.Serial().Do(func() { ok = f.save(line) })
	return ok
}

// Rotate forces a rotation of the file regardless of its size. It is a no-op when
// rotation is disabled or the file does not exist.
func (f *FileDestination) Rotate() error {
	var err error
	f.Serial().Do(func() {
		if f.rotationCount <= 1 || f.path == "" {
			return
		}
		unlock := lockPath(f.path)
		defer unlock()

		var size int64
		if size, err = fileSize(f.path); err != nil || size == 0 {
			return
		}
		err = rotateFiles(f.path, f.rotationCount)
	})
	return err
}

// DeleteLogFile removes the active log file. It returns true if the file is gone,
// including when it never existed.
func (f *FileDestination) DeleteLogFile() bool {
	ok := true
	f.Serial().Do(func() {
		if f.path == "" {
			return
		}
		unlock := lockPath(f.path)
		defer unlock()

		if err := removeFile(f.path); err != nil {
			diagf("file destination %s: %v", f.ID(), err)
			ok = false
		}
	})
	return ok
}

// save rotates the file when needed and appends line plus a newline. Any failure is
// reported to the diagnostic channel and the line is dropped.
func (f *FileDestination) save(line string) bool {
	if f.path == "" {
		f.fail(errNoPath)
		return false
	}

	unlock := lockPath(f.path)
	defer unlock()

	if f.rotationCount > 1 {
		size, err := fileSize(f.path)
		if err != nil {
			f.fail(err)
			return false
		}
		if size > f.maxFileSize {
			if err := rotateFiles(f.path, f.rotationCount); err != nil {
				f.fail(err)
				return false
			}
		}
	}

	data := make([]byte, 0, len(line)+1)
	data = append(data, line...)
	data = append(data, '\n')
	if err := appendLine(f.path, data, f.syncWrites); err != nil {
		f.fail(err)
		return false
	}
	return true
}

func (f *FileDestination) fail(err error) {
	f.failures.Add(1)
	diagf("file destination %s: %v", f.ID(), err)
}

var _ Destination = (*FileDestination)(nil)
