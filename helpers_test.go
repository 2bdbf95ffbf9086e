package logease

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// recorder is a Destination keeping every rendered line in memory.
type recorder struct {
	*Base

	mu     sync.Mutex
	events []Event
	lines  []string
}

func newRecorder(opts ...Option) *recorder {
	return &recorder{Base: NewBase(opts...)}
}

func (r *recorder) Emit(e Event) {
	line := r.Render(e)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	r.lines = append(r.lines, line)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
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

// captureDiagnostics redirects the diagnostic channel for the duration of the test.
func captureDiagnostics(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	SetDiagnosticOutput(buf)
	t.Cleanup(func() { SetDiagnosticOutput(os.Stderr) })
	return buf
}

// plain are the options of a destination rendering only "> message".
func plain(opts ...Option) []Option {
	return append([]Option{
		WithTimestamp(false),
		WithLevelTag(false),
		WithFileName(false),
		WithLineNumber(false),
		WithFunction(false),
	}, opts...)
}
