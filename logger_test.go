package logease

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "AddDuplicate",
			testFunc: func(t *testing.T) {
				d := newRecorder()
				l := New()

				assert.True(t, l.AddDestination(d))
				assert.False(t, l.AddDestination(d))
				assert.Equal(t, 1, l.Len())
			},
		},
		{
			name: "IdentityByID",
			testFunc: func(t *testing.T) {
				a := newRecorder(WithID("same"), WithLevel(LevelError))
				b := newRecorder(WithID("same"), WithLevel(LevelVerbose))
				l := New(a)

				assert.False(t, l.AddDestination(b), "same id is the same destination")
				assert.Equal(t, 1, l.Len())
				assert.True(t, l.RemoveDestination(b), "removal matches by id")
				assert.Zero(t, l.Len())
			},
		},
		{
			name: "RemoveAbsent",
			testFunc: func(t *testing.T) {
				l := New(newRecorder())

				assert.False(t, l.RemoveDestination(newRecorder()))
				assert.Equal(t, 1, l.Len())
			},
		},
		{
			name: "RemoveAll",
			testFunc: func(t *testing.T) {
				l := New(newRecorder(), newRecorder(), newRecorder())
				require.Equal(t, 3, l.Len())

				l.RemoveAllDestinations()
				assert.Zero(t, l.Len())
				assert.Empty(t, l.Destinations())
			},
		},
		{
			name: "NilIgnored",
			testFunc: func(t *testing.T) {
				l := New()
				assert.False(t, l.AddDestination(nil))
				assert.False(t, l.RemoveDestination(nil))
			},
		},
		{
			name: "GeneratedIDsDiffer",
			testFunc: func(t *testing.T) {
				assert.NotEqual(t, newRecorder().ID(), newRecorder().ID())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	for _, threshold := range allLevels {
		d := newRecorder(WithLevel(threshold), WithAsync(false))
		l := New(d)

		for _, level := range allLevels {
			l.Log(level, func() string { return level.String() })
		}

		var got []Level
		for _, e := range d.Events() {
			got = append(got, e.Level)
		}
		assert.Equal(t, allLevels[threshold:], got, "minimum %s", threshold)
	}
}

func TestLeveledHelpers(t *testing.T) {
	d := newRecorder(WithAsync(false))
	l := New(d)

	l.Verbose("v")
	l.Debug("d")
	l.Info("i")
	l.Warning("w")
	l.Error("e")
	l.Verbosef("%s", "vf")
	l.Debugf("%s", "df")
	l.Infof("%s", "if")
	l.Warningf("%s", "wf")
	l.Errorf("%s", "ef")

	var got []string
	for _, e := range d.Events() {
		got = append(got, fmt.Sprintf("%s:%s", e.Level, e.Message))
	}
	assert.Equal(t, []string{
		"VERBOSE:v", "DEBUG:d", "INFO:i", "WARNING:w", "ERROR:e",
		"VERBOSE:vf", "DEBUG:df", "INFO:if", "WARNING:wf", "ERROR:ef",
	}, got)
}

func TestLoggerCallSite(t *testing.T) {
	d := newRecorder(WithAsync(false))
	l := New(d)

	l.Info("here")
	l.Log(LevelInfo, func() string { return "there" })

	events := d.Events()
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, "logger_test.go", filepath.Base(e.Site.File))
		assert.Equal(t, "TestLoggerCallSite", e.Site.Function)
		assert.Positive(t, e.Site.Line)
	}
	assert.Equal(t, events[0].Site.Line+1, events[1].Site.Line)
}

func TestLazyMessage(t *testing.T) {
	var calls atomic.Int32
	msg := func() string {
		calls.Add(1)
		return "expensive"
	}

	a := newRecorder(WithLevel(LevelError), WithAsync(false))
	b := newRecorder(WithLevel(LevelWarning))
	l := New(a, b)

	l.Log(LevelInfo, msg)
	assert.Zero(t, calls.Load(), "no destination accepts info")

	l.Log(LevelError, msg)
	require.NoError(t, l.Flush(context.Background()))
	assert.Equal(t, int32(1), calls.Load(), "evaluated once for two destinations")
	assert.Len(t, a.Lines(), 1)
	assert.Len(t, b.Lines(), 1)

	l.Custom(LevelError, nil, CallSite{})
	require.NoError(t, l.Flush(context.Background()))
	assert.Equal(t, "", a.Events()[1].Message, "nil message renders empty")
}

func TestPerDestinationFormatting(t *testing.T) {
	a := newRecorder(plain(WithAsync(false))...)
	b := newRecorder(WithAsync(false), WithTimestamp(false), WithFileName(false), WithLineNumber(false), WithFunction(false))
	l := New(a, b)

	l.Warning("same event")

	assert.Equal(t, []string{"> same event"}, a.Lines())
	assert.Equal(t, []string{"[WARNING] > same event"}, b.Lines())
}

func TestRemovedDestinationDrainsQueuedWork(t *testing.T) {
	release := make(chan struct{})
	d := newRecorder()
	d.Serial().Go(func() { <-release })

	l := New(d)
	l.Info("queued before removal")
	l.RemoveDestination(d)
	l.Info("after removal")

	close(release)
	require.NoError(t, d.Serial().Flush(context.Background()))
	require.Len(t, d.Events(), 1)
	assert.Equal(t, "queued before removal", d.Events()[0].Message)
}

func TestShutdown(t *testing.T) {
	diag := captureDiagnostics(t)
	d := newRecorder()
	l := New(d)

	for i := 0; i < 10; i++ {
		l.Infof("event %d", i)
	}
	require.NoError(t, l.Shutdown(context.Background()))
	assert.Len(t, d.Events(), 10, "queued events drain on shutdown")

	l.Info("too late")
	assert.Equal(t, uint64(1), d.Serial().Dropped())
	assert.Len(t, d.Events(), 10)
	assert.NoError(t, l.Shutdown(context.Background()), "second shutdown is a no-op")
	assert.Empty(t, diag.String())
}

func TestShutdownClosesEveryDestinationOnTimeout(t *testing.T) {
	diag := captureDiagnostics(t)
	release := make(chan struct{})
	a := newRecorder()
	b := newRecorder()
	a.Serial().Go(func() { <-release })
	b.Serial().Go(func() { <-release })
	l := New(a, b)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Shutdown(ctx), context.DeadlineExceeded)

	l.Info("after shutdown")
	assert.Equal(t, uint64(1), a.Serial().Dropped())
	assert.Equal(t, uint64(1), b.Serial().Dropped())

	close(release)
	require.NoError(t, l.Shutdown(context.Background()), "retry waits for the drained workers")
	assert.Empty(t, a.Events())
	assert.Empty(t, b.Events())
	assert.Contains(t, diag.String(), string(b.ID())+" dropped 1 events")
}

func TestFlushSkipsSynchronousDestinations(t *testing.T) {
	release := make(chan struct{})
	d := newRecorder(WithAsync(false))
	d.Serial().Go(func() { <-release })
	l := New(d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, l.Flush(ctx))

	close(release)
	require.NoError(t, d.Serial().Close(context.Background()))
}
