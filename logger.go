package logease

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Logger fans leveled events out to a set of destinations.
// It is safe for concurrent use; destinations may be added and removed at any time.
type Logger struct {
	mu           sync.RWMutex
	destinations map[ID]Destination

	drainMu sync.Mutex
	drained map[ID]bool // destinations whose drop count was already reported
}

// New creates a Logger with the given initial destinations.
func New(dsts ...Destination) *Logger {
	l := &Logger{destinations: make(map[ID]Destination, len(dsts))}
	for _, d := range dsts {
		l.AddDestination(d)
	}
	return l
}

// AddDestination registers d unless a destination with the same ID is already present.
// It reports whether d was added.
func (l *Logger) AddDestination(d Destination) bool {
	if d == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.destinations[d.ID()]; ok {
		return false
	}
	l.destinations[d.ID()] = d
	return true
}

// RemoveDestination unregisters the destination with d's ID, if any, and reports
// whether one was removed. Work already queued for it still runs. The Logger no longer
// flushes or shuts down a removed destination; close it with d.Serial().Close when done.
func (l *Logger) RemoveDestination(d Destination) bool {
	if d == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.destinations[d.ID()]; !ok {
		return false
	}
	delete(l.destinations, d.ID())
	return true
}

// RemoveAllDestinations unregisters every destination.
func (l *Logger) RemoveAllDestinations() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.destinations)
}

// Destinations returns a snapshot of the registered destinations in no particular order.
func (l *Logger) Destinations() []Destination {
	l.mu.RLock()
	defer l.mu.RUnlock()

	dsts := make([]Destination, 0, len(l.destinations))
	for _, d := range l.destinations {
		dsts = append(dsts, d)
	}
	return dsts
}

// Len returns the number of registered destinations.
func (l *Logger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.destinations)
}

// Custom dispatches an event at level from site to every destination accepting it.
// msg is evaluated at most once, and not at all when no destination accepts level.
// Synchronous destinations emit before Custom returns; asynchronous ones are queued on
// their serial worker. Delivery failures never surface here.
func (l *Logger) Custom(level Level, msg func() string, site CallSite) {
	var accepting []Destination
	for _, d := range l.Destinations() {
		if shouldEmit(level, d.MinLevel()) {
			accepting = append(accepting, d)
		}
	}
	if len(accepting) == 0 {
		return
	}

	e := Event{Level: level, Site: site}
	if msg != nil {
		e.Message = msg()
	}

	for _, d := range accepting {
		d := d
		emit := func() { d.Emit(e) }
		if d.Async() {
			d.Serial().Go(emit)
		} else {
			d.Serial().Do(emit)
		}
	}
}

// Log dispatches a lazily built message at level, attributed to the caller.
func (l *Logger) Log(level Level, msg func() string) {
	l.Custom(level, msg, Caller(1))
}

// log is the common path of the leveled helpers. skip 2 attributes the event to the
// caller of the helper.
func (l *Logger) log(level Level, args []any) {
	l.Custom(level, func() string { return fmt.Sprint(args...) }, Caller(2))
}

func (l *Logger) logf(level Level, format string, args []any) {
	l.Custom(level, func() string { return fmt.Sprintf(format, args...) }, Caller(2))
}

// Verbose logs something generally unimportant (lowest priority).
func (l *Logger) Verbose(args ...any) { l.log(LevelVerbose, args) }

// Debug logs something which helps during debugging (low priority).
func (l *Logger) Debug(args ...any) { l.log(LevelDebug, args) }

// Info logs something interesting which is not an issue or error (normal priority).
func (l *Logger) Info(args ...any) { l.log(LevelInfo, args) }

// Warning logs something which may cause big trouble soon (high priority).
func (l *Logger) Warning(args ...any) { l.log(LevelWarning, args) }

// Error logs something which will keep you awake at night (highest priority).
func (l *Logger) Error(args ...any) { l.log(LevelError, args) }

// Verbosef is Verbose with fmt.Sprintf formatting.
func (l *Logger) Verbosef(format string, args ...any) { l.logf(LevelVerbose, format, args) }

// Debugf is Debug with fmt.Sprintf formatting.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args) }

// Infof is Info with fmt.Sprintf formatting.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args) }

// Warningf is Warning with fmt.Sprintf formatting.
func (l *Logger) Warningf(format string, args ...any) { l.logf(LevelWarning, format, args) }

// Errorf is Error with fmt.Sprintf formatting.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args) }

// Flush waits until every registered asynchronous destination has run the work queued
// before the call. Synchronous destinations have nothing pending. It respects context
// cancellation for timeout control.
func (l *Logger) Flush(ctx context.Context) error {
	for _, d := range l.Destinations() {
		if !d.Async() {
			continue
		}
		if err := d.Serial().Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown closes the serial workers of every registered destination and waits for them
// to drain. All destinations stop accepting asynchronous events before the first wait,
// so events sent afterwards are dropped even when ctx expires. Calling Shutdown again
// waits for the remaining workers.
func (l *Logger) Shutdown(ctx context.Context) error {
	dsts := l.Destinations()
	for _, d := range dsts {
		d.Serial().stop()
	}

	var err error
	for _, d := range dsts {
		if werr := d.Serial().wait(ctx); werr != nil {
			if err == nil {
				err = errors.Wrapf(werr, "drain destination %s", d.ID())
			}
			continue
		}
		l.reportDrops(d)
	}
	return err
}

// reportDrops writes the drop count of a drained destination to the diagnostic channel,
// once per destination.
func (l *Logger) reportDrops(d Destination) {
	l.drainMu.Lock()
	defer l.drainMu.Unlock()

	if l.drained == nil {
		l.drained = make(map[ID]bool)
	}
	if l.drained[d.ID()] {
		return
	}
	l.drained[d.ID()] = true
	if n := d.Serial().Dropped(); n > 0 {
		diagf("destination %s dropped %d events", d.ID(), n)
	}
}
