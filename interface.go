package logease

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Level is the severity of a log event. Levels are totally ordered by their numeric value.
type Level int

// Log level constants, lowest priority first.
const (
	LevelVerbose Level = iota // something generally unimportant
	LevelDebug                // something which helps during debugging
	LevelInfo                 // something interesting but not an issue
	LevelWarning              // something which may cause trouble soon
	LevelError                // something which will keep you awake at night
)

// ErrUnknownLevel is returned by ParseLevel for names that match no level.
var ErrUnknownLevel = errors.New("unknown log level")

// String returns the upper-case name of the level as it appears in rendered lines.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN (%d)", int(l))
	}
}

// ParseLevel converts a case-insensitive level name into a Level.
// "warn" is accepted as an alias of "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return 0, errors.Wrapf(ErrUnknownLevel, "%q", s)
	}
}

// shouldEmit reports whether an event at level passes a destination threshold of min.
// The threshold is inclusive.
func shouldEmit(level, min Level) bool {
	return level >= min
}

// ID identifies a destination. Two destinations are the same destination iff their IDs match.
type ID string

// Destination renders events and delivers them somewhere.
// Implementations usually embed *Base, which supplies everything but Emit.
type Destination interface {
	// ID returns the immutable identity of the destination.
	ID() ID
	// MinLevel returns the lowest level the destination accepts.
	MinLevel() Level
	// Async reports whether Emit runs on the destination's serial worker instead of the caller.
	Async() bool
	// Serial returns the execution context all emits of the destination are funneled through.
	Serial() *Serial
	// Emit formats and delivers a single event. Failures are handled inside.
	Emit(e Event)
}

// Event is a single log event with its message already evaluated.
type Event struct {
	Level   Level
	Message string
	Site    CallSite
}
