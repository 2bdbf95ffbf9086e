package logease

import "github.com/google/uuid"

// DefaultTimeFormat renders wall-clock time with millisecond precision.
const DefaultTimeFormat = "15:04:05.000"

// NewID returns a fresh random destination identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Base carries the state shared by every destination: identity, level threshold,
// delivery mode, display toggles and the serial execution context.
// Variants embed *Base and implement Emit.
type Base struct {
	id          ID
	level       Level
	async       bool
	queueSize   int
	nonBlocking bool
	serial      *Serial
	timeFormat  string

	// Format is the output pattern configured for the destination. It is stored
	// as-is; Render always uses the fixed field order.
	Format string

	// Display toggles. Set them before the destination is added to a Logger.
	ShowTimestamp  bool
	ShowLevel      bool
	ShowFileName   bool
	ShowLineNumber bool
	ShowFunction   bool
}

// Option configures a Base at construction time.
type Option func(*Base)

// WithID sets an explicit identifier instead of a generated one.
func WithID(id ID) Option {
	return func(b *Base) {
		if id != "" {
			b.id = id
		}
	}
}

// WithLevel sets the minimum level the destination accepts.
func WithLevel(level Level) Option {
	return func(b *Base) { b.level = level }
}

// WithAsync selects whether emits run on the destination's worker (true) or on the caller.
func WithAsync(async bool) Option {
	return func(b *Base) { b.async = async }
}

// WithQueueSize sets the capacity of the destination's pending task buffer.
// With nonBlocking set, events are dropped instead of blocking the caller when it is full.
func WithQueueSize(size int, nonBlocking bool) Option {
	return func(b *Base) {
		b.queueSize = size
		b.nonBlocking = nonBlocking
	}
}

// WithTimestamp toggles the leading timestamp.
func WithTimestamp(show bool) Option {
	return func(b *Base) { b.ShowTimestamp = show }
}

// WithLevelTag toggles the bracketed level tag.
func WithLevelTag(show bool) Option {
	return func(b *Base) { b.ShowLevel = show }
}

// WithFileName toggles the call-site file name.
func WithFileName(show bool) Option {
	return func(b *Base) { b.ShowFileName = show }
}

// WithLineNumber toggles the call-site line number.
func WithLineNumber(show bool) Option {
	return func(b *Base) { b.ShowLineNumber = show }
}

// WithFunction toggles the call-site function name.
func WithFunction(show bool) Option {
	return func(b *Base) { b.ShowFunction = show }
}

// WithFormat stores an output pattern on the destination.
func WithFormat(format string) Option {
	return func(b *Base) { b.Format = format }
}

// WithTimeFormat sets the layout of the timestamp field, in Go reference time.
func WithTimeFormat(layout string) Option {
	return func(b *Base) {
		if layout != "" {
			b.timeFormat = layout
		}
	}
}

// NewBase builds the shared destination state. Defaults: generated ID, verbose level,
// asynchronous delivery, every display toggle on.
func NewBase(opts ...Option) *Base {
	b := &Base{
		level:          LevelVerbose,
		async:          true,
		timeFormat:     DefaultTimeFormat,
		Format:         "$DHH:mm:ss.SSS$d $L $N.$F:$l - $M",
		ShowTimestamp:  true,
		ShowLevel:      true,
		ShowFileName:   true,
		ShowLineNumber: true,
		ShowFunction:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.id == "" {
		b.id = NewID()
	}
	b.serial = NewSerial(b.queueSize, b.nonBlocking)
	return b
}

// ID returns the destination identifier.
func (b *Base) ID() ID { return b.id }

// MinLevel returns the lowest accepted level.
func (b *Base) MinLevel() Level { return b.level }

// Async reports whether emits are delivered on the destination worker.
func (b *Base) Async() bool { return b.async }

// Serial returns the destination's execution context.
func (b *Base) Serial() *Serial { return b.serial }

// TimeFormat returns the layout of the timestamp field.
func (b *Base) TimeFormat() string { return b.timeFormat }

// ShouldLog reports whether an event at level passes the destination threshold.
func (b *Base) ShouldLog(level Level) bool {
	return shouldEmit(level, b.level)
}

// Render formats e according to the destination's display toggles.
func (b *Base) Render(e Event) string {
	return formatLine(b, e)
}
