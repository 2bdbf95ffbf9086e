package logease

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// ConsoleStyle selects the channel a ConsoleDestination prints to.
type ConsoleStyle int

const (
	// StylePrint writes each line verbatim to standard output.
	StylePrint ConsoleStyle = iota
	// StyleSystem writes through a standard library logger on standard error, which
	// prefixes every line with the date and time like a system log.
	StyleSystem
)

// ConsoleDestination prints rendered lines to the process console.
type ConsoleDestination struct {
	*Base

	mu     sync.Mutex
	style  ConsoleStyle
	out    io.Writer
	system *log.Logger
}

// NewConsole creates a console destination printing with StylePrint.
func NewConsole(opts ...Option) *ConsoleDestination {
	return &ConsoleDestination{
		Base:   NewBase(opts...),
		out:    os.Stdout,
		system: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// SetStyle switches between direct printing and system-log style output.
func (c *ConsoleDestination) SetStyle(style ConsoleStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
}

// Style returns the current output style.
func (c *ConsoleDestination) Style() ConsoleStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// SetOutput redirects the destination. Both styles write to w afterwards.
// A nil writer discards output.
func (c *ConsoleDestination) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = w
	c.system.SetOutput(w)
}

// Emit renders e and prints it.
func (c *ConsoleDestination) Emit(e Event) {
	line := c.Render(e)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.style {
	case StyleSystem:
		c.system.Print(line)
	default:
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			diagf("console destination %s: %v", c.ID(), err)
		}
	}
}

var _ Destination = (*ConsoleDestination)(nil)
