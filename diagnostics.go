package logease

import (
	"io"
	"log"
	"os"
)

// diag is the diagnostic channel. Failures inside destinations are reported here and
// never through a Destination, so a broken file sink cannot feed back into itself.
var diag = log.New(os.Stderr, "logease: ", log.LstdFlags)

// SetDiagnosticOutput redirects internal failure reports. A nil writer discards them.
func SetDiagnosticOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	diag.SetOutput(w)
}

// diagf writes a single failure report to the diagnostic channel.
func diagf(format string, args ...any) {
	diag.Printf(format, args...)
}
