package logease

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

// formatPool holds the line buffers reused across all destinations.
var formatPool bytebufferpool.Pool

// formatLine renders e as a single line without trailing newline. Enabled fields are
// space-joined in a fixed order:
//
//	timestamp [LEVEL] [file.go:line] function() > message
//
// The timestamp is taken when the line is rendered, not when the event was logged.
func formatLine(b *Base, e Event) string {
	buf := formatPool.Get()
	defer formatPool.Put(buf)

	if b.ShowTimestamp {
		buf.B = time.Now().AppendFormat(buf.B, b.timeFormat)
		buf.B = append(buf.B, ' ')
	}

	if b.ShowLevel {
		buf.B = append(buf.B, '[')
		buf.B = append(buf.B, e.Level.String()...)
		buf.B = append(buf.B, "] "...)
	}

	if b.ShowFileName {
		buf.B = append(buf.B, '[')
		buf.B = append(buf.B, fileName(e.Site.File)...)
		if b.ShowLineNumber {
			buf.B = append(buf.B, ':')
			buf.B = strconv.AppendInt(buf.B, int64(e.Site.Line), 10)
		}
		buf.B = append(buf.B, "] "...)
	} else if b.ShowLineNumber {
		buf.B = append(buf.B, '[')
		buf.B = strconv.AppendInt(buf.B, int64(e.Site.Line), 10)
		buf.B = append(buf.B, "] "...)
	}

	if b.ShowFunction {
		buf.B = append(buf.B, stripParams(e.Site.Function)...)
		buf.B = append(buf.B, ' ')
	}

	buf.B = append(buf.B, "> "...)
	buf.B = append(buf.B, e.Message...)
	return buf.String()
}

// fileName returns the last path element of a call-site file, or "" for an empty path.
func fileName(file string) string {
	if file == "" {
		return ""
	}
	return filepath.Base(file)
}

// stripParams removes the parameter list of a function signature, so both
// "foo(x:y:)" and "foo" render as "foo()".
func stripParams(function string) string {
	if i := strings.IndexByte(function, '('); i >= 0 {
		function = function[:i]
	}
	return function + "()"
}
