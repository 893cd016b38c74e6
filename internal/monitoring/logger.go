// Package monitoring holds the package-level loggers used across mapshow.
package monitoring

import (
	"io"
	"log"
)

// Logf is the diagnostic logger. It defaults to log.Printf; the CLI mutes it
// unless --verbose is given. Tests may redirect it with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Warnf reports conditions the user should see even when diagnostics are
// muted, such as unsupported options.
var Warnf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	Logf = orNoop(f)
}

// SetWarnLogger replaces Warnf. Passing nil will set a no-op logger.
func SetWarnLogger(f func(format string, v ...interface{})) {
	Warnf = orNoop(f)
}

// NewLogger returns a Printf-style logger writing to w with the given prefix
// and no timestamp.
func NewLogger(w io.Writer, prefix string) func(format string, v ...interface{}) {
	return log.New(w, prefix, 0).Printf
}

func orNoop(f func(format string, v ...interface{})) func(format string, v ...interface{}) {
	if f == nil {
		return func(string, ...interface{}) {}
	}
	return f
}
