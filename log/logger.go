// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log provides the writer that receives resolver traces.
package log

import (
	"fmt"
	"io"
	"sync"
)

// Logger is a minimal, line oriented wrapper around an io.Writer. Writes from
// multiple goroutines are serialized so that lines never interleave.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Write implements io.Writer.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string, adding a trailing newline if it lacks one.
func (l *Logger) Logf(f string, args ...interface{}) {
	s := fmt.Sprintf(f, args...)
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	io.WriteString(l, s)
}
