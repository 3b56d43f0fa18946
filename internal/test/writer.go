// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package test

import (
	"strings"
	"testing"
	"unicode"
)

// Writer adapts a testing.TB to the io.Writer interface, logging each
// non-blank line written to it. Useful as the sink for resolver traces, which
// then only show up for failing or verbose tests.
type Writer struct {
	testing.TB
}

func (t Writer) Write(b []byte) (n int, err error) {
	if len(b) == 0 {
		return 0, nil
	}

	t.Helper()
	for _, part := range strings.Split(string(b), "\n") {
		str := strings.TrimRightFunc(part, unicode.IsSpace)
		if len(str) != 0 {
			t.Log(str)
		}
	}
	return len(b), nil
}
