// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package mainthread

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutineSpace = []byte("goroutine ")

// curGoroutineID extracts the current goroutine's id from the first line
// of its stack trace ("goroutine N [running]:"). The runtime does not
// expose goroutine ids, and this header format has been stable across
// every Go release; net/http's HTTP/2 implementation relies on the same
// parse.
func curGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, goroutineSpace)
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseUint(string(buf[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
