// Package mainthread pins the host's callback goroutine and verifies that
// host API calls happen on it. The host serializes every trampoline
// invocation and registration call onto one goroutine; calling its API from
// anywhere else is a programming error with no recovery, so violations
// panic instead of returning an error.
package mainthread

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

var (
	pinned uint64
	active bool
)

// Pin records the calling goroutine as the host callback goroutine.
func Pin() {
	pinned = gid()
	active = true
}

// Unpin clears the pin at plugin unload.
func Unpin() {
	active = false
	pinned = 0
}

// Pinned reports whether a callback goroutine is currently pinned.
func Pinned() bool { return active }

// Check panics when called from any goroutine other than the pinned one.
func Check() {
	if !active {
		panic("plugbridge: host API used before Init")
	}
	if g := gid(); g != pinned {
		panic(fmt.Sprintf(
			"plugbridge: host API used from goroutine %d, hooks must be managed on the host callback goroutine %d",
			g, pinned,
		))
	}
}

// gid extracts the current goroutine id from the stack header,
// "goroutine N [running]:". The runtime offers no direct accessor.
func gid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := buf[:n]

	header = bytes.TrimPrefix(header, []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		panic("plugbridge: cannot parse goroutine id from stack header")
	}
	return id
}
