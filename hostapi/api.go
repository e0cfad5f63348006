// Package hostapi declares the plugin API surface the host exposes to
// plugins. It is consumed, never implemented, by the rest of this module;
// the host (or a test double) provides the implementation.
//
// All strings crossing this boundary are raw byte strings in the host's
// encoding. Every call must be made on the host's callback goroutine; the
// host API is not reentrant-safe across goroutines.
package hostapi

import "time"

// HookID is the opaque token the host returns for one active registration.
// The zero value means the host rejected the registration; a HookID is
// invalid once passed to Unhook.
type HookID uintptr

// BufferHandle is the host's opaque identifier for a buffer. The zero value
// names the host's core buffer.
type BufferHandle uintptr

// Return codes a trampoline hands back to the host.
const (
	// ReturnOK acknowledges the invocation and lets the host continue.
	ReturnOK = 0
	// ReturnOKEat acknowledges the invocation and tells the host to stop
	// any further handling of the command.
	ReturnOKEat = 1
	// ReturnError reports a callback failure to the host.
	ReturnError = -1
)

// CommandTrampoline is the fixed entry point the host invokes for a command
// hook. data is the opaque pointer given at registration, passed back
// unchanged. argv holds the split command arguments with argv[0] being the
// command name itself, by host convention.
type CommandTrampoline func(data uintptr, buffer BufferHandle, argv [][]byte) int

// CommandRunTrampoline is the entry point for a command_run hook. command is
// the full raw command line, unsplit.
type CommandRunTrampoline func(data uintptr, buffer BufferHandle, command []byte) int

// SignalTrampoline is the entry point for a signal hook.
type SignalTrampoline func(data uintptr, signal []byte, value SignalValue) int

// TimerTrampoline is the entry point for a timer hook. remainingCalls counts
// down to zero for bounded timers and is -1 for unbounded ones.
type TimerTrampoline func(data uintptr, remainingCalls int) int

// SignalKind discriminates the dynamic payload of a signal.
type SignalKind int

const (
	SignalString SignalKind = iota
	SignalInt
	SignalBuffer
)

// SignalValue is the dynamic payload attached to a signal emission. Only the
// field selected by Kind is meaningful.
type SignalValue struct {
	Kind   SignalKind
	Str    []byte
	Int    int
	Buffer BufferHandle
}

// API is the host's plugin interface. Registration calls return the zero
// HookID on rejection and never fail any other way. The host stores the
// trampoline/data pair and invokes it on every matching event until Unhook;
// the data pointer is borrowed by the host for the registration's lifetime,
// never owned.
type API interface {
	// HookCommand registers a named command. args and completion carry
	// multiple templates joined with the host's "||" separator.
	HookCommand(name, description, args, argsDescription, completion []byte, fn CommandTrampoline, data uintptr) HookID

	// HookCommandRun registers an interceptor for command lines matching
	// command, which may carry a numeric priority prefix ("2000|/buffer *")
	// and * wildcards. Interceptors run before the host's own dispatch.
	HookCommandRun(command []byte, fn CommandRunTrampoline, data uintptr) HookID

	// HookSignal registers a callback for the named signal; * wildcards
	// are allowed in the name.
	HookSignal(signal []byte, fn SignalTrampoline, data uintptr) HookID

	// HookTimer registers a periodic callback. alignSecond aligns firing
	// to a multiple of that many seconds when positive; maxCalls bounds
	// the number of invocations, 0 meaning unbounded.
	HookTimer(interval time.Duration, alignSecond, maxCalls int, fn TimerTrampoline, data uintptr) HookID

	// Unhook removes a registration. The host guarantees no trampoline
	// invocation for the hook after Unhook returns.
	Unhook(id HookID)

	// BufferName returns the full name of a buffer.
	BufferName(buffer BufferHandle) []byte

	// Print writes a message line into a buffer.
	Print(buffer BufferHandle, message []byte)

	// Command runs a command line in a buffer as if the user typed it.
	Command(buffer BufferHandle, command []byte)
}
