package hooks

import (
	"fmt"
	"runtime/cgo"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/hoststr"
)

// ReturnCode is a command_run callback's disposition for the intercepted
// command.
type ReturnCode int

const (
	// Continue lets remaining interceptors and the host's own dispatch
	// handle the command.
	Continue ReturnCode = iota
	// Eat suppresses any further handling of the command.
	Eat
)

// hostCode maps the disposition onto the host's return-code constants.
func (rc ReturnCode) hostCode() int {
	if rc == Eat {
		return hostapi.ReturnOKEat
	}
	return hostapi.ReturnOK
}

// CommandRunCallback is implemented by command interceptors. Plain
// functions can be used through the CommandRunFunc adapter.
type CommandRunCallback interface {
	// Run is called with the full command line, before the host's own
	// dispatcher acts on it. The returned disposition decides whether
	// the command keeps propagating.
	Run(host *plugbridge.Host, buffer *plugbridge.Buffer, command string) ReturnCode
}

// CommandRunFunc adapts a bare function to CommandRunCallback.
type CommandRunFunc func(host *plugbridge.Host, buffer *plugbridge.Buffer, command string) ReturnCode

// Run implements CommandRunCallback.
func (f CommandRunFunc) Run(host *plugbridge.Host, buffer *plugbridge.Buffer, command string) ReturnCode {
	return f(host, buffer, command)
}

type commandRunState struct {
	callback CommandRunCallback
	host     *plugbridge.Host
}

// CommandRun intercepts command lines before the host's own dispatch. When
// several interceptors match a command the host orders them by the numeric
// priority prefix and registration order; this hook only participates in
// that ordering.
type CommandRun struct {
	hook
}

// NewCommandRun registers a command interceptor. pattern is host-defined
// and may carry a numeric priority prefix and * wildcards, e.g.
// "2000|/buffer *". Must be called on the host callback goroutine; panics
// otherwise.
func NewCommandRun(pattern string, callback CommandRunCallback) (*CommandRun, error) {
	host := plugbridge.Current()

	state := &commandRunState{callback: callback, host: host}
	handle := cgo.NewHandle(state)

	id := host.API().HookCommandRun(
		hoststr.Encode(pattern),
		commandRunTrampoline,
		uintptr(handle),
	)
	if id == 0 {
		handle.Delete()
		return nil, fmt.Errorf("command_run %q: %w", pattern, ErrRegistration)
	}

	return &CommandRun{newHook(id, host, handle, "command_run", pattern)}, nil
}

// commandRunTrampoline bridges the host's interceptor invocation to the
// callback. Unlike command hooks the callback's disposition is relayed to
// the host unchanged.
func commandRunTrampoline(data uintptr, buffer hostapi.BufferHandle, command []byte) int {
	state := cgo.Handle(data).Value().(*commandRunState)

	buf := state.host.BufferFromHandle(buffer)
	return state.callback.Run(state.host, buf, hoststr.Decode(command)).hostCode()
}
