package hooks

import (
	"fmt"
	"runtime/cgo"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/hoststr"
)

// SignalData is a signal's dynamic payload, decoded for the callback. Only
// the field selected by Kind is meaningful.
type SignalData struct {
	Kind   hostapi.SignalKind
	Str    string
	Int    int
	Buffer *plugbridge.Buffer
}

// SignalCallback is implemented by signal handlers. Plain functions can be
// used through the SignalFunc adapter.
type SignalCallback interface {
	// Run is called on every matching signal emission. The returned
	// disposition decides whether the signal keeps propagating.
	Run(host *plugbridge.Host, signal string, data SignalData) ReturnCode
}

// SignalFunc adapts a bare function to SignalCallback.
type SignalFunc func(host *plugbridge.Host, signal string, data SignalData) ReturnCode

// Run implements SignalCallback.
func (f SignalFunc) Run(host *plugbridge.Host, signal string, data SignalData) ReturnCode {
	return f(host, signal, data)
}

type signalState struct {
	callback SignalCallback
	host     *plugbridge.Host
}

// Signal is a hook for host signal emissions.
type Signal struct {
	hook
}

// NewSignal registers a callback for the named signal; * wildcards are
// allowed in the name. Must be called on the host callback goroutine;
// panics otherwise.
func NewSignal(name string, callback SignalCallback) (*Signal, error) {
	host := plugbridge.Current()

	state := &signalState{callback: callback, host: host}
	handle := cgo.NewHandle(state)

	id := host.API().HookSignal(
		hoststr.Encode(name),
		signalTrampoline,
		uintptr(handle),
	)
	if id == 0 {
		handle.Delete()
		return nil, fmt.Errorf("signal %q: %w", name, ErrRegistration)
	}

	return &Signal{newHook(id, host, handle, "signal", name)}, nil
}

func signalTrampoline(data uintptr, signal []byte, value hostapi.SignalValue) int {
	state := cgo.Handle(data).Value().(*signalState)

	sd := SignalData{Kind: value.Kind}
	switch value.Kind {
	case hostapi.SignalString:
		sd.Str = hoststr.Decode(value.Str)
	case hostapi.SignalInt:
		sd.Int = value.Int
	case hostapi.SignalBuffer:
		sd.Buffer = state.host.BufferFromHandle(value.Buffer)
	}

	return state.callback.Run(state.host, hoststr.Decode(signal), sd).hostCode()
}
