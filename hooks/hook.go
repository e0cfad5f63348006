// Package hooks registers Go callbacks with the host and owns their
// lifetime. Each registration returns a guard; the guard's Unhook method is
// the single point where the registration ends and the boxed callback state
// is released.
//
// Callback state crosses the host boundary as an opaque pointer: it is
// boxed behind a cgo.Handle immediately before the registration call,
// handed to the host as plain user data, and reclaimed by the guard (or
// deleted on the failure branch) immediately after the call returns.
// Trampolines only ever borrow the state back from the handle; they never
// delete it.
package hooks

import (
	"errors"
	"runtime/cgo"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/mainthread"
)

// ErrRegistration is returned when the host rejects a hook registration.
// There is no transient failure mode to retry against; the caller decides
// whether rejection is fatal.
var ErrRegistration = errors.New("host rejected hook registration")

// hook is the shared guard embedded in every hook kind. It owns one host
// registration (id) and the boxed callback state (state); both end together
// in Unhook.
type hook struct {
	id    hostapi.HookID
	host  *plugbridge.Host
	state cgo.Handle
	kind  string
	name  string
}

func newHook(id hostapi.HookID, host *plugbridge.Host, state cgo.Handle, kind, name string) hook {
	host.Logger().Debug().Str("kind", kind).Str("name", name).Msg("hook registered")
	return hook{id: id, host: host, state: state, kind: kind, name: name}
}

// Unhook deregisters the hook with the host and releases the callback
// state, in that order: the host guarantees no further trampoline calls
// once deregistration returns, so the state cannot be borrowed afterwards.
// Exactly one deregistration call is made; later calls are no-ops. Must run
// on the host callback goroutine.
func (h *hook) Unhook() {
	if h.id == 0 {
		return
	}
	mainthread.Check()
	h.host.API().Unhook(h.id)
	h.id = 0
	h.state.Delete()
	h.state = 0
	h.host.Logger().Debug().Str("kind", h.kind).Str("name", h.name).Msg("hook removed")
}
