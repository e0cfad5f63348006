package hooks

import (
	"fmt"
	"runtime/cgo"
	"time"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hostapi"
)

// TimerCallback is implemented by timer handlers. Plain functions can be
// used through the TimerFunc adapter.
type TimerCallback interface {
	// Run is called on every firing. remainingCalls counts down to zero
	// for bounded timers and is -1 for unbounded ones.
	Run(host *plugbridge.Host, remainingCalls int)
}

// TimerFunc adapts a bare function to TimerCallback.
type TimerFunc func(host *plugbridge.Host, remainingCalls int)

// Run implements TimerCallback.
func (f TimerFunc) Run(host *plugbridge.Host, remainingCalls int) {
	f(host, remainingCalls)
}

type timerState struct {
	callback TimerCallback
	host     *plugbridge.Host
}

// Timer is a hook that fires on the host's schedule, on the host callback
// goroutine like every other hook.
type Timer struct {
	hook
}

// NewTimer registers a periodic callback. alignSecond aligns firing to a
// multiple of that many seconds when positive; maxCalls bounds the number
// of invocations, 0 meaning unbounded. Must be called on the host callback
// goroutine; panics otherwise.
func NewTimer(interval time.Duration, alignSecond, maxCalls int, callback TimerCallback) (*Timer, error) {
	host := plugbridge.Current()

	state := &timerState{callback: callback, host: host}
	handle := cgo.NewHandle(state)

	id := host.API().HookTimer(
		interval,
		alignSecond,
		maxCalls,
		timerTrampoline,
		uintptr(handle),
	)
	if id == 0 {
		handle.Delete()
		return nil, fmt.Errorf("timer %v: %w", interval, ErrRegistration)
	}

	return &Timer{newHook(id, host, handle, "timer", interval.String())}, nil
}

func timerTrampoline(data uintptr, remainingCalls int) int {
	state := cgo.Handle(data).Value().(*timerState)
	state.callback.Run(state.host, remainingCalls)
	return hostapi.ReturnOK
}
