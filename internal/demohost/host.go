// Package demohost is an in-process reference host for plugbridge. It
// implements hostapi.API over a girc IRC session: every joined channel is a
// buffer, user input lines run through command_run interceptors and then
// registered commands, and everything is serialized onto the single host
// goroutine the SDK pins at Init.
package demohost

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/logging"
)

type buffer struct {
	handle hostapi.BufferHandle
	name   string
	target string // IRC channel or nick; empty for the core buffer
}

type commandHook struct {
	id          hostapi.HookID
	name        string
	description string
	args        string
	argsDesc    string
	completion  string
	fn          hostapi.CommandTrampoline
	data        uintptr
}

type interceptorHook struct {
	id       hostapi.HookID
	priority int
	pattern  string
	fn       hostapi.CommandRunTrampoline
	data     uintptr
}

type signalHook struct {
	id      hostapi.HookID
	pattern string
	fn      hostapi.SignalTrampoline
	data    uintptr
}

type timerHook struct {
	id        hostapi.HookID
	remaining int // -1 when unbounded
	fn        hostapi.TimerTrampoline
	data      uintptr
	stop      chan struct{}
}

// Host implements hostapi.API for the demo. All state is owned by the loop
// goroutine; girc handlers and timers post closures into the loop instead
// of touching it directly.
type Host struct {
	cfg Config
	log *logging.Logger
	out io.Writer

	loop chan func()

	nextHook     uintptr
	commands     []*commandHook
	interceptors []*interceptorHook
	signals      []*signalHook
	timers       map[hostapi.HookID]*timerHook

	nextBuffer hostapi.BufferHandle
	buffers    map[hostapi.BufferHandle]*buffer
	byTarget   map[string]hostapi.BufferHandle
	current    hostapi.BufferHandle

	irc *ircSession
}

// New creates a demo host. Output (buffer display) goes to out; nil means
// stdout.
func New(cfg Config, log *logging.Logger, out io.Writer) *Host {
	if out == nil {
		out = os.Stdout
	}
	h := &Host{
		cfg:      cfg,
		log:      log.Sub("demohost"),
		out:      out,
		loop:     make(chan func(), 64),
		timers:   make(map[hostapi.HookID]*timerHook),
		buffers:  make(map[hostapi.BufferHandle]*buffer),
		byTarget: make(map[string]hostapi.BufferHandle),
	}
	h.buffers[0] = &buffer{handle: 0, name: "core"}
	return h
}

func (h *Host) allocateHook() hostapi.HookID {
	h.nextHook++
	return hostapi.HookID(h.nextHook)
}

// HookCommand implements hostapi.API.
func (h *Host) HookCommand(name, description, args, argsDescription, completion []byte, fn hostapi.CommandTrampoline, data uintptr) hostapi.HookID {
	cmd := &commandHook{
		id:          h.allocateHook(),
		name:        string(name),
		description: string(description),
		args:        string(args),
		argsDesc:    string(argsDescription),
		completion:  string(completion),
		fn:          fn,
		data:        data,
	}
	h.commands = append(h.commands, cmd)
	h.log.Debug().Str("command", cmd.name).Msg("command hooked")
	return cmd.id
}

// HookCommandRun implements hostapi.API.
func (h *Host) HookCommandRun(command []byte, fn hostapi.CommandRunTrampoline, data uintptr) hostapi.HookID {
	priority, pattern := splitPriority(string(command))
	ic := &interceptorHook{
		id:       h.allocateHook(),
		priority: priority,
		pattern:  pattern,
		fn:       fn,
		data:     data,
	}
	h.interceptors = append(h.interceptors, ic)
	h.log.Debug().Str("pattern", pattern).Int("priority", priority).Msg("command_run hooked")
	return ic.id
}

// HookSignal implements hostapi.API.
func (h *Host) HookSignal(signal []byte, fn hostapi.SignalTrampoline, data uintptr) hostapi.HookID {
	sig := &signalHook{
		id:      h.allocateHook(),
		pattern: string(signal),
		fn:      fn,
		data:    data,
	}
	h.signals = append(h.signals, sig)
	h.log.Debug().Str("signal", sig.pattern).Msg("signal hooked")
	return sig.id
}

// HookTimer implements hostapi.API. Firing is posted onto the loop
// goroutine; the ticker itself runs on its own goroutine like the real
// host's event loop internals.
func (h *Host) HookTimer(interval time.Duration, alignSecond, maxCalls int, fn hostapi.TimerTrampoline, data uintptr) hostapi.HookID {
	if interval <= 0 {
		return 0
	}
	remaining := -1
	if maxCalls > 0 {
		remaining = maxCalls
	}
	tm := &timerHook{
		id:        h.allocateHook(),
		remaining: remaining,
		fn:        fn,
		data:      data,
		stop:      make(chan struct{}),
	}
	h.timers[tm.id] = tm

	if alignSecond > 0 {
		interval = interval.Round(time.Duration(alignSecond) * time.Second)
		if interval <= 0 {
			interval = time.Duration(alignSecond) * time.Second
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-tm.stop:
				return
			case <-ticker.C:
				h.post(func() { h.fireTimer(tm) })
			}
		}
	}()

	h.log.Debug().Dur("interval", interval).Int("maxCalls", maxCalls).Msg("timer hooked")
	return tm.id
}

func (h *Host) fireTimer(tm *timerHook) {
	if _, ok := h.timers[tm.id]; !ok {
		return // unhooked while the tick was in flight
	}
	if tm.remaining > 0 {
		tm.remaining--
	}
	tm.fn(tm.data, tm.remaining)
	if tm.remaining == 0 {
		h.removeTimer(tm.id)
	}
}

func (h *Host) removeTimer(id hostapi.HookID) {
	if tm, ok := h.timers[id]; ok {
		close(tm.stop)
		delete(h.timers, id)
	}
}

// Unhook implements hostapi.API. Unknown or already-removed ids are
// ignored, matching the real host's tolerance of stale hook pointers from
// expired timers.
func (h *Host) Unhook(id hostapi.HookID) {
	for i, cmd := range h.commands {
		if cmd.id == id {
			h.commands = append(h.commands[:i], h.commands[i+1:]...)
			return
		}
	}
	for i, ic := range h.interceptors {
		if ic.id == id {
			h.interceptors = append(h.interceptors[:i], h.interceptors[i+1:]...)
			return
		}
	}
	for i, sig := range h.signals {
		if sig.id == id {
			h.signals = append(h.signals[:i], h.signals[i+1:]...)
			return
		}
	}
	h.removeTimer(id)
}

// BufferName implements hostapi.API.
func (h *Host) BufferName(handle hostapi.BufferHandle) []byte {
	if buf, ok := h.buffers[handle]; ok {
		return []byte(buf.name)
	}
	return nil
}

// Print implements hostapi.API.
func (h *Host) Print(handle hostapi.BufferHandle, message []byte) {
	name := "core"
	if buf, ok := h.buffers[handle]; ok {
		name = buf.name
	}
	fmt.Fprintf(h.out, "%s\t%s\n", name, message)
}

// Command implements hostapi.API by feeding the line back through input
// dispatch, as if the user typed it in the buffer.
func (h *Host) Command(handle hostapi.BufferHandle, command []byte) {
	h.dispatchInput(handle, string(command))
}

// ensureBuffer returns the buffer for an IRC target, creating it on first
// use and announcing it through the buffer_opened signal.
func (h *Host) ensureBuffer(target string) *buffer {
	if handle, ok := h.byTarget[target]; ok {
		return h.buffers[handle]
	}
	h.nextBuffer++
	buf := &buffer{
		handle: h.nextBuffer,
		name:   "irc." + h.cfg.Server + "." + target,
		target: target,
	}
	h.buffers[buf.handle] = buf
	h.byTarget[target] = buf.handle
	h.emitSignal("buffer_opened", hostapi.SignalValue{Kind: hostapi.SignalBuffer, Buffer: buf.handle})
	return buf
}

// emitSignal delivers a signal to every hook whose pattern matches, in
// registration order, stopping early when a callback eats it.
func (h *Host) emitSignal(name string, value hostapi.SignalValue) {
	for _, sig := range h.signals {
		if !matchPattern(sig.pattern, name) {
			continue
		}
		if sig.fn(sig.data, []byte(name), value) == hostapi.ReturnOKEat {
			return
		}
	}
}

// post schedules fn onto the loop goroutine.
func (h *Host) post(fn func()) {
	h.loop <- fn
}

// Input posts one line of user input for the current buffer.
func (h *Host) Input(line string) {
	h.post(func() { h.dispatchInput(h.current, line) })
}
