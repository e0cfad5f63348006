// Package hostapitest provides an in-memory hostapi.API double for tests.
// It records every registration it sees, counts deregistrations per hook,
// and lets tests drive the registered trampolines directly.
//
// Like the real host, the fake assumes single-goroutine use.
package hostapitest

import (
	"time"

	"github.com/soyeahso/plugbridge/hostapi"
)

// CommandRegistration captures one HookCommand call.
type CommandRegistration struct {
	ID              hostapi.HookID
	Name            string
	Description     string
	Args            string
	ArgsDescription string
	Completion      string
	Data            uintptr

	fn hostapi.CommandTrampoline
}

// CommandRunRegistration captures one HookCommandRun call.
type CommandRunRegistration struct {
	ID      hostapi.HookID
	Command string
	Data    uintptr

	fn hostapi.CommandRunTrampoline
}

// SignalRegistration captures one HookSignal call.
type SignalRegistration struct {
	ID     hostapi.HookID
	Signal string
	Data   uintptr

	fn hostapi.SignalTrampoline
}

// TimerRegistration captures one HookTimer call.
type TimerRegistration struct {
	ID          hostapi.HookID
	Interval    time.Duration
	AlignSecond int
	MaxCalls    int
	Data        uintptr

	fn hostapi.TimerTrampoline
}

// Fake implements hostapi.API in memory.
type Fake struct {
	// Reject makes every subsequent registration return the zero HookID.
	Reject bool

	// LastRejectedData holds the opaque data pointer of the most recent
	// rejected registration, so tests can verify the caller released it.
	LastRejectedData uintptr

	Commands    []*CommandRegistration
	CommandRuns []*CommandRunRegistration
	Signals     []*SignalRegistration
	Timers      []*TimerRegistration

	nextID   uintptr
	unhooked map[hostapi.HookID]int
	active   map[hostapi.HookID]bool

	bufferNames map[hostapi.BufferHandle]string
	printed     map[hostapi.BufferHandle][]string
	ran         map[hostapi.BufferHandle][]string
}

// New returns an empty fake host.
func New() *Fake {
	return &Fake{
		unhooked:    make(map[hostapi.HookID]int),
		active:      make(map[hostapi.HookID]bool),
		bufferNames: make(map[hostapi.BufferHandle]string),
		printed:     make(map[hostapi.BufferHandle][]string),
		ran:         make(map[hostapi.BufferHandle][]string),
	}
}

func (f *Fake) allocate() hostapi.HookID {
	f.nextID++
	id := hostapi.HookID(f.nextID)
	f.active[id] = true
	return id
}

// HookCommand implements hostapi.API.
func (f *Fake) HookCommand(name, description, args, argsDescription, completion []byte, fn hostapi.CommandTrampoline, data uintptr) hostapi.HookID {
	if f.Reject {
		f.LastRejectedData = data
		return 0
	}
	reg := &CommandRegistration{
		ID:              f.allocate(),
		Name:            string(name),
		Description:     string(description),
		Args:            string(args),
		ArgsDescription: string(argsDescription),
		Completion:      string(completion),
		Data:            data,
		fn:              fn,
	}
	f.Commands = append(f.Commands, reg)
	return reg.ID
}

// HookCommandRun implements hostapi.API.
func (f *Fake) HookCommandRun(command []byte, fn hostapi.CommandRunTrampoline, data uintptr) hostapi.HookID {
	if f.Reject {
		f.LastRejectedData = data
		return 0
	}
	reg := &CommandRunRegistration{
		ID:      f.allocate(),
		Command: string(command),
		Data:    data,
		fn:      fn,
	}
	f.CommandRuns = append(f.CommandRuns, reg)
	return reg.ID
}

// HookSignal implements hostapi.API.
func (f *Fake) HookSignal(signal []byte, fn hostapi.SignalTrampoline, data uintptr) hostapi.HookID {
	if f.Reject {
		f.LastRejectedData = data
		return 0
	}
	reg := &SignalRegistration{
		ID:     f.allocate(),
		Signal: string(signal),
		Data:   data,
		fn:     fn,
	}
	f.Signals = append(f.Signals, reg)
	return reg.ID
}

// HookTimer implements hostapi.API.
func (f *Fake) HookTimer(interval time.Duration, alignSecond, maxCalls int, fn hostapi.TimerTrampoline, data uintptr) hostapi.HookID {
	if f.Reject {
		f.LastRejectedData = data
		return 0
	}
	reg := &TimerRegistration{
		ID:          f.allocate(),
		Interval:    interval,
		AlignSecond: alignSecond,
		MaxCalls:    maxCalls,
		Data:        data,
		fn:          fn,
	}
	f.Timers = append(f.Timers, reg)
	return reg.ID
}

// Unhook implements hostapi.API.
func (f *Fake) Unhook(id hostapi.HookID) {
	f.unhooked[id]++
	delete(f.active, id)
}

// UnhookCount reports how many times Unhook was called for id.
func (f *Fake) UnhookCount(id hostapi.HookID) int { return f.unhooked[id] }

// Active reports whether id is registered and not yet unhooked.
func (f *Fake) Active(id hostapi.HookID) bool { return f.active[id] }

// AddBuffer installs a buffer with the given handle and name.
func (f *Fake) AddBuffer(handle hostapi.BufferHandle, name string) {
	f.bufferNames[handle] = name
}

// BufferName implements hostapi.API.
func (f *Fake) BufferName(buffer hostapi.BufferHandle) []byte {
	return []byte(f.bufferNames[buffer])
}

// Print implements hostapi.API.
func (f *Fake) Print(buffer hostapi.BufferHandle, message []byte) {
	f.printed[buffer] = append(f.printed[buffer], string(message))
}

// Command implements hostapi.API.
func (f *Fake) Command(buffer hostapi.BufferHandle, command []byte) {
	f.ran[buffer] = append(f.ran[buffer], string(command))
}

// Printed returns the messages printed into a buffer, in order.
func (f *Fake) Printed(buffer hostapi.BufferHandle) []string { return f.printed[buffer] }

// RanCommands returns the command lines run in a buffer, in order.
func (f *Fake) RanCommands(buffer hostapi.BufferHandle) []string { return f.ran[buffer] }

// RunCommand invokes the trampoline of the command hook id as the host
// would, splitting argv out of the given arguments. argv[0] should be the
// command name. Panics if id is not an active command hook.
func (f *Fake) RunCommand(id hostapi.HookID, buffer hostapi.BufferHandle, argv ...string) int {
	reg := f.command(id)
	raw := make([][]byte, len(argv))
	for i, a := range argv {
		raw[i] = []byte(a)
	}
	return reg.fn(reg.Data, buffer, raw)
}

// RunCommandRaw is RunCommand with caller-supplied raw argv bytes.
func (f *Fake) RunCommandRaw(id hostapi.HookID, buffer hostapi.BufferHandle, argv [][]byte) int {
	reg := f.command(id)
	return reg.fn(reg.Data, buffer, argv)
}

// RunCommandLine invokes the trampoline of the command_run hook id with the
// raw command line.
func (f *Fake) RunCommandLine(id hostapi.HookID, buffer hostapi.BufferHandle, line []byte) int {
	for _, reg := range f.CommandRuns {
		if reg.ID == id && f.active[id] {
			return reg.fn(reg.Data, buffer, line)
		}
	}
	panic("hostapitest: no active command_run hook with that id")
}

// EmitSignal invokes the trampoline of the signal hook id.
func (f *Fake) EmitSignal(id hostapi.HookID, signal string, value hostapi.SignalValue) int {
	for _, reg := range f.Signals {
		if reg.ID == id && f.active[id] {
			return reg.fn(reg.Data, []byte(signal), value)
		}
	}
	panic("hostapitest: no active signal hook with that id")
}

// FireTimer invokes the trampoline of the timer hook id.
func (f *Fake) FireTimer(id hostapi.HookID, remainingCalls int) int {
	for _, reg := range f.Timers {
		if reg.ID == id && f.active[id] {
			return reg.fn(reg.Data, remainingCalls)
		}
	}
	panic("hostapitest: no active timer hook with that id")
}

func (f *Fake) command(id hostapi.HookID) *CommandRegistration {
	for _, reg := range f.Commands {
		if reg.ID == id && f.active[id] {
			return reg
		}
	}
	panic("hostapitest: no active command hook with that id")
}
