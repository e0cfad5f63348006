package hooks

import (
	"fmt"
	"runtime/cgo"
	"strings"

	"github.com/soyeahso/plugbridge"
	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/hoststr"
)

// templateSeparator joins repeated argument and completion templates, as
// the host expects them.
const templateSeparator = "||"

// CommandCallback is implemented by command handlers. Plain functions can
// be used through the CommandFunc adapter; implement the interface over a
// struct when the handler needs state of its own.
type CommandCallback interface {
	// Run is called every time the command executes. buffer is the buffer
	// that received the command; args includes the command name as its
	// first element.
	Run(host *plugbridge.Host, buffer *plugbridge.Buffer, args plugbridge.Args)
}

// CommandFunc adapts a bare function to CommandCallback.
type CommandFunc func(host *plugbridge.Host, buffer *plugbridge.Buffer, args plugbridge.Args)

// Run implements CommandCallback.
func (f CommandFunc) Run(host *plugbridge.Host, buffer *plugbridge.Buffer, args plugbridge.Args) {
	f(host, buffer, args)
}

// CommandSettings describes a command to be registered. Build one with
// NewCommandSettings and the chained setters; it is consumed by NewCommand
// and carries no state afterwards.
//
// The string fields accept the same formats the host's own command help
// documents.
type CommandSettings struct {
	name                 string
	description          string
	arguments            []string
	argumentsDescription string
	completions          []string
}

// NewCommandSettings starts a command description for the given name. The
// name is not validated here; an empty name gets host-defined treatment.
func NewCommandSettings(name string) *CommandSettings {
	return &CommandSettings{name: name}
}

// Description sets the command description shown by the host's help.
func (s *CommandSettings) Description(description string) *CommandSettings {
	s.description = description
	return s
}

// AddArgument adds one positional-argument template. Templates keep their
// order and are joined for the host.
func (s *CommandSettings) AddArgument(argument string) *CommandSettings {
	s.arguments = append(s.arguments, argument)
	return s
}

// ArgumentsDescription sets the help text for the command's arguments.
func (s *CommandSettings) ArgumentsDescription(description string) *CommandSettings {
	s.argumentsDescription = description
	return s
}

// AddCompletion adds one completion template. Templates keep their order
// and are joined for the host.
func (s *CommandSettings) AddCompletion(completion string) *CommandSettings {
	s.completions = append(s.completions, completion)
	return s
}

// commandState is the boxed per-registration state the trampoline borrows
// back from the opaque pointer.
type commandState struct {
	callback CommandCallback
	host     *plugbridge.Host
}

// Command is a hook for a named host command. The registration stays active
// until Unhook.
type Command struct {
	hook
}

// NewCommand registers a command with the host. Must be called on the host
// callback goroutine; panics otherwise. Returns ErrRegistration (wrapped)
// when the host rejects the registration, in which case no callback state
// is retained.
func NewCommand(settings *CommandSettings, callback CommandCallback) (*Command, error) {
	host := plugbridge.Current()

	state := &commandState{callback: callback, host: host}
	handle := cgo.NewHandle(state)

	id := host.API().HookCommand(
		hoststr.Encode(settings.name),
		hoststr.Encode(settings.description),
		hoststr.Encode(strings.Join(settings.arguments, templateSeparator)),
		hoststr.Encode(settings.argumentsDescription),
		hoststr.Encode(strings.Join(settings.completions, templateSeparator)),
		commandTrampoline,
		uintptr(handle),
	)
	if id == 0 {
		handle.Delete()
		return nil, fmt.Errorf("command %q: %w", settings.name, ErrRegistration)
	}

	return &Command{newHook(id, host, handle, "command", settings.name)}, nil
}

// commandTrampoline is the fixed entry point the host calls for every
// command hook. It borrows the callback state from the opaque pointer for
// the duration of the call and resolves the raw buffer handle before
// invoking the callback. Command hooks always acknowledge: the callback has
// no channel to report "not handled" through this path.
func commandTrampoline(data uintptr, buffer hostapi.BufferHandle, argv [][]byte) int {
	state := cgo.Handle(data).Value().(*commandState)

	buf := state.host.BufferFromHandle(buffer)
	state.callback.Run(state.host, buf, plugbridge.NewArgs(argv))

	return hostapi.ReturnOK
}
