package demohost

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/logging"
)

func newTestDemoHost(t *testing.T) (*Host, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	h := New(Config{Server: "irc.test", Nick: "demo"}, logging.Nop(), &out)
	return h, &out
}

func TestSplitPriority(t *testing.T) {
	tests := []struct {
		spec     string
		priority int
		pattern  string
	}{
		{"2000|/buffer *", 2000, "/buffer *"},
		{"/buffer *", defaultPriority, "/buffer *"},
		{"0|/quit", 0, "/quit"},
		{"abc|/x", defaultPriority, "abc|/x"},
		{"|/x", defaultPriority, "|/x"},
	}
	for _, tt := range tests {
		priority, pattern := splitPriority(tt.spec)
		assert.Equal(t, tt.priority, priority, tt.spec)
		assert.Equal(t, tt.pattern, pattern, tt.spec)
	}
}

func TestMatchPattern(t *testing.T) {
	assert.True(t, matchPattern("*", "/anything at all"))
	assert.True(t, matchPattern("/buffer *", "/buffer list"))
	assert.True(t, matchPattern("*ab", "abab"))
	assert.True(t, matchPattern("/quit", "/quit"))
	assert.False(t, matchPattern("/quit", "/quit now"))
	assert.False(t, matchPattern("/buffer *", "/window list"))
}

func TestDispatchCommandArgvSplit(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var got [][]byte
	h.HookCommand([]byte("echo"), nil, nil, nil, nil,
		func(data uintptr, buffer hostapi.BufferHandle, argv [][]byte) int {
			got = argv
			return hostapi.ReturnOK
		}, 0)

	h.dispatchInput(0, "/echo one  two")

	require.Len(t, got, 3)
	assert.Equal(t, "echo", string(got[0]))
	assert.Equal(t, "one", string(got[1]))
	assert.Equal(t, "two", string(got[2]))
}

func TestInterceptorPriorityOrdering(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var order []string
	hookRun := func(tag string, rc int) hostapi.CommandRunTrampoline {
		return func(uintptr, hostapi.BufferHandle, []byte) int {
			order = append(order, tag)
			return rc
		}
	}

	h.HookCommandRun([]byte("/x *"), hookRun("default-first", hostapi.ReturnOK), 0)
	h.HookCommandRun([]byte("2000|/x *"), hookRun("high", hostapi.ReturnOK), 0)
	h.HookCommandRun([]byte("/x *"), hookRun("default-second", hostapi.ReturnOK), 0)
	h.HookCommandRun([]byte("500|/x *"), hookRun("low", hostapi.ReturnOK), 0)

	h.dispatchInput(0, "/x go")

	assert.Equal(t, []string{"high", "default-first", "default-second", "low"}, order)
}

func TestInterceptorEatStopsDispatch(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var reached []string
	h.HookCommandRun([]byte("2000|/stop *"),
		func(uintptr, hostapi.BufferHandle, []byte) int {
			reached = append(reached, "eater")
			return hostapi.ReturnOKEat
		}, 0)
	h.HookCommandRun([]byte("/stop *"),
		func(uintptr, hostapi.BufferHandle, []byte) int {
			reached = append(reached, "later")
			return hostapi.ReturnOK
		}, 0)
	h.HookCommand([]byte("stop"), nil, nil, nil, nil,
		func(uintptr, hostapi.BufferHandle, [][]byte) int {
			reached = append(reached, "command")
			return hostapi.ReturnOK
		}, 0)

	h.dispatchInput(0, "/stop now")

	assert.Equal(t, []string{"eater"}, reached)
}

func TestInterceptorContinueReachesCommand(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var reached []string
	h.HookCommandRun([]byte("/go *"),
		func(uintptr, hostapi.BufferHandle, []byte) int {
			reached = append(reached, "interceptor")
			return hostapi.ReturnOK
		}, 0)
	h.HookCommand([]byte("go"), nil, nil, nil, nil,
		func(uintptr, hostapi.BufferHandle, [][]byte) int {
			reached = append(reached, "command")
			return hostapi.ReturnOK
		}, 0)

	h.dispatchInput(0, "/go now")

	assert.Equal(t, []string{"interceptor", "command"}, reached)
}

func TestInterceptorReceivesFullLine(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var got string
	h.HookCommandRun([]byte("*"),
		func(_ uintptr, _ hostapi.BufferHandle, line []byte) int {
			got = string(line)
			return hostapi.ReturnOK
		}, 0)

	h.dispatchInput(0, "/msg alice hi there")
	assert.Equal(t, "/msg alice hi there", got)
}

func TestUnhookRemovesCommand(t *testing.T) {
	h, out := newTestDemoHost(t)

	calls := 0
	id := h.HookCommand([]byte("gone"), nil, nil, nil, nil,
		func(uintptr, hostapi.BufferHandle, [][]byte) int {
			calls++
			return hostapi.ReturnOK
		}, 0)

	h.dispatchInput(0, "/gone")
	h.Unhook(id)
	h.dispatchInput(0, "/gone")

	assert.Equal(t, 1, calls)
	assert.Contains(t, out.String(), "unknown command: /gone")
}

func TestUnhookUnknownIDIsIgnored(t *testing.T) {
	h, _ := newTestDemoHost(t)
	assert.NotPanics(t, func() { h.Unhook(hostapi.HookID(999)) })
}

func TestBufferOpenedSignal(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var opened []string
	h.HookSignal([]byte("buffer_opened"),
		func(_ uintptr, _ []byte, value hostapi.SignalValue) int {
			opened = append(opened, string(h.BufferName(value.Buffer)))
			return hostapi.ReturnOK
		}, 0)

	h.ensureBuffer("#go-nuts")
	h.ensureBuffer("#go-nuts") // second lookup must not reopen

	assert.Equal(t, []string{"irc.irc.test.#go-nuts"}, opened)
}

func TestSignalWildcardMatch(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var seen []string
	h.HookSignal([]byte("irc_*"),
		func(_ uintptr, signal []byte, _ hostapi.SignalValue) int {
			seen = append(seen, string(signal))
			return hostapi.ReturnOK
		}, 0)

	h.emitSignal("irc_connected", hostapi.SignalValue{})
	h.emitSignal("buffer_opened", hostapi.SignalValue{})

	assert.Equal(t, []string{"irc_connected"}, seen)
}

func TestSignalEatStopsPropagation(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var reached []string
	h.HookSignal([]byte("quit"),
		func(uintptr, []byte, hostapi.SignalValue) int {
			reached = append(reached, "first")
			return hostapi.ReturnOKEat
		}, 0)
	h.HookSignal([]byte("quit"),
		func(uintptr, []byte, hostapi.SignalValue) int {
			reached = append(reached, "second")
			return hostapi.ReturnOK
		}, 0)

	h.emitSignal("quit", hostapi.SignalValue{})
	assert.Equal(t, []string{"first"}, reached)
}

func TestTimerCountsDownAndExpires(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var got []int
	id := h.HookTimer(time.Hour, 0, 2,
		func(_ uintptr, remaining int) int {
			got = append(got, remaining)
			return hostapi.ReturnOK
		}, 0)
	tm := h.timers[id]

	h.fireTimer(tm)
	h.fireTimer(tm)
	h.fireTimer(tm) // expired, must not fire again

	assert.Equal(t, []int{1, 0}, got)
	assert.NotContains(t, h.timers, id)
}

func TestTimerUnboundedRemaining(t *testing.T) {
	h, _ := newTestDemoHost(t)

	var got []int
	id := h.HookTimer(time.Hour, 0, 0,
		func(_ uintptr, remaining int) int {
			got = append(got, remaining)
			return hostapi.ReturnOK
		}, 0)
	tm := h.timers[id]

	h.fireTimer(tm)
	h.fireTimer(tm)
	h.Unhook(id)

	assert.Equal(t, []int{-1, -1}, got)
	assert.NotContains(t, h.timers, id)
}

func TestPrintAndCommandRoundTrip(t *testing.T) {
	h, out := newTestDemoHost(t)

	h.HookCommand([]byte("hi"), nil, nil, nil, nil,
		func(_ uintptr, buffer hostapi.BufferHandle, _ [][]byte) int {
			h.Print(buffer, []byte("hello"))
			return hostapi.ReturnOK
		}, 0)

	// Command re-enters dispatch, as if the user typed the line.
	h.Command(0, []byte("/hi"))
	assert.Contains(t, out.String(), "core\thello")
}

func TestHelpListsRegisteredCommands(t *testing.T) {
	h, out := newTestDemoHost(t)

	h.HookCommand([]byte("greet"), []byte("say hello"), []byte("<name>"), nil, nil,
		func(uintptr, hostapi.BufferHandle, [][]byte) int { return hostapi.ReturnOK }, 0)

	h.dispatchInput(0, "/help")

	s := out.String()
	assert.Contains(t, s, "/greet — say hello")
	assert.Contains(t, s, "usage: /greet <name>")
}
