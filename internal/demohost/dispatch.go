package demohost

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/soyeahso/plugbridge/hostapi"
)

// defaultPriority is assigned to interceptor patterns without an explicit
// priority prefix.
const defaultPriority = 1000

// splitPriority parses a "priority|pattern" interceptor spec. A missing or
// malformed prefix yields the default priority and the spec unchanged.
func splitPriority(spec string) (int, string) {
	i := strings.IndexByte(spec, '|')
	if i <= 0 {
		return defaultPriority, spec
	}
	priority, err := strconv.Atoi(spec[:i])
	if err != nil {
		return defaultPriority, spec
	}
	return priority, spec[i+1:]
}

// matchPattern reports whether s matches pattern, where * matches any run
// of characters, including the empty one. Patterns are short command specs,
// so plain backtracking is fine.
func matchPattern(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	if pattern[0] == '*' {
		for i := 0; i <= len(s); i++ {
			if matchPattern(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	}
	return s != "" && s[0] == pattern[0] && matchPattern(pattern[1:], s[1:])
}

// orderedInterceptors returns the interceptors that should see a command,
// highest priority first, registration order within a priority.
func (h *Host) orderedInterceptors() []*interceptorHook {
	out := slices.Clone(h.interceptors)
	slices.SortStableFunc(out, func(a, b *interceptorHook) int {
		return b.priority - a.priority
	})
	return out
}

// dispatchInput handles one line of user input in a buffer. Plain text is
// relayed to the buffer's IRC target; command lines go through interceptors
// and then the registered or built-in command.
func (h *Host) dispatchInput(handle hostapi.BufferHandle, line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	if !strings.HasPrefix(line, "/") {
		h.sendMessage(handle, line)
		return
	}

	dispatchID := uuid.NewString()
	log := h.log.Sub("dispatch")

	// Interceptors see the command first and may eat it.
	for _, ic := range h.orderedInterceptors() {
		if !matchPattern(ic.pattern, line) {
			continue
		}
		if ic.fn(ic.data, handle, []byte(line)) == hostapi.ReturnOKEat {
			log.Debug().
				Str("id", dispatchID).
				Str("pattern", ic.pattern).
				Str("line", line).
				Msg("command eaten by interceptor")
			return
		}
	}

	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], "/")

	for _, cmd := range h.commands {
		if cmd.name != name {
			continue
		}
		argv := make([][]byte, len(fields))
		argv[0] = []byte(name)
		for i, f := range fields[1:] {
			argv[i+1] = []byte(f)
		}
		log.Debug().Str("id", dispatchID).Str("command", name).Msg("dispatching command")
		cmd.fn(cmd.data, handle, argv)
		return
	}

	h.builtin(handle, name, fields[1:])
}

// builtin handles the host's own commands when no hook claimed the name.
func (h *Host) builtin(handle hostapi.BufferHandle, name string, args []string) {
	switch name {
	case "join":
		if len(args) == 1 && h.irc != nil {
			h.irc.join(args[0])
			h.current = h.ensureBuffer(args[0]).handle
		}
	case "buffer":
		if len(args) == 1 {
			if target, ok := h.byTarget[args[0]]; ok {
				h.current = target
			} else if args[0] == "core" {
				h.current = 0
			}
		}
	case "msg":
		if len(args) >= 2 {
			h.sendMessage(h.ensureBuffer(args[0]).handle, strings.Join(args[1:], " "))
		}
	case "help":
		h.printHelp(handle)
	case "quit":
		if h.irc != nil {
			h.irc.quit(strings.Join(args, " "))
		}
	default:
		h.Print(handle, []byte("unknown command: /"+name))
	}
}

func (h *Host) printHelp(handle hostapi.BufferHandle) {
	h.Print(handle, []byte("built-in commands: /join /buffer /msg /help /quit"))
	for _, cmd := range h.commands {
		h.Print(handle, []byte("/"+cmd.name+" — "+cmd.description))
		if cmd.args != "" {
			for _, tpl := range strings.Split(cmd.args, "||") {
				h.Print(handle, []byte("  usage: /"+cmd.name+" "+tpl))
			}
		}
	}
}

// sendMessage relays plain input to the buffer's IRC target and shows it
// locally.
func (h *Host) sendMessage(handle hostapi.BufferHandle, text string) {
	buf, ok := h.buffers[handle]
	if !ok || buf.target == "" {
		h.Print(handle, []byte("this buffer has no target; use /msg or /join"))
		return
	}
	if h.irc != nil {
		h.irc.message(buf.target, text)
	}
	h.Print(handle, []byte(h.cfg.Nick+": "+text))
}
