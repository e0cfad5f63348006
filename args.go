package plugbridge

import (
	"iter"

	"github.com/soyeahso/plugbridge/internal/hoststr"
)

// Args is the argument list handed to a command callback. By host
// convention the first element is the command name itself. Elements are
// decoded from the host encoding lazily, on access.
type Args struct {
	raw [][]byte
}

// NewArgs wraps the raw argument vector received from the host.
func NewArgs(argv [][]byte) Args {
	return Args{raw: argv}
}

// Len returns the number of arguments, the command name included.
func (a Args) Len() int { return len(a.raw) }

// At returns the i-th argument.
func (a Args) At(i int) string { return hoststr.Decode(a.raw[i]) }

// All iterates over the arguments in order.
func (a Args) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, raw := range a.raw {
			if !yield(hoststr.Decode(raw)) {
				return
			}
		}
	}
}

// Slice returns all arguments as a new slice.
func (a Args) Slice() []string {
	out := make([]string, len(a.raw))
	for i, raw := range a.raw {
		out[i] = hoststr.Decode(raw)
	}
	return out
}
