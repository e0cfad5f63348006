// Package plugbridge ties Go plugin code to a chat-client host's native
// plugin API. It owns the process-wide host handle established at plugin
// load and the contextual objects (buffers, argument lists) that hook
// callbacks receive.
//
// The host serializes all plugin API calls onto one goroutine. Init must be
// called on that goroutine; every registration, deregistration, and callback
// afterwards happens there too. Calling in from anywhere else is a contract
// violation and panics.
package plugbridge

import (
	"io"

	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/logging"
	"github.com/soyeahso/plugbridge/internal/mainthread"
)

// Options configures the SDK at plugin load.
type Options struct {
	// LogWriter receives SDK logs; nil means pretty console output on
	// stderr.
	LogWriter io.Writer
	// LogLevel is the minimum level ("trace" through "error", or
	// "silent"); empty means info.
	LogLevel string
}

// Host is the process-wide handle to the plugin host. It is established
// once by Init, shared read-only by every hook, and must outlive all of
// them.
type Host struct {
	api hostapi.API
	log *logging.Logger
}

var current *Host

// Init installs the process-wide host handle and pins the calling goroutine
// as the host callback goroutine. It must be called exactly once at plugin
// load, from the goroutine the host invokes callbacks on.
func Init(api hostapi.API, opts Options) *Host {
	if api == nil {
		panic("plugbridge: Init with nil host API")
	}
	if current != nil {
		panic("plugbridge: Init called twice without Shutdown")
	}
	mainthread.Pin()
	current = &Host{
		api: api,
		log: logging.New(opts.LogWriter, opts.LogLevel).Sub("plugbridge"),
	}
	current.log.Debug().Msg("host handle initialized")
	return current
}

// Current returns the host handle installed by Init. It panics when called
// before Init or from the wrong goroutine.
func Current() *Host {
	if current == nil {
		panic("plugbridge: Current called before Init")
	}
	mainthread.Check()
	return current
}

// Shutdown releases the host handle at plugin unload. All hook guards must
// already be unhooked; the host context they reference is invalid afterwards.
func Shutdown() {
	if current == nil {
		return
	}
	mainthread.Check()
	current.log.Debug().Msg("host handle shut down")
	current = nil
	mainthread.Unpin()
}

// API exposes the raw host plugin API.
func (h *Host) API() hostapi.API { return h.api }

// Logger returns the SDK logger scoped to this host handle.
func (h *Host) Logger() *logging.Logger { return h.log }
