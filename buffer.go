package plugbridge

import (
	"github.com/soyeahso/plugbridge/hostapi"
	"github.com/soyeahso/plugbridge/internal/hoststr"
)

// Buffer is a non-owning view of a host buffer, resolved from the raw
// handle the host passes into trampolines. It is only valid while the host
// keeps the underlying buffer alive; hooks must not retain one across
// invocations.
type Buffer struct {
	host   *Host
	handle hostapi.BufferHandle
}

// BufferFromHandle resolves a raw buffer handle received from the host into
// a Buffer bound to this host handle.
func (h *Host) BufferFromHandle(handle hostapi.BufferHandle) *Buffer {
	return &Buffer{host: h, handle: handle}
}

// CoreBuffer returns the host's core buffer.
func (h *Host) CoreBuffer() *Buffer {
	return h.BufferFromHandle(0)
}

// Handle returns the raw host handle of the buffer.
func (b *Buffer) Handle() hostapi.BufferHandle { return b.handle }

// Name returns the buffer's full name.
func (b *Buffer) Name() string {
	return hoststr.Decode(b.host.api.BufferName(b.handle))
}

// Print writes a message line into the buffer.
func (b *Buffer) Print(message string) {
	b.host.api.Print(b.handle, hoststr.Encode(message))
}

// RunCommand executes a command line in the buffer as if the user typed it.
func (b *Buffer) RunCommand(command string) {
	b.host.api.Command(b.handle, hoststr.Encode(command))
}
