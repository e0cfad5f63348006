// Package hoststr converts between Go strings and the host's byte strings.
// Conversion is lossy by policy: content the host encoding cannot carry is
// substituted with U+FFFD so that no registration call ever fails over text.
package hoststr

import "strings"

const replacement = "�"

// Encode converts s into a host string: valid UTF-8 with no interior NUL
// bytes. Unrepresentable sequences are substituted, never reported.
func Encode(s string) []byte {
	s = strings.ToValidUTF8(s, replacement)
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", replacement)
	}
	return []byte(s)
}

// Decode converts a host byte string into a Go string, substituting any
// invalid sequence.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), replacement)
}
