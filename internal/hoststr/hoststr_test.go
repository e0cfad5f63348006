package hoststr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePassesCleanStrings(t *testing.T) {
	assert.Equal(t, []byte("irc server add"), Encode("irc server add"))
}

func TestEncodeSubstitutesInvalidUTF8(t *testing.T) {
	assert.Equal(t, []byte("a�b"), Encode("a\xffb"))
}

func TestEncodeSubstitutesInteriorNUL(t *testing.T) {
	assert.Equal(t, []byte("a�b"), Encode("a\x00b"))
}

func TestEncodeNeverEmptyOnGarbage(t *testing.T) {
	out := Encode("\xff\x00\xfe")
	assert.Equal(t, "���", string(out))
}

func TestDecodeSubstitutesInvalidUTF8(t *testing.T) {
	assert.Equal(t, "cmd � arg", Decode([]byte("cmd \xc3 arg")))
}

func TestDecodeRoundTrip(t *testing.T) {
	assert.Equal(t, "héllo wörld", Decode(Encode("héllo wörld")))
}
