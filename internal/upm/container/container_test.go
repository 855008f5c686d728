package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payload := []byte("some flatpack bytes, doesn't matter to this layer")

	encoded, err := Encode(payload, "correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, byte('U'), encoded[0])
	assert.Equal(t, byte('P'), encoded[1])
	assert.Equal(t, byte('M'), encoded[2])
	assert.Equal(t, byte(Version), encoded[3])

	decoded, err := Decode(encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestEncode_FreshSaltEachCall(t *testing.T) {
	payload := []byte("same payload")

	a, err := Encode(payload, "passphrase")
	require.NoError(t, err)
	b, err := Encode(payload, "passphrase")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two Encode calls with identical input must not produce identical ciphertext")
}

func TestDecode_WrongPassphrase(t *testing.T) {
	encoded, err := Encode([]byte("secrets"), "right-passphrase")
	require.NoError(t, err)

	_, err = Decode(encoded, "wrong-passphrase")
	assert.ErrorIs(t, err, ErrBadPassphrase)
}

func TestDecode_BadMagic(t *testing.T) {
	_, err := Decode([]byte("not a upm file at all, too short"), "whatever")
	assert.ErrorIs(t, err, ErrBadMagic)

	bogus := make([]byte, headerSize+8)
	copy(bogus, "XXX")
	_, err = Decode(bogus, "whatever")
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	encoded, err := Encode([]byte("payload"), "passphrase")
	require.NoError(t, err)
	encoded[3] = 0x99

	_, err = Decode(encoded, "passphrase")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestEncodeDecode_EmptyPayload(t *testing.T) {
	encoded, err := Encode(nil, "passphrase")
	require.NoError(t, err)

	decoded, err := Decode(encoded, "passphrase")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
