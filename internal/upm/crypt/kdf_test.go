package crypt

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Known-answer vectors computed with an independent implementation of
// the RFC 7292 Appendix B algorithm (SHA-1, 20 iterations). If these
// ever fail, existing databases can no longer be decrypted.
func TestDeriveKeyIV_KnownVectors(t *testing.T) {
	vectors := []struct {
		passphrase string
		salt       string
		wantKey    string
		wantIV     string
	}{
		{
			passphrase: "password",
			salt:       "0001020304050607",
			wantKey:    "039c8ac4a8e1a7dfcd263dcfdb52f73d6090385eef29df32",
			wantIV:     "6497eca0559c8fc8",
		},
		{
			passphrase: "xyzzy",
			salt:       "35b366e2f528bf3e",
			wantKey:    "e7ff66eabe07d6320af84fc9bc8a0ca8293954e131a14ab7",
			wantIV:     "d7d94f7541dffc87",
		},
	}

	for _, v := range vectors {
		saltBytes, err := hex.DecodeString(v.salt)
		require.NoError(t, err)
		var salt [8]byte
		copy(salt[:], saltBytes)

		key, iv, err := DeriveKeyIV(v.passphrase, salt)
		require.NoError(t, err)
		assert.Equal(t, v.wantKey, hex.EncodeToString(key[:]))
		assert.Equal(t, v.wantIV, hex.EncodeToString(iv[:]))
	}
}

func TestDeriveKeyIV_Deterministic(t *testing.T) {
	var salt [8]byte
	copy(salt[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	key1, iv1, err := DeriveKeyIV("password", salt)
	require.NoError(t, err)
	key2, iv2, err := DeriveKeyIV("password", salt)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
	assert.Equal(t, iv1, iv2)
}

func TestDeriveKeyIV_KeyAndIVAreIndependent(t *testing.T) {
	var salt [8]byte
	copy(salt[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	key, iv, err := DeriveKeyIV("password", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key[:8], iv[:])
}

func TestDeriveKeyIV_SaltChangesOutput(t *testing.T) {
	var saltA, saltB [8]byte
	copy(saltA[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	copy(saltB[:], []byte{0xFF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	keyA, ivA, err := DeriveKeyIV("password", saltA)
	require.NoError(t, err)
	keyB, ivB, err := DeriveKeyIV("password", saltB)
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB)
	assert.NotEqual(t, ivA, ivB)
}

func TestDeriveKeyIV_PassphraseChangesOutput(t *testing.T) {
	var salt [8]byte
	copy(salt[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	keyA, _, err := DeriveKeyIV("password", salt)
	require.NoError(t, err)
	keyB, _, err := DeriveKeyIV("PASSWORD", salt)
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB)
}

func TestBmpString(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00}, bmpString(""))
	assert.Equal(t, []byte{
		0x00, 0x68, 0x00, 0x65, 0x00, 0x6C, 0x00, 0x6C,
		0x00, 0x6F, 0x00, 0x20, 0x00, 0x77, 0x00, 0x6F,
		0x00, 0x72, 0x00, 0x6C, 0x00, 0x64, 0x00, 0x00,
	}, bmpString("hello world"))
}

func TestAddBlocks(t *testing.T) {
	dst := []byte{0xFF, 0xFF}
	addBlocks(dst, []byte{0x00, 0x01})
	assert.Equal(t, []byte{0x00, 0x00}, dst) // wraps mod 2^16

	dst = []byte{0x00, 0x01}
	addBlocks(dst, []byte{0x00, 0x01})
	assert.Equal(t, []byte{0x00, 0x02}, dst)
}

func TestFillToBlock(t *testing.T) {
	assert.Nil(t, fillToBlock(nil))
	out := fillToBlock([]byte{1, 2, 3})
	assert.Len(t, out, hashBlockSize)
	assert.Equal(t, byte(1), out[0])
	assert.Equal(t, byte(3), out[2])
	assert.Equal(t, byte(1), out[3])
}
