package flatpack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	p := Payload{
		Header: Header{
			Revision:       42,
			RemoteURL:      "https://upm.example.com/sync",
			RemoteUser:     "alice",
			RemotePassword: "s3kr3t",
		},
		Accounts: []Account{
			{Name: "zebra", User: "z", Password: "zp", URL: "z.example.com", Notes: "last"},
			{Name: "apple", User: "a", Password: "ap", URL: "a.example.com", Notes: "first"},
		},
	}

	encoded, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, p.Header, decoded.Header)
	require.Len(t, decoded.Accounts, 2)
	// Encode sorts by name, byte order.
	assert.Equal(t, "apple", decoded.Accounts[0].Name)
	assert.Equal(t, "zebra", decoded.Accounts[1].Name)
}

func TestEncodeDecode_EmptyDatabase(t *testing.T) {
	p := Payload{Header: Header{Revision: 0}}
	encoded, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded.Accounts)
	assert.Equal(t, uint32(0), decoded.Header.Revision)
}

func TestDecode_Truncated(t *testing.T) {
	_, err := Decode([]byte{0x00})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode([]byte{0x00, 0x05, 'h', 'i'})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecode_RevisionNotInteger(t *testing.T) {
	var buf []byte
	buf = appendString(buf, "not-a-number")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")

	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrRevisionNotInteger)
}

func TestDecode_DuplicateAccountName(t *testing.T) {
	var buf []byte
	buf = appendString(buf, "1")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	for i := 0; i < 2; i++ {
		buf = appendString(buf, "dupe")
		buf = appendString(buf, "u")
		buf = appendString(buf, "p")
		buf = appendString(buf, "")
		buf = appendString(buf, "")
	}

	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrDuplicateAccountName)
}

func TestDecode_BadUTF8(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x01, 0xFF) // invalid UTF-8 byte as the "revision" string
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrBadUTF8)
}

func TestEncodeDecode_MaxLengthString(t *testing.T) {
	notes := strings.Repeat("n", MaxStringLength)
	p := Payload{
		Header:   Header{Revision: 1},
		Accounts: []Account{{Name: "big", Notes: notes}},
	}

	encoded, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded.Accounts, 1)
	assert.Equal(t, notes, decoded.Accounts[0].Notes)
}

func TestEncode_StringTooLong(t *testing.T) {
	p := Payload{
		Header:   Header{},
		Accounts: []Account{{Name: string(make([]byte, MaxStringLength+1))}},
	}
	_, err := Encode(p)
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)>>8), byte(len(s)))
	return append(buf, s...)
}
