// Package flatpack implements the length-prefixed record grammar that
// rides inside a decrypted UPMv3 container: the database header
// (revision, remote repository settings) followed by a flat list of
// accounts, each five consecutive length-prefixed strings.
package flatpack

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// MaxStringLength is the largest payload a single length-prefixed
// string may carry; the two-byte length prefix cannot express more.
const MaxStringLength = 65535

var (
	// ErrTruncated is returned when a length prefix or its payload runs
	// past the end of the buffer.
	ErrTruncated = errors.New("flatpack: truncated record")

	// ErrStringTooLong is returned by the encoder when asked to write a
	// string longer than MaxStringLength bytes.
	ErrStringTooLong = errors.New("flatpack: string exceeds 65535 bytes")

	// ErrBadUTF8 is returned when a record's payload is not valid UTF-8.
	ErrBadUTF8 = errors.New("flatpack: record is not valid UTF-8")

	// ErrDuplicateAccountName is returned when two accounts in the same
	// payload share a name.
	ErrDuplicateAccountName = errors.New("flatpack: duplicate account name")

	// ErrRevisionNotInteger is returned when the revision record isn't
	// an ASCII decimal integer.
	ErrRevisionNotInteger = errors.New("flatpack: revision is not an integer")
)

// Header carries the four metadata records that precede the account
// list: the database revision and the optional remote repository URL,
// user and password.
type Header struct {
	Revision       uint32
	RemoteURL      string
	RemoteUser     string
	RemotePassword string
}

// Account is a single credential record. All fields are length-prefixed
// UTF-8 strings in the on-disk grammar.
type Account struct {
	Name     string
	User     string
	Password string
	URL      string
	Notes    string
}

// Payload is a decoded flatpack buffer: a header plus its accounts.
type Payload struct {
	Header   Header
	Accounts []Account
}

// Encode serializes a header and its accounts into flatpack bytes.
// Accounts are emitted sorted by name (case-sensitive, byte order) so
// that encoding the same database twice with the same salt produces
// identical ciphertext.
func Encode(p Payload) ([]byte, error) {
	accounts := make([]Account, len(p.Accounts))
	copy(accounts, p.Accounts)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	var buf bytes.Buffer
	if err := writeString(&buf, strconv.FormatUint(uint64(p.Header.Revision), 10)); err != nil {
		return nil, err
	}
	if err := writeString(&buf, p.Header.RemoteURL); err != nil {
		return nil, err
	}
	if err := writeString(&buf, p.Header.RemoteUser); err != nil {
		return nil, err
	}
	if err := writeString(&buf, p.Header.RemotePassword); err != nil {
		return nil, err
	}

	for _, a := range accounts {
		for _, s := range []string{a.Name, a.User, a.Password, a.URL, a.Notes} {
			if err := writeString(&buf, s); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

// Decode parses flatpack bytes into a Payload. Account names must be
// unique within the buffer; the on-disk order of accounts is not
// constrained and is preserved as read.
func Decode(data []byte) (Payload, error) {
	r := &reader{buf: data}

	revisionStr, err := r.readString()
	if err != nil {
		return Payload{}, err
	}
	revision, err := strconv.ParseUint(revisionStr, 10, 32)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %q", ErrRevisionNotInteger, revisionStr)
	}

	remoteURL, err := r.readString()
	if err != nil {
		return Payload{}, err
	}
	remoteUser, err := r.readString()
	if err != nil {
		return Payload{}, err
	}
	remotePassword, err := r.readString()
	if err != nil {
		return Payload{}, err
	}

	var accounts []Account
	seen := make(map[string]struct{})
	for r.pos < len(r.buf) {
		name, err := r.readString()
		if err != nil {
			return Payload{}, err
		}
		user, err := r.readString()
		if err != nil {
			return Payload{}, err
		}
		password, err := r.readString()
		if err != nil {
			return Payload{}, err
		}
		url, err := r.readString()
		if err != nil {
			return Payload{}, err
		}
		notes, err := r.readString()
		if err != nil {
			return Payload{}, err
		}

		if _, dup := seen[name]; dup {
			return Payload{}, fmt.Errorf("%w: %q", ErrDuplicateAccountName, name)
		}
		seen[name] = struct{}{}

		accounts = append(accounts, Account{
			Name:     name,
			User:     user,
			Password: password,
			URL:      url,
			Notes:    notes,
		})
	}

	return Payload{
		Header: Header{
			Revision:       uint32(revision),
			RemoteURL:      remoteURL,
			RemoteUser:     remoteUser,
			RemotePassword: remotePassword,
		},
		Accounts: accounts,
	}, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > MaxStringLength {
		return ErrStringTooLong
	}
	buf.WriteByte(byte(len(s) >> 8))
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) readString() (string, error) {
	if r.pos+2 > len(r.buf) {
		return "", ErrTruncated
	}
	length := int(r.buf[r.pos])<<8 | int(r.buf[r.pos+1])
	r.pos += 2

	if r.pos+length > len(r.buf) {
		return "", ErrTruncated
	}
	payload := r.buf[r.pos : r.pos+length]
	r.pos += length

	if !utf8.Valid(payload) {
		return "", ErrBadUTF8
	}
	return string(payload), nil
}
