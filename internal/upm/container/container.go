// Package container implements the on-disk UPMv3 envelope: a short
// plaintext header (magic, version, salt) wrapped around a Triple-DES
// ciphertext produced by the crypt package. The decrypted payload
// repeats the magic and version so a wrong passphrase can be detected
// without any other authentication tag.
package container

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/simmons/tupm/internal/upm/crypt"
)

// magic identifies a UPM database file, on disk and again as the first
// bytes of the decrypted payload.
var magic = [3]byte{'U', 'P', 'M'}

// Version is the only container version this package reads or writes.
const Version = 0x03

const (
	saltSize   = 8
	headerSize = len(magic) + 1 + saltSize
)

var (
	// ErrBadMagic is returned when the buffer doesn't start with the
	// UPM magic bytes.
	ErrBadMagic = errors.New("container: not a UPM database")

	// ErrUnsupportedVersion is returned when the container's version
	// byte isn't one this package understands.
	ErrUnsupportedVersion = errors.New("container: unsupported version")

	// ErrBadPassphrase is returned when decryption "succeeds" (correct
	// padding) but the inner magic/version don't match, meaning the
	// passphrase used to derive the key was wrong.
	ErrBadPassphrase = crypt.ErrBadPassphrase
)

// Decode verifies and decrypts a UPM container, returning the raw
// flatpack payload. It returns ErrBadMagic or ErrUnsupportedVersion for
// a malformed outer header, and ErrBadPassphrase if the passphrase does
// not decrypt to a well-formed inner header.
func Decode(data []byte, passphrase string) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrBadMagic
	}
	if data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] {
		return nil, ErrBadMagic
	}
	if data[3] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[3])
	}

	var salt [saltSize]byte
	copy(salt[:], data[4:4+saltSize])
	ciphertext := data[headerSize:]

	key, iv, err := crypt.DeriveKeyIV(passphrase, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypt.Decrypt(key, iv, ciphertext)
	if err != nil {
		if errors.Is(err, crypt.ErrBadPadding) || errors.Is(err, crypt.ErrShortInput) {
			return nil, ErrBadPassphrase
		}
		return nil, err
	}

	if len(plaintext) < headerSize-saltSize || plaintext[0] != magic[0] ||
		plaintext[1] != magic[1] || plaintext[2] != magic[2] || plaintext[3] != Version {
		return nil, ErrBadPassphrase
	}

	return plaintext[4:], nil
}

// Encode encrypts payload under a freshly generated random salt and
// wraps it in a UPM container header. Each call produces a different
// salt (and therefore different ciphertext) even for identical input.
func Encode(payload []byte, passphrase string) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, fmt.Errorf("container: generating salt: %w", err)
	}

	key, iv, err := crypt.DeriveKeyIV(passphrase, salt)
	if err != nil {
		return nil, err
	}

	inner := make([]byte, 0, 4+len(payload))
	inner = append(inner, magic[0], magic[1], magic[2], Version)
	inner = append(inner, payload...)

	ciphertext, err := crypt.Encrypt(key, iv, inner)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(ciphertext))
	out = append(out, magic[0], magic[1], magic[2], Version)
	out = append(out, salt[:]...)
	out = append(out, ciphertext...)
	return out, nil
}
