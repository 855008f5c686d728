// Package crypt implements the cryptographic envelope used by UPMv3
// databases: the PKCS#12 v1.0 key derivation function from RFC 7292
// Appendix B, and 3-key Triple-DES in CBC mode with PKCS#7 padding.
//
// The KDF's iteration count (20) and choice of SHA-1 are preserved
// exactly for compatibility with existing UPM databases. Do not "fix"
// them; doing so breaks interoperability.
package crypt

import "errors"

var (
	// ErrBadPassphrase is returned when the supplied passphrase does not
	// decrypt to a recognizable plaintext.
	ErrBadPassphrase = errors.New("crypt: incorrect passphrase")

	// ErrBadPadding is returned when a decrypted buffer's PKCS#7 padding
	// is malformed. It is reported distinctly from ErrBadPassphrase so
	// callers can tell corruption apart from a simple wrong-password
	// case, though both are commonly folded together by the caller.
	ErrBadPadding = errors.New("crypt: invalid PKCS#7 padding")

	// ErrShortInput is returned when ciphertext is not a positive
	// multiple of the cipher's block size.
	ErrShortInput = errors.New("crypt: ciphertext is not block-aligned")
)
