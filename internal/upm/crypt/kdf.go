package crypt

import (
	"crypto/sha1"
	"unicode/utf16"
)

// Purpose identifiers for the PKCS#12 v1.0 KDF (RFC 7292 Appendix B.3).
const (
	purposeKey byte = 1
	purposeIV  byte = 2
)

const (
	// keySize is the length in bytes of a 3-key Triple-DES key.
	keySize = 24
	// ivSize is the length in bytes of the CBC initialization vector.
	ivSize = 8
	// iterations is fixed at 20 for UPMv3 compatibility. Never change this.
	iterations = 20

	hashBlockSize  = 64 // SHA-1 block size, in bytes ("v" in RFC 7292)
	hashOutputSize = 20 // SHA-1 digest size, in bytes ("u" in RFC 7292)
)

// DeriveKeyIV derives the Triple-DES key and CBC IV for the given
// passphrase and 8-byte salt, using the PKCS#12 v1.0 KDF specified in
// RFC 7292 Appendix B with SHA-1 and 20 iterations. The two outputs are
// independent invocations of the KDF distinguished only by their
// purpose identifier.
func DeriveKeyIV(passphrase string, salt [ivSize]byte) (key [keySize]byte, iv [ivSize]byte, err error) {
	keyBytes, err := deriveMaterial(passphrase, salt[:], purposeKey, keySize)
	if err != nil {
		return key, iv, err
	}
	ivBytes, err := deriveMaterial(passphrase, salt[:], purposeIV, ivSize)
	if err != nil {
		return key, iv, err
	}
	copy(key[:], keyBytes)
	copy(iv[:], ivBytes)
	zero(keyBytes)
	zero(ivBytes)
	return key, iv, nil
}

// deriveMaterial implements the PKCS#12 v1.0 key derivation algorithm
// from RFC 7292 Appendix B, with SHA-1 as the hash function.
func deriveMaterial(passphrase string, salt []byte, id byte, size int) ([]byte, error) {
	p := bmpString(passphrase)
	defer zero(p)

	// D: a v-byte string, each byte equal to id.
	d := make([]byte, hashBlockSize)
	for i := range d {
		d[i] = id
	}

	// S: salt repeated to the next multiple of v bytes (0 if salt is empty).
	s := fillToBlock(salt)
	// P: password repeated to the next multiple of v bytes (0 if empty).
	pp := fillToBlock(p)

	i := append(append([]byte{}, s...), pp...)

	c := (size + hashOutputSize - 1) / hashOutputSize
	out := make([]byte, 0, c*hashOutputSize)

	for n := 0; n < c; n++ {
		// A = H^iterations(D || I)
		a := hashRounds(append(append([]byte{}, d...), i...), iterations)

		out = append(out, a...)

		if n == c-1 {
			break
		}

		// B = A repeated to fill v bytes.
		b := make([]byte, hashBlockSize)
		for j := range b {
			b[j] = a[j%len(a)]
		}

		// For each v-byte block of I, I_j = (I_j + B) mod 2^(v*8).
		for off := 0; off < len(i); off += hashBlockSize {
			addBlocks(i[off:off+hashBlockSize], b)
		}
	}

	return out[:size], nil
}

func hashRounds(data []byte, rounds int) []byte {
	sum := sha1.Sum(data)
	a := sum[:]
	for r := 1; r < rounds; r++ {
		sum = sha1.Sum(a)
		a = sum[:]
	}
	return a
}

// fillToBlock repeats data until its length is the next multiple of
// hashBlockSize, truncating the final copy. An empty input yields an
// empty output, per RFC 7292 Appendix B.
func fillToBlock(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	n := ((len(data) + hashBlockSize - 1) / hashBlockSize) * hashBlockSize
	out := make([]byte, n)
	for i := range out {
		out[i] = data[i%len(data)]
	}
	return out
}

// addBlocks treats dst and b as big-endian unsigned integers of equal
// length and sets dst = (dst + b) mod 2^(8*len(dst)), in place.
func addBlocks(dst, b []byte) {
	carry := 0
	for i := len(dst) - 1; i >= 0; i-- {
		sum := int(dst[i]) + int(b[i]) + carry
		dst[i] = byte(sum)
		carry = sum >> 8
	}
}

// bmpString encodes a passphrase as a null-terminated, big-endian
// UTF-16 ("BMPString") byte sequence, as required by PKCS#12 before
// hashing. Codepoints outside the Basic Multilingual Plane are encoded
// as UTF-16 surrogate pairs rather than silently dropped.
func bmpString(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2+2)
	for i, u := range units {
		out[2*i] = byte(u >> 8)
		out[2*i+1] = byte(u)
	}
	return out
}

// zero overwrites a byte slice with zeroes, best-effort, for sensitive
// intermediate buffers (passphrase encodings, derived key material).
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
