package crypt

import (
	"crypto/cipher"
	"crypto/des"
)

const blockSize = des.BlockSize // 8 bytes, shared by DES and 3-key Triple-DES

// Encrypt encrypts plaintext with 3-key Triple-DES in CBC mode,
// applying PKCS#7 padding first. key must be 24 bytes and iv 8 bytes,
// as produced by DeriveKeyIV.
func Encrypt(key [keySize]byte, iv [ivSize]byte, plaintext []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(key[:])
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv[:])
	mode.CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext with 3-key Triple-DES in CBC mode and
// removes PKCS#7 padding. Returns ErrShortInput if ciphertext isn't
// block-aligned, or ErrBadPadding if the padding is malformed.
func Decrypt(key [keySize]byte, iv [ivSize]byte, ciphertext []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(key[:])
	if err != nil {
		return nil, err
	}

	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, ErrShortInput
	}

	padded := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv[:])
	mode.CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, block.BlockSize())
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-padLen], nil
}
