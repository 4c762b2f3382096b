// Package evpaes implements password-based AES-256-CBC encryption compatible
// with the OpenSSL salted format: an 8-byte "Salted__" marker, an 8-byte random
// salt, then the ciphertext. Key and IV are re-derivable from password and salt,
// so no IV travels on the wire.
package evpaes

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"errors"
)

const (
	saltMagic = "Salted__"
	saltSize  = 8
	keySize   = 32
	ivSize    = 16

	// BlockSize is the AES block size; padded plaintext is always a multiple of it.
	BlockSize = 16
)

var (
	ErrTooShort   = errors.New("evpaes: input shorter than header")
	ErrBadMagic   = errors.New("evpaes: missing salt marker")
	ErrBadLength  = errors.New("evpaes: ciphertext is not block-aligned")
	ErrBadPadding = errors.New("evpaes: invalid padding")
)

// BytesToKey derives a 32-byte key and 16-byte IV from password and salt using
// the iterative-MD5 scheme of OpenSSL's EVP_BytesToKey: each round hashes
// (previous digest ‖ password ‖ salt), with the first round omitting the
// previous digest, until key+IV bytes are available.
func BytesToKey(password, salt []byte) (key [keySize]byte, iv [ivSize]byte) {
	var derived []byte
	var prev []byte
	for len(derived) < keySize+ivSize {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	copy(key[:], derived[:keySize])
	copy(iv[:], derived[keySize:keySize+ivSize])
	return key, iv
}

// Encrypt encrypts plaintext under password and returns the salted blob.
//
// The plaintext is PKCS#7-padded before encryption; an already block-aligned
// input (including the empty string) gains one full padding block.
func Encrypt(password []byte, plaintext string) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	return encryptWithSalt(password, salt, []byte(plaintext))
}

func encryptWithSalt(password []byte, salt [saltSize]byte, plaintext []byte) ([]byte, error) {
	key, iv := BytesToKey(password, salt[:])
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plaintext)
	out := make([]byte, 0, len(saltMagic)+saltSize+len(padded))
	out = append(out, saltMagic...)
	out = append(out, salt[:]...)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ct, padded)
	return append(out, ct...), nil
}

// Decrypt reverses Encrypt, re-deriving key and IV from the embedded salt.
func Decrypt(password, blob []byte) (string, error) {
	if len(blob) < len(saltMagic)+saltSize {
		return "", ErrTooShort
	}
	if !bytes.Equal(blob[:len(saltMagic)], []byte(saltMagic)) {
		return "", ErrBadMagic
	}
	salt := blob[len(saltMagic) : len(saltMagic)+saltSize]
	ct := blob[len(saltMagic)+saltSize:]
	if len(ct) == 0 || len(ct)%BlockSize != 0 {
		return "", ErrBadLength
	}
	key, iv := BytesToKey(password, salt)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(pt, ct)
	pt, err = pkcs7Unpad(pt)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func pkcs7Pad(b []byte) []byte {
	n := BlockSize - len(b)%BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > BlockSize || n > len(b) {
		return nil, ErrBadPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-n], nil
}
