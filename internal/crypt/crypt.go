// Package crypt implements the legacy Word binary document ciphers and
// their password verifiers.
//
// 참조: [MS-OFFCRYPTO] 2.3.6 (RC4), 2.3.5 (RC4 CryptoAPI), 2.3.7 (XOR)
package crypt

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongPassword is returned when a password (or cached key) does not
	// reproduce the stored verifier.
	ErrWrongPassword = errors.New("crypt: wrong password")

	// ErrUnsupported is returned for cipher variants this package cannot
	// decrypt (AES, non SHA-1 hashes, unusual key sizes).
	ErrUnsupported = errors.New("crypt: unsupported encryption variant")

	// ErrCorrupt is returned when an encryption header cannot be parsed.
	ErrCorrupt = errors.New("crypt: corrupt encryption header")
)

// Algorithm identifies a cipher family.
type Algorithm int

const (
	AlgorithmNone Algorithm = iota
	AlgorithmXOR
	AlgorithmRC4
	AlgorithmRC4CryptoAPI
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmXOR:
		return "xor"
	case AlgorithmRC4:
		return "rc4"
	case AlgorithmRC4CryptoAPI:
		return "rc4-cryptoapi"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// Cipher decrypts byte ranges of a document stream.
//
// Decrypt is a pure function of the bound key: off is the absolute offset
// of src[0] inside its stream, so any range can be decoded without touching
// the bytes before it. dst and src may overlap exactly.
type Cipher interface {
	Algorithm() Algorithm
	Decrypt(dst, src []byte, off int64)
	KeyMaterial() KeyMaterial
}

// KeyMaterial is the derived key plus the parameters that were needed to
// verify it. It can be cached by a caller and handed back instead of a
// password.
type KeyMaterial struct {
	Algorithm Algorithm `json:"algorithm"`
	Key       []byte    `json:"key"`
	KeyBits   int       `json:"key_bits,omitempty"`
	Salt      []byte    `json:"salt,omitempty"`

	// XOR 전용: FIB lKey 필드의 검증 값
	XORKey  uint16 `json:"xor_key,omitempty"`
	XORHash uint16 `json:"xor_hash,omitempty"`
}

// Empty reports whether no key has been recorded.
func (k KeyMaterial) Empty() bool {
	return k.Algorithm == AlgorithmNone || len(k.Key) == 0
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
