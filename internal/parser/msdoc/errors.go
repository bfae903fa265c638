package msdoc

import (
	"errors"
	"fmt"

	"github.com/roboco-io/doc2md/internal/crypt"
)

// CryptoErrorKind classifies a fatal decryption failure.
type CryptoErrorKind int

const (
	// WrongPassword means the password or cached key did not match the
	// stored verifier. Callers may prompt again.
	WrongPassword CryptoErrorKind = iota + 1

	// UnsupportedCipher means the document uses a cipher variant that
	// cannot be decrypted (AES, non SHA-1 hashes, unknown versions).
	UnsupportedCipher

	// CorruptHeader means the encryption header could not be parsed.
	CorruptHeader

	// NoPassword means the password provider declined to supply one.
	NoPassword
)

// String returns a short identifier for the kind.
func (k CryptoErrorKind) String() string {
	switch k {
	case WrongPassword:
		return "wrong-password"
	case UnsupportedCipher:
		return "unsupported-cipher"
	case CorruptHeader:
		return "corrupt-header"
	case NoPassword:
		return "no-password"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CryptoError is returned for every decryption failure. No document state
// is produced when it is returned.
type CryptoError struct {
	Kind   CryptoErrorKind
	Detail string
	Err    error
}

func (e *CryptoError) Error() string {
	msg := "msdoc: " + e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CryptoError) Unwrap() error { return e.Err }

// IsWrongPassword reports whether err is a wrong password failure.
func IsWrongPassword(err error) bool {
	var ce *CryptoError
	return errors.As(err, &ce) && ce.Kind == WrongPassword
}

// newCryptoError maps crypt package sentinels to a kind.
func newCryptoError(detail string, err error) *CryptoError {
	kind := CorruptHeader
	switch {
	case errors.Is(err, crypt.ErrWrongPassword):
		kind = WrongPassword
	case errors.Is(err, crypt.ErrUnsupported):
		kind = UnsupportedCipher
	}
	return &CryptoError{Kind: kind, Detail: detail, Err: err}
}
