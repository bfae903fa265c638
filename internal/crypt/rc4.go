package crypt

import (
	"bytes"
	"crypto/md5"
	"crypto/rc4"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// BlockSize is the RC4 re-keying interval used by Word streams.
const BlockSize = 0x200

// blockKeyer derives the RC4 key of one 512-byte block.
type blockKeyer interface {
	blockKey(block uint32) []byte
	material() KeyMaterial
}

// RC4 decrypts Word streams block by block. Each block gets a fresh RC4
// state keyed with (key, block index), so blocks decode independently.
type RC4 struct {
	keys blockKeyer
	alg  Algorithm
}

// Algorithm implements Cipher.
func (c *RC4) Algorithm() Algorithm { return c.alg }

// KeyMaterial implements Cipher.
func (c *RC4) KeyMaterial() KeyMaterial { return c.keys.material() }

// Decrypt implements Cipher. A trailing partial block is decoded like a
// full one.
func (c *RC4) Decrypt(dst, src []byte, off int64) {
	for len(src) > 0 {
		block := off / BlockSize
		inner := int(off % BlockSize)
		n := BlockSize - inner
		if n > len(src) {
			n = len(src)
		}

		ks, err := rc4.NewCipher(c.keys.blockKey(uint32(block)))
		if err != nil {
			// 키 길이는 파생 단계에서 검증되므로 도달하지 않음
			panic(fmt.Sprintf("crypt: rc4 key: %v", err))
		}
		if inner > 0 {
			skip := make([]byte, inner)
			ks.XORKeyStream(skip, skip)
		}
		ks.XORKeyStream(dst[:n], src[:n])

		dst, src = dst[n:], src[n:]
		off += int64(n)
	}
}

// Encrypt is identical to Decrypt (RC4 is symmetric).
func (c *RC4) Encrypt(dst, src []byte, off int64) { c.Decrypt(dst, src, off) }

// utf16Password encodes a password as UTF-16LE without terminator.
func utf16Password(password string) []byte {
	units := utf16.Encode([]rune(password))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func blockIndex(block uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], block)
	return b[:]
}

// ---------------------------------------------------------------------------
// RC4 1.1 ("Office binary document RC4 encryption")

// Std97Header is the RC4 1.1 encryption header stored at the start of the
// table stream, after the 4-byte version.
type Std97Header struct {
	Salt                  [16]byte
	EncryptedVerifier     [16]byte
	EncryptedVerifierHash [16]byte
}

// Std97HeaderSize is the header size including the version field.
const Std97HeaderSize = 4 + 48

// ParseStd97Header parses the header body (without version).
func ParseStd97Header(data []byte) (*Std97Header, error) {
	if len(data) < 48 {
		return nil, fmt.Errorf("%w: rc4 header too small: %d bytes", ErrCorrupt, len(data))
	}
	h := &Std97Header{}
	copy(h.Salt[:], data[0:16])
	copy(h.EncryptedVerifier[:], data[16:32])
	copy(h.EncryptedVerifierHash[:], data[32:48])
	return h, nil
}

// Bytes serialises the header body.
func (h *Std97Header) Bytes() []byte {
	out := make([]byte, 0, 48)
	out = append(out, h.Salt[:]...)
	out = append(out, h.EncryptedVerifier[:]...)
	return append(out, h.EncryptedVerifierHash[:]...)
}

type std97Key struct {
	key  [5]byte
	salt [16]byte
}

func (k *std97Key) blockKey(block uint32) []byte {
	h := md5.New()
	h.Write(k.key[:])
	h.Write(blockIndex(block))
	return h.Sum(nil)
}

func (k *std97Key) material() KeyMaterial {
	return KeyMaterial{
		Algorithm: AlgorithmRC4,
		Key:       cloneBytes(k.key[:]),
		KeyBits:   128,
		Salt:      cloneBytes(k.salt[:]),
	}
}

func deriveStd97Key(password string, salt [16]byte) *std97Key {
	h0 := md5.Sum(utf16Password(password))

	// (H0[0:5] ‖ salt) 를 16번 반복한 버퍼의 해시
	var buf bytes.Buffer
	for i := 0; i < 16; i++ {
		buf.Write(h0[:5])
		buf.Write(salt[:])
	}
	h1 := md5.Sum(buf.Bytes())

	k := &std97Key{salt: salt}
	copy(k.key[:], h1[:5])
	return k
}

func verifyStd97(k *std97Key, h *Std97Header) error {
	ks, err := rc4.NewCipher(k.blockKey(0))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var verifier, hash [16]byte
	ks.XORKeyStream(verifier[:], h.EncryptedVerifier[:])
	ks.XORKeyStream(hash[:], h.EncryptedVerifierHash[:])

	want := md5.Sum(verifier[:])
	if !bytes.Equal(want[:], hash[:]) {
		return ErrWrongPassword
	}
	return nil
}

// DeriveStd97 derives the RC4 1.1 key from password and verifies it.
func DeriveStd97(password string, h *Std97Header) (*RC4, error) {
	k := deriveStd97Key(password, h.Salt)
	if err := verifyStd97(k, h); err != nil {
		return nil, err
	}
	return &RC4{keys: k, alg: AlgorithmRC4}, nil
}

// OpenStd97 rebuilds the RC4 1.1 cipher from cached key material.
func OpenStd97(km KeyMaterial, h *Std97Header) (*RC4, error) {
	if km.Algorithm != AlgorithmRC4 || len(km.Key) != 5 {
		return nil, ErrCorrupt
	}
	k := &std97Key{salt: h.Salt}
	copy(k.key[:], km.Key)
	if err := verifyStd97(k, h); err != nil {
		return nil, err
	}
	return &RC4{keys: k, alg: AlgorithmRC4}, nil
}

// NewStd97Header produces the header a writer would store for password.
func NewStd97Header(password string, salt, verifier [16]byte) *Std97Header {
	k := deriveStd97Key(password, salt)
	ks, _ := rc4.NewCipher(k.blockKey(0))
	hash := md5.Sum(verifier[:])

	h := &Std97Header{Salt: salt}
	ks.XORKeyStream(h.EncryptedVerifier[:], verifier[:])
	ks.XORKeyStream(h.EncryptedVerifierHash[:], hash[:])
	return h
}
