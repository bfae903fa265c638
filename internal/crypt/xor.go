package crypt

import (
	"golang.org/x/text/encoding/charmap"
)

// XOR obfuscation은 16바이트 키 배열을 절대 오프셋 기준으로 순환 적용한다.
const (
	xorKeySize   = 16
	xorMaxPwLen  = 15
	xorRotation  = 7 // Word 문서 고유 회전 값 (Excel은 2)
	xorKeyBase   = 0x8000
	xorKeyEnd    = 0xFFFF
	xorKeyPoly   = 0x1020
	xorHashSeed  = 0xCE4B
	xorHashWidth = 15
)

var xorFillChars = [...]byte{
	0xBB, 0xFF, 0xFF, 0xBA,
	0xFF, 0xFF, 0xB9, 0x80,
	0x00, 0xBE, 0x0F, 0x00,
	0xBF, 0x0F, 0x00,
}

// XOR is the Word 6/95 (and obfuscated Word 97) cipher.
type XOR struct {
	key  [xorKeySize]byte
	base uint16
	hash uint16
}

// DeriveXOR builds the XOR cipher from a password and checks it against the
// verifier pair stored in the FIB.
func DeriveXOR(password string, storedKey, storedHash uint16) (*XOR, error) {
	c := newXOR(xorPassword(password))
	if c.base != storedKey || c.hash != storedHash {
		return nil, ErrWrongPassword
	}
	return c, nil
}

// OpenXOR rebuilds the cipher from cached key material.
func OpenXOR(km KeyMaterial, storedKey, storedHash uint16) (*XOR, error) {
	if km.Algorithm != AlgorithmXOR || len(km.Key) != xorKeySize {
		return nil, ErrCorrupt
	}
	if km.XORKey != storedKey || km.XORHash != storedHash {
		return nil, ErrWrongPassword
	}
	c := &XOR{base: km.XORKey, hash: km.XORHash}
	copy(c.key[:], km.Key)
	return c, nil
}

// XORVerifier returns the (key, hash) pair Word stores for password.
func XORVerifier(password string) (key, hash uint16) {
	c := newXOR(xorPassword(password))
	return c.base, c.hash
}

// Algorithm implements Cipher.
func (c *XOR) Algorithm() Algorithm { return AlgorithmXOR }

// Decrypt implements Cipher. Zero bytes and bytes equal to their key byte
// are stored verbatim by the writer, so they are left untouched here.
func (c *XOR) Decrypt(dst, src []byte, off int64) {
	for i, b := range src {
		v := b ^ c.key[(off+int64(i))&(xorKeySize-1)]
		if b != 0 && v != 0 {
			dst[i] = v
		} else {
			dst[i] = b
		}
	}
}

// Encrypt is the inverse of Decrypt.
func (c *XOR) Encrypt(dst, src []byte, off int64) {
	for i, b := range src {
		k := c.key[(off+int64(i))&(xorKeySize-1)]
		if b == 0 || b == k {
			dst[i] = b
		} else {
			dst[i] = b ^ k
		}
	}
}

// KeyMaterial implements Cipher.
func (c *XOR) KeyMaterial() KeyMaterial {
	return KeyMaterial{
		Algorithm: AlgorithmXOR,
		Key:       cloneBytes(c.key[:]),
		XORKey:    c.base,
		XORHash:   c.hash,
	}
}

// xorPassword는 비밀번호를 Windows-1252 바이트로 변환 (최대 15자, 0 패딩)
func xorPassword(password string) [xorKeySize]byte {
	var out [xorKeySize]byte
	n := 0
	for _, r := range password {
		if n == xorMaxPwLen {
			break
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = byte(r)
		}
		out[n] = b
		n++
	}
	return out
}

func newXOR(pw [xorKeySize]byte) *XOR {
	n := passwordLen(pw)
	c := &XOR{
		base: xorBaseKey(pw[:n]),
		hash: xorHash(pw[:n]),
	}

	copy(c.key[:], pw[:n])
	for i, f := n, 0; i < xorKeySize; i, f = i+1, f+1 {
		c.key[i] = xorFillChars[f]
	}

	lo, hi := byte(c.base), byte(c.base>>8)
	for i := range c.key {
		if i&1 == 0 {
			c.key[i] ^= lo
		} else {
			c.key[i] ^= hi
		}
		c.key[i] = rotl8(c.key[i], xorRotation)
	}
	return c
}

func passwordLen(pw [xorKeySize]byte) int {
	for i, b := range pw {
		if b == 0 {
			return i
		}
	}
	return xorKeySize
}

func xorBaseKey(pw []byte) uint16 {
	if len(pw) == 0 {
		return 0
	}
	var key uint16
	base := uint16(xorKeyBase)
	end := uint16(xorKeyEnd)
	for i := len(pw) - 1; i >= 0; i-- {
		ch := pw[i] & 0x7F
		for bit := 0; bit < 8; bit++ {
			base = rotl16(base, 1)
			if base&1 != 0 {
				base ^= xorKeyPoly
			}
			if ch&1 != 0 {
				key ^= base
			}
			ch >>= 1
			end = rotl16(end, 1)
			if end&1 != 0 {
				end ^= xorKeyPoly
			}
		}
	}
	return key ^ end
}

func xorHash(pw []byte) uint16 {
	hash := uint16(len(pw))
	if len(pw) > 0 {
		hash ^= xorHashSeed
	}
	for i, b := range pw {
		hash ^= rotl15(uint16(b), uint((i+1)%xorHashWidth))
	}
	return hash
}

func rotl8(v byte, n uint) byte {
	n &= 7
	return v<<n | v>>(8-n)
}

func rotl16(v uint16, n uint) uint16 {
	n &= 15
	return v<<n | v>>(16-n)
}

func rotl15(v uint16, n uint) uint16 {
	const mask = 1<<xorHashWidth - 1
	v &= mask
	return (v<<n | v>>(xorHashWidth-n)) & mask
}
