package crypt

import (
	"bytes"
	"crypto/rc4"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// EncryptionHeader.Flags 비트
const (
	FlagCryptoAPI uint32 = 0x04
	FlagDocProps  uint32 = 0x08
	FlagExternal  uint32 = 0x10
	FlagAES       uint32 = 0x20
)

// 알고리즘 ID (CALG_*)
const (
	AlgIDRC4    uint32 = 0x6801
	AlgIDAES128 uint32 = 0x660E
	AlgIDAES192 uint32 = 0x660F
	AlgIDAES256 uint32 = 0x6610
	AlgIDSHA1   uint32 = 0x8004
)

const (
	cryptoAPISaltSize = 16
	sha1Size          = 20
)

// CryptoAPIHeader is the RC4 CryptoAPI EncryptionHeader plus
// EncryptionVerifier, as stored after the 4-byte version.
type CryptoAPIHeader struct {
	Flags        uint32
	AlgID        uint32
	AlgIDHash    uint32
	KeySize      uint32 // 비트 단위, 0이면 40
	ProviderType uint32
	CSPName      string

	Salt                  []byte
	EncryptedVerifier     []byte
	VerifierHashSize      uint32
	EncryptedVerifierHash []byte
}

// ParseCryptoAPIHeader parses the header body and rejects every variant
// other than SHA-1 keyed RC4.
func ParseCryptoAPIHeader(data []byte) (*CryptoAPIHeader, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: cryptoapi header too small", ErrCorrupt)
	}
	headerSize := int(binary.LittleEndian.Uint32(data[4:8]))
	if headerSize < 32 || 8+headerSize > len(data) {
		return nil, fmt.Errorf("%w: cryptoapi header size %d", ErrCorrupt, headerSize)
	}

	hdr := data[8 : 8+headerSize]
	h := &CryptoAPIHeader{
		Flags:        binary.LittleEndian.Uint32(hdr[0:4]),
		AlgID:        binary.LittleEndian.Uint32(hdr[8:12]),
		AlgIDHash:    binary.LittleEndian.Uint32(hdr[12:16]),
		KeySize:      binary.LittleEndian.Uint32(hdr[16:20]),
		ProviderType: binary.LittleEndian.Uint32(hdr[20:24]),
		CSPName:      decodeCSPName(hdr[32:]),
	}

	v := data[8+headerSize:]
	if len(v) < 4 {
		return nil, fmt.Errorf("%w: missing verifier", ErrCorrupt)
	}
	saltSize := int(binary.LittleEndian.Uint32(v[0:4]))
	if saltSize != cryptoAPISaltSize || len(v) < 4+saltSize+16+4 {
		return nil, fmt.Errorf("%w: salt size %d", ErrCorrupt, saltSize)
	}
	off := 4
	h.Salt = cloneBytes(v[off : off+saltSize])
	off += saltSize
	h.EncryptedVerifier = cloneBytes(v[off : off+16])
	off += 16
	h.VerifierHashSize = binary.LittleEndian.Uint32(v[off : off+4])
	off += 4
	if h.VerifierHashSize != sha1Size {
		return nil, fmt.Errorf("%w: verifier hash size %d", ErrUnsupported, h.VerifierHashSize)
	}
	if len(v) < off+sha1Size {
		return nil, fmt.Errorf("%w: truncated verifier hash", ErrCorrupt)
	}
	h.EncryptedVerifierHash = cloneBytes(v[off : off+sha1Size])

	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *CryptoAPIHeader) validate() error {
	if h.Flags&FlagAES != 0 {
		return fmt.Errorf("%w: AES flagged header", ErrUnsupported)
	}
	switch h.AlgID {
	case 0, AlgIDRC4:
	case AlgIDAES128, AlgIDAES192, AlgIDAES256:
		return fmt.Errorf("%w: AES algorithm 0x%04X", ErrUnsupported, h.AlgID)
	default:
		return fmt.Errorf("%w: algorithm 0x%04X", ErrUnsupported, h.AlgID)
	}
	if h.AlgIDHash != 0 && h.AlgIDHash != AlgIDSHA1 {
		return fmt.Errorf("%w: hash algorithm 0x%04X", ErrUnsupported, h.AlgIDHash)
	}
	bits := h.keyBits()
	if bits < 40 || bits > 128 || bits%8 != 0 {
		return fmt.Errorf("%w: key size %d", ErrUnsupported, bits)
	}
	return nil
}

func (h *CryptoAPIHeader) keyBits() int {
	if h.KeySize == 0 {
		return 40
	}
	return int(h.KeySize)
}

// Bytes serialises the header body in the on-disk layout.
func (h *CryptoAPIHeader) Bytes() []byte {
	var hdr bytes.Buffer
	put := func(w *bytes.Buffer, v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		w.Write(b[:])
	}
	put(&hdr, h.Flags)
	put(&hdr, 0) // SizeExtra
	put(&hdr, h.AlgID)
	put(&hdr, h.AlgIDHash)
	put(&hdr, h.KeySize)
	put(&hdr, h.ProviderType)
	put(&hdr, 0)
	put(&hdr, 0)
	for _, u := range utf16.Encode([]rune(h.CSPName)) {
		hdr.WriteByte(byte(u))
		hdr.WriteByte(byte(u >> 8))
	}
	hdr.Write([]byte{0, 0})

	var out bytes.Buffer
	put(&out, h.Flags)
	put(&out, uint32(hdr.Len()))
	out.Write(hdr.Bytes())
	put(&out, uint32(len(h.Salt)))
	out.Write(h.Salt)
	out.Write(h.EncryptedVerifier)
	put(&out, h.VerifierHashSize)
	out.Write(h.EncryptedVerifierHash)
	return out.Bytes()
}

func decodeCSPName(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return strings.TrimSpace(string(utf16.Decode(units)))
}

type cryptoAPIKey struct {
	h0   [sha1Size]byte
	bits int
	salt []byte
}

func (k *cryptoAPIKey) blockKey(block uint32) []byte {
	h := sha1.New()
	h.Write(k.h0[:])
	h.Write(blockIndex(block))
	sum := h.Sum(nil)

	key := sum[:k.bits/8]
	if k.bits == 40 {
		// 40비트 키는 128비트로 0 패딩
		padded := make([]byte, 16)
		copy(padded, key)
		return padded
	}
	return key
}

func (k *cryptoAPIKey) material() KeyMaterial {
	return KeyMaterial{
		Algorithm: AlgorithmRC4CryptoAPI,
		Key:       cloneBytes(k.h0[:]),
		KeyBits:   k.bits,
		Salt:      cloneBytes(k.salt),
	}
}

func deriveCryptoAPIKey(password string, h *CryptoAPIHeader) *cryptoAPIKey {
	s := sha1.New()
	s.Write(h.Salt)
	s.Write(utf16Password(password))

	k := &cryptoAPIKey{bits: h.keyBits(), salt: cloneBytes(h.Salt)}
	copy(k.h0[:], s.Sum(nil))
	return k
}

func verifyCryptoAPI(k *cryptoAPIKey, h *CryptoAPIHeader) error {
	ks, err := rc4.NewCipher(k.blockKey(0))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	verifier := make([]byte, len(h.EncryptedVerifier))
	hash := make([]byte, len(h.EncryptedVerifierHash))
	ks.XORKeyStream(verifier, h.EncryptedVerifier)
	ks.XORKeyStream(hash, h.EncryptedVerifierHash)

	want := sha1.Sum(verifier)
	if !bytes.Equal(want[:], hash[:sha1Size]) {
		return ErrWrongPassword
	}
	return nil
}

// DeriveCryptoAPI derives the SHA-1 RC4 key from password and verifies it.
func DeriveCryptoAPI(password string, h *CryptoAPIHeader) (*RC4, error) {
	k := deriveCryptoAPIKey(password, h)
	if err := verifyCryptoAPI(k, h); err != nil {
		return nil, err
	}
	return &RC4{keys: k, alg: AlgorithmRC4CryptoAPI}, nil
}

// OpenCryptoAPI rebuilds the cipher from cached key material.
func OpenCryptoAPI(km KeyMaterial, h *CryptoAPIHeader) (*RC4, error) {
	if km.Algorithm != AlgorithmRC4CryptoAPI || len(km.Key) != sha1Size {
		return nil, ErrCorrupt
	}
	k := &cryptoAPIKey{bits: h.keyBits(), salt: cloneBytes(h.Salt)}
	copy(k.h0[:], km.Key)
	if err := verifyCryptoAPI(k, h); err != nil {
		return nil, err
	}
	return &RC4{keys: k, alg: AlgorithmRC4CryptoAPI}, nil
}

// NewCryptoAPIHeader produces the header a writer would store for password.
func NewCryptoAPIHeader(password string, salt, verifier [16]byte, keyBits int) *CryptoAPIHeader {
	h := &CryptoAPIHeader{
		Flags:            FlagCryptoAPI,
		AlgID:            AlgIDRC4,
		AlgIDHash:        AlgIDSHA1,
		KeySize:          uint32(keyBits),
		ProviderType:     1,
		CSPName:          "Microsoft Base Cryptographic Provider v1.0",
		Salt:             cloneBytes(salt[:]),
		VerifierHashSize: sha1Size,
	}
	k := deriveCryptoAPIKey(password, h)
	ks, _ := rc4.NewCipher(k.blockKey(0))
	hash := sha1.Sum(verifier[:])

	h.EncryptedVerifier = make([]byte, 16)
	h.EncryptedVerifierHash = make([]byte, sha1Size)
	ks.XORKeyStream(h.EncryptedVerifier, verifier[:])
	ks.XORKeyStream(h.EncryptedVerifierHash, hash[:])
	return h
}
