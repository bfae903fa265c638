package msdoc

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/roboco-io/doc2md/internal/crypt"
)

// PasswordProvider is asked for a password only when the document is
// encrypted. Returning ok=false aborts the import with NoPassword.
type PasswordProvider func() (password string, ok bool)

// StaticPassword returns a provider that always answers password.
func StaticPassword(password string) PasswordProvider {
	return func() (string, bool) { return password, true }
}

// DecryptOptions controls SelectAndDecrypt.
type DecryptOptions struct {
	Password       PasswordProvider
	EncryptionData crypt.KeyMaterial // 캐시된 키, 비어 있으면 비밀번호 사용
	TempThreshold  int64
	TempDir        string
	Logger         *slog.Logger
}

// Decrypted is the outcome of SelectAndDecrypt.
type Decrypted struct {
	Streams
	Base           *FibBase
	Algorithm      crypt.Algorithm
	EncryptionData crypt.KeyMaterial
}

// RC4 암호화 헤더 버전
const (
	encVersionRC4 uint32 = 0x00010001 // 1.1
)

// SelectAndDecrypt picks the cipher declared by the FIB flags and the
// table stream header, verifies the key, and returns fully decrypted
// streams. On error no stream is returned.
func SelectAndDecrypt(raw *RawStreams, opts DecryptOptions) (*Decrypted, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger
	}

	base, err := ParseFibBase(raw.WordDocument)
	if err != nil {
		return nil, err
	}
	table, err := raw.Table(base)
	if err != nil {
		return nil, err
	}

	out := &Decrypted{Base: base, Algorithm: crypt.AlgorithmNone}

	var cipher crypt.Cipher
	if base.IsEncrypted() {
		cipher, err = selectCipher(base, table, opts)
		if err != nil {
			return nil, err
		}
		out.Algorithm = cipher.Algorithm()
		out.EncryptionData = cipher.KeyMaterial()
		log.Debug("document decrypted",
			slog.String("algorithm", cipher.Algorithm().String()),
			slog.Int("nfib", int(base.NFib)))
	}

	main, tbl, data := raw.WordDocument, table, raw.Data
	if cipher != nil {
		main, tbl, data = decryptAll(cipher, base, raw.WordDocument, table, raw.Data)
	}

	if err := out.store(main, tbl, data, base, opts); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

func (d *Decrypted) store(main, tbl, data []byte, base *FibBase, opts DecryptOptions) error {
	var err error
	if d.Main, err = newStream(StreamWordDocument, main, opts.TempThreshold, opts.TempDir); err != nil {
		return err
	}
	if base.TableStreamName() == StreamWordDocument {
		d.Table = d.Main
	} else if d.Table, err = newStream(base.TableStreamName(), tbl, opts.TempThreshold, opts.TempDir); err != nil {
		return err
	}
	if data != nil {
		if d.Data, err = newStream(StreamData, data, opts.TempThreshold, opts.TempDir); err != nil {
			return err
		}
	}
	return nil
}

// selectCipher branches on the encryption flags and returns a verified
// cipher.
func selectCipher(base *FibBase, table []byte, opts DecryptOptions) (crypt.Cipher, error) {
	// Word 6/95는 항상 XOR, Word 97은 fObfuscated일 때 XOR
	if base.Version() == VersionWord6 || base.IsObfuscated() {
		key, hash := base.XORVerifier()
		return unlock(opts,
			func(km crypt.KeyMaterial) (crypt.Cipher, error) { return crypt.OpenXOR(km, key, hash) },
			func(pw string) (crypt.Cipher, error) { return crypt.DeriveXOR(pw, key, hash) },
			crypt.AlgorithmXOR)
	}

	if len(table) < 4 {
		return nil, &CryptoError{Kind: CorruptHeader, Detail: "table stream too small for encryption header"}
	}
	version := binary.LittleEndian.Uint32(table[0:4])
	major, minor := uint16(version), uint16(version>>16)

	switch {
	case version == encVersionRC4:
		h, err := crypt.ParseStd97Header(table[4:])
		if err != nil {
			return nil, newCryptoError("rc4 header", err)
		}
		return unlock(opts,
			func(km crypt.KeyMaterial) (crypt.Cipher, error) { return crypt.OpenStd97(km, h) },
			func(pw string) (crypt.Cipher, error) { return crypt.DeriveStd97(pw, h) },
			crypt.AlgorithmRC4)

	case (major == 2 || major == 3 || major == 4) && minor == 2:
		h, err := crypt.ParseCryptoAPIHeader(table[4:])
		if err != nil {
			return nil, newCryptoError("cryptoapi header", err)
		}
		return unlock(opts,
			func(km crypt.KeyMaterial) (crypt.Cipher, error) { return crypt.OpenCryptoAPI(km, h) },
			func(pw string) (crypt.Cipher, error) { return crypt.DeriveCryptoAPI(pw, h) },
			crypt.AlgorithmRC4CryptoAPI)

	default:
		return nil, &CryptoError{
			Kind:   UnsupportedCipher,
			Detail: fmt.Sprintf("encryption version %d.%d", major, minor),
		}
	}
}

// unlock tries cached key material first and then asks the provider for a
// single password.
func unlock(opts DecryptOptions,
	open func(crypt.KeyMaterial) (crypt.Cipher, error),
	derive func(string) (crypt.Cipher, error),
	alg crypt.Algorithm,
) (crypt.Cipher, error) {
	var cachedErr error
	if !opts.EncryptionData.Empty() && opts.EncryptionData.Algorithm == alg {
		c, err := open(opts.EncryptionData)
		if err == nil {
			return c, nil
		}
		cachedErr = err
	}

	if opts.Password == nil {
		if cachedErr != nil {
			return nil, newCryptoError("cached key rejected", cachedErr)
		}
		return nil, &CryptoError{Kind: NoPassword, Detail: "document is encrypted"}
	}
	pw, ok := opts.Password()
	if !ok {
		return nil, &CryptoError{Kind: NoPassword, Detail: "password prompt cancelled"}
	}

	c, err := derive(pw)
	if err != nil {
		return nil, newCryptoError(alg.String(), err)
	}
	return c, nil
}

// decryptAll decrypts every stream into fresh buffers. The clear header
// prefix of WordDocument is kept as stored.
func decryptAll(c crypt.Cipher, base *FibBase, main, table, data []byte) ([]byte, []byte, []byte) {
	prefix := base.UnencryptedPrefix()
	if prefix > len(main) {
		prefix = len(main)
	}

	dmain := make([]byte, len(main))
	copy(dmain[:prefix], main[:prefix])

	if c.Algorithm() == crypt.AlgorithmXOR {
		// XOR은 절대 오프셋 기준으로 건너뛴 뒤 복호화
		c.Decrypt(dmain[prefix:], main[prefix:], int64(prefix))
	} else {
		// RC4는 0번 블록부터 복호화한 뒤 평문 헤더를 되돌려 놓음
		c.Decrypt(dmain, main, 0)
		copy(dmain[:prefix], main[:prefix])
	}

	var dtable []byte
	if base.TableStreamName() == StreamWordDocument {
		dtable = dmain
	} else {
		dtable = make([]byte, len(table))
		c.Decrypt(dtable, table, 0)
	}

	var ddata []byte
	if data != nil {
		ddata = make([]byte, len(data))
		c.Decrypt(ddata, data, 0)
	}
	return dmain, dtable, ddata
}
