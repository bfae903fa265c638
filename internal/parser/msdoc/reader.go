package msdoc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roboco-io/doc2md/internal/crypt"
)

// Options controls a decode.
type Options struct {
	Logger *slog.Logger

	// Charset forces one code page for every 8-bit run. CodepageUnknown
	// lets the resolver decide.
	Charset Codepage
	// DefaultCodepage is used when the document language is unknown.
	DefaultCodepage Codepage

	Password       PasswordProvider
	EncryptionData crypt.KeyMaterial

	// TempThreshold spills decrypted streams larger than this many bytes
	// into TempDir. 0 keeps everything in memory.
	TempThreshold int64
	TempDir       string

	Headers   bool // 머리글/바닥글 스토리 출력
	TextBoxes bool // 글상자 스토리 출력
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		DefaultCodepage: CP1252,
		TempThreshold:   64 << 20,
		Headers:         true,
		TextBoxes:       true,
	}
}

func (o Options) decryptOptions() DecryptOptions {
	return DecryptOptions{
		Password:       o.Password,
		EncryptionData: o.EncryptionData,
		TempThreshold:  o.TempThreshold,
		TempDir:        o.TempDir,
		Logger:         o.Logger,
	}
}

// Info describes a document without decoding its text.
type Info struct {
	Version     Version         `json:"-"`
	VersionName string          `json:"version"`
	NFib        int             `json:"nfib"`
	Lid         int             `json:"lid"`
	Encrypted   bool            `json:"encrypted"`
	Algorithm   crypt.Algorithm `json:"-"`
	Cipher      string          `json:"cipher"`
	Complex     bool            `json:"complex"`
	TableStream string          `json:"table_stream"`
	Codepage    Codepage        `json:"default_codepage"`

	// 잠긴 문서에서는 아래 값이 비어 있음
	CcpText   int  `json:"ccp_text"`
	CcpFtn    int  `json:"ccp_footnotes"`
	CcpHdd    int  `json:"ccp_headers"`
	CcpAtn    int  `json:"ccp_annotations"`
	CcpEdn    int  `json:"ccp_endnotes"`
	CcpTxbx   int  `json:"ccp_textboxes"`
	Pieces    int  `json:"pieces"`
	Sections  int  `json:"sections"`
	Fonts     int  `json:"fonts"`
	Styles    int  `json:"styles"`
	Footnotes int  `json:"footnotes"`
	Endnotes  int  `json:"endnotes"`
	Comments  int  `json:"comments"`
	Locked    bool `json:"locked"`

	Summary Summary `json:"summary"`
}

// Result is what a successful decode returns besides the emitted items.
type Result struct {
	Info           Info
	Summary        Summary
	Stats          Stats
	EncryptionData crypt.KeyMaterial
}

// Decode reads a Word binary document from r and emits its items to sink.
func Decode(r io.ReaderAt, sink Sink, opts Options) (*Result, error) {
	raw, err := OpenContainer(r)
	if err != nil {
		return nil, err
	}
	return DecodeStreams(raw, sink, opts)
}

// DecodeStreams decodes already extracted compound file streams.
func DecodeStreams(raw *RawStreams, sink Sink, opts Options) (*Result, error) {
	d := newDiag(opts.Logger)

	dec, err := SelectAndDecrypt(raw, opts.decryptOptions())
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	doc, err := loadDocument(&dec.Streams, opts, d)
	if err != nil {
		return nil, fmt.Errorf("문서 구조 파싱 실패: %w", err)
	}

	w := newWalker(doc, sink)
	if err := w.run(); err != nil {
		return nil, err
	}

	res := &Result{
		Summary:        ReadSummary(raw.Summary),
		Stats:          *d.stats,
		EncryptionData: dec.EncryptionData,
	}
	res.Info = doc.info(dec.Algorithm)
	res.Info.Summary = res.Summary

	if !res.Stats.Clean() {
		d.log.Info("document decoded with recovered anomalies",
			slog.Int("truncated", res.Stats.TruncatedRecords),
			slog.Int("out_of_range", res.Stats.OutOfRangePositions),
			slog.Int("unknown_controls", res.Stats.UnknownControlCodes),
			slog.Int("ignored_prms", res.Stats.IgnoredPrms))
	}
	return res, nil
}

// info summarises a loaded document.
func (d *document) info(alg crypt.Algorithm) Info {
	f := d.fib
	return Info{
		Version:     f.Version(),
		VersionName: f.Version().String(),
		NFib:        int(f.NFib),
		Lid:         int(f.Lid),
		Encrypted:   f.IsEncrypted(),
		Algorithm:   alg,
		Cipher:      alg.String(),
		Complex:     f.IsComplex(),
		TableStream: f.TableStreamName(),
		Codepage:    d.defCP,
		CcpText:     f.CcpText,
		CcpFtn:      f.CcpFtn,
		CcpHdd:      f.CcpHdd,
		CcpAtn:      f.CcpAtn,
		CcpEdn:      f.CcpEdn,
		CcpTxbx:     f.CcpTxbx,
		Pieces:      len(d.pieces.Pieces),
		Sections:    d.sepx.Len(),
		Fonts:       len(d.fonts),
		Styles:      len(d.styles.Styles),
		Footnotes:   d.fndRef.Len(),
		Endnotes:    d.endRef.Len(),
		Comments:    d.andRef.Len(),
	}
}

// Inspect reports what a document is without emitting its text. An
// encrypted document that cannot be unlocked is still described from its
// clear header.
func Inspect(r io.ReaderAt, opts Options) (*Info, error) {
	raw, err := OpenContainer(r)
	if err != nil {
		return nil, err
	}
	return InspectStreams(raw, opts)
}

// InspectStreams is Inspect for already extracted streams.
func InspectStreams(raw *RawStreams, opts Options) (*Info, error) {
	base, err := ParseFibBase(raw.WordDocument)
	if err != nil {
		return nil, err
	}
	summary := ReadSummary(raw.Summary)

	d := newDiag(opts.Logger)
	dec, err := SelectAndDecrypt(raw, opts.decryptOptions())
	if err != nil {
		var ce *CryptoError
		if errors.As(err, &ce) && ce.Kind == NoPassword {
			table, _ := raw.Table(base)
			info := &Info{
				Version:     base.Version(),
				VersionName: base.Version().String(),
				NFib:        int(base.NFib),
				Lid:         int(base.Lid),
				Encrypted:   true,
				Algorithm:   DetectAlgorithm(base, table),
				Complex:     base.IsComplex(),
				TableStream: base.TableStreamName(),
				Codepage:    CodepageForLID(base.Lid),
				Locked:      true,
				Summary:     summary,
			}
			info.Cipher = info.Algorithm.String()
			return info, nil
		}
		return nil, err
	}
	defer dec.Close()

	doc, err := loadDocument(&dec.Streams, opts, d)
	if err != nil {
		return nil, fmt.Errorf("문서 구조 파싱 실패: %w", err)
	}
	info := doc.info(dec.Algorithm)
	info.Summary = summary
	return &info, nil
}

// DetectAlgorithm names the cipher an encrypted document uses without
// deriving a key. Unknown headers report AlgorithmNone.
func DetectAlgorithm(base *FibBase, table []byte) crypt.Algorithm {
	if !base.IsEncrypted() {
		return crypt.AlgorithmNone
	}
	if base.Version() == VersionWord6 || base.IsObfuscated() {
		return crypt.AlgorithmXOR
	}
	if len(table) < 4 {
		return crypt.AlgorithmNone
	}
	version := binary.LittleEndian.Uint32(table)
	major, minor := uint16(version), uint16(version>>16)
	switch {
	case version == encVersionRC4:
		return crypt.AlgorithmRC4
	case (major == 2 || major == 3 || major == 4) && minor == 2:
		return crypt.AlgorithmRC4CryptoAPI
	}
	return crypt.AlgorithmNone
}
