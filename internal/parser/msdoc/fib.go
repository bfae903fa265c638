package msdoc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrCorruptHeader is returned when the FIB cannot be parsed.
	ErrCorruptHeader = errors.New("msdoc: corrupt document header")

	// ErrUnsupportedVersion is returned for Word 2 and earlier files.
	ErrUnsupportedVersion = errors.New("msdoc: unsupported Word version")
)

// Version is the Word file generation.
type Version int

const (
	VersionUnknown Version = 0
	VersionWord6   Version = 6 // Word 6.0 / Word 95
	VersionWord8   Version = 8 // Word 97 - 2003
)

// String returns a human readable generation name.
func (v Version) String() string {
	switch v {
	case VersionWord6:
		return "Word 6/95"
	case VersionWord8:
		return "Word 97-2003"
	default:
		return "unknown"
	}
}

// FibBase is the fixed 32-byte prefix of the FIB. It is never encrypted,
// so it can be read before the decryption selector runs.
type FibBase struct {
	Ident  uint16 // 0xA5EC
	NFib   uint16 // 파일 포맷 버전
	Lid    uint16 // 문서 언어 (LCID)
	PnNext uint16
	Flags  uint16 // 속성 플래그
	NFibBk uint16
	LKey   uint32 // XOR 검증 값 또는 암호화 헤더 크기
	Envr   uint8
	FcMin  uint32 // Word 6: 본문 텍스트 시작 오프셋
	FcMac  uint32
}

// FibBaseSize is the size of FibBase in bytes.
const FibBaseSize = 32

// ParseFibBase parses the unencrypted FIB prefix.
func ParseFibBase(data []byte) (*FibBase, error) {
	if len(data) < FibBaseSize {
		return nil, fmt.Errorf("%w: FIB too small: %d bytes", ErrCorruptHeader, len(data))
	}

	b := &FibBase{
		Ident:  binary.LittleEndian.Uint16(data[0x00:]),
		NFib:   binary.LittleEndian.Uint16(data[0x02:]),
		Lid:    binary.LittleEndian.Uint16(data[0x06:]),
		PnNext: binary.LittleEndian.Uint16(data[0x08:]),
		Flags:  binary.LittleEndian.Uint16(data[0x0A:]),
		NFibBk: binary.LittleEndian.Uint16(data[0x0C:]),
		LKey:   binary.LittleEndian.Uint32(data[0x0E:]),
		Envr:   data[0x12],
		FcMin:  binary.LittleEndian.Uint32(data[0x18:]),
		FcMac:  binary.LittleEndian.Uint32(data[0x1C:]),
	}

	if b.Ident != WordIdent {
		return nil, fmt.Errorf("%w: invalid wIdent 0x%04X", ErrCorruptHeader, b.Ident)
	}
	if b.Version() == VersionUnknown {
		return nil, fmt.Errorf("%w: nFib %d", ErrUnsupportedVersion, b.NFib)
	}
	return b, nil
}

// Version maps nFib to a file generation.
func (b *FibBase) Version() Version {
	switch {
	case b.NFib >= NFibWord8Min:
		return VersionWord8
	case b.NFib >= NFibWord6Min && b.NFib <= NFibWord6Max:
		return VersionWord6
	default:
		return VersionUnknown
	}
}

// IsEncrypted returns true if the document streams are encrypted.
func (b *FibBase) IsEncrypted() bool { return b.Flags&FlagEncrypted != 0 }

// IsObfuscated returns true for XOR obfuscated Word 97 files.
func (b *FibBase) IsObfuscated() bool { return b.Flags&FlagObfuscated != 0 }

// IsComplex returns true if the last save was a fast save.
func (b *FibBase) IsComplex() bool { return b.Flags&FlagComplex != 0 }

// HasExtChar returns true if text may be stored as UTF-16.
func (b *FibBase) HasExtChar() bool { return b.Flags&FlagExtChar != 0 }

// TableStreamName returns the name of the stream holding the property
// tables. Word 6/95 keeps them inside WordDocument.
func (b *FibBase) TableStreamName() string {
	if b.Version() != VersionWord8 {
		return StreamWordDocument
	}
	if b.Flags&FlagWhichTblStm != 0 {
		return StreamTable1
	}
	return StreamTable0
}

// UnencryptedPrefix returns how many leading WordDocument bytes are stored
// in clear text.
func (b *FibBase) UnencryptedPrefix() int {
	if b.Version() == VersionWord8 {
		return UnencryptedPrefixWord8
	}
	return UnencryptedPrefixWord6
}

// XORVerifier splits lKey into the (key, hash) verifier pair.
func (b *FibBase) XORVerifier() (key, hash uint16) {
	return uint16(b.LKey >> 16), uint16(b.LKey)
}

// FcLcb locates a structure inside the table stream.
type FcLcb struct {
	Fc  uint32
	Lcb uint32
}

// Empty reports whether the structure is absent.
func (p FcLcb) Empty() bool { return p.Lcb == 0 }

// FIB is the full File Information Block.
type FIB struct {
	FibBase

	// 서브 문서별 글자 수
	CcpText    int
	CcpFtn     int
	CcpHdd     int
	CcpMcr     int
	CcpAtn     int
	CcpEdn     int
	CcpTxbx    int
	CcpHdrTxbx int

	// Word 6 BTE 보정 값
	PnChpFirst int
	PnPapFirst int
	CpnBteChp  int
	CpnBtePap  int

	Stshf          FcLcb
	PlcffndRef     FcLcb
	PlcffndTxt     FcLcb
	PlcfandRef     FcLcb
	PlcfandTxt     FcLcb
	PlcfSed        FcLcb
	PlcfHdd        FcLcb
	PlcfBteChpx    FcLcb
	PlcfBtePapx    FcLcb
	SttbfFfn       FcLcb
	PlcfFldMom     FcLcb
	PlcfFldHdr     FcLcb
	PlcfFldFtn     FcLcb
	PlcfFldAtn     FcLcb
	Clx            FcLcb
	PlcfendRef     FcLcb
	PlcfendTxt     FcLcb
	PlcfFldEdn     FcLcb
	PlcftxbxTxt    FcLcb
	PlcfFldTxbx    FcLcb
	PlcfHdrtxbxTxt FcLcb
	PlcfFldHdrTxbx FcLcb
}

// fibRgFcLcb97 인덱스
const (
	idxStshf          = 1
	idxPlcffndRef     = 2
	idxPlcffndTxt     = 3
	idxPlcfandRef     = 4
	idxPlcfandTxt     = 5
	idxPlcfSed        = 6
	idxPlcfHdd        = 11
	idxPlcfBteChpx    = 12
	idxPlcfBtePapx    = 13
	idxSttbfFfn       = 15
	idxPlcfFldMom     = 16
	idxPlcfFldHdr     = 17
	idxPlcfFldFtn     = 18
	idxPlcfFldAtn     = 19
	idxClx            = 33
	idxPlcfendRef     = 46
	idxPlcfendTxt     = 47
	idxPlcfFldEdn     = 48
	idxPlcftxbxTxt    = 56
	idxPlcfFldTxbx    = 57
	idxPlcfHdrtxbxTxt = 58
	idxPlcfFldHdrTxbx = 59
)

// ParseFIB parses the complete FIB from (decrypted) WordDocument bytes.
func ParseFIB(data []byte) (*FIB, error) {
	base, err := ParseFibBase(data)
	if err != nil {
		return nil, err
	}

	f := &FIB{FibBase: *base}
	if base.Version() == VersionWord8 {
		err = f.parseWord8(data)
	} else {
		err = f.parseWord6(data)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FIB) parseWord8(data []byte) error {
	r := fibReader{data: data}

	// csw + fibRgW97
	csw := int(r.u16(0x20))
	off := 0x22 + csw*2

	// cslw + fibRgLw97
	cslw := int(r.u16(off))
	lw := off + 2
	if cslw < 11 {
		return fmt.Errorf("%w: cslw %d", ErrCorruptHeader, cslw)
	}
	f.CcpText = r.ccp(lw + 12)
	f.CcpFtn = r.ccp(lw + 16)
	f.CcpHdd = r.ccp(lw + 20)
	f.CcpMcr = r.ccp(lw + 24)
	f.CcpAtn = r.ccp(lw + 28)
	f.CcpEdn = r.ccp(lw + 32)
	f.CcpTxbx = r.ccp(lw + 36)
	f.CcpHdrTxbx = r.ccp(lw + 40)
	off = lw + cslw*4

	// cbRgFcLcb + fibRgFcLcbBlob
	count := int(r.u16(off))
	blob := off + 2
	pair := func(i int) FcLcb {
		if i >= count {
			return FcLcb{}
		}
		return FcLcb{Fc: r.u32(blob + i*8), Lcb: r.u32(blob + i*8 + 4)}
	}

	f.Stshf = pair(idxStshf)
	f.PlcffndRef = pair(idxPlcffndRef)
	f.PlcffndTxt = pair(idxPlcffndTxt)
	f.PlcfandRef = pair(idxPlcfandRef)
	f.PlcfandTxt = pair(idxPlcfandTxt)
	f.PlcfSed = pair(idxPlcfSed)
	f.PlcfHdd = pair(idxPlcfHdd)
	f.PlcfBteChpx = pair(idxPlcfBteChpx)
	f.PlcfBtePapx = pair(idxPlcfBtePapx)
	f.SttbfFfn = pair(idxSttbfFfn)
	f.PlcfFldMom = pair(idxPlcfFldMom)
	f.PlcfFldHdr = pair(idxPlcfFldHdr)
	f.PlcfFldFtn = pair(idxPlcfFldFtn)
	f.PlcfFldAtn = pair(idxPlcfFldAtn)
	f.Clx = pair(idxClx)
	f.PlcfendRef = pair(idxPlcfendRef)
	f.PlcfendTxt = pair(idxPlcfendTxt)
	f.PlcfFldEdn = pair(idxPlcfFldEdn)
	f.PlcftxbxTxt = pair(idxPlcftxbxTxt)
	f.PlcfFldTxbx = pair(idxPlcfFldTxbx)
	f.PlcfHdrtxbxTxt = pair(idxPlcfHdrtxbxTxt)
	f.PlcfFldHdrTxbx = pair(idxPlcfFldHdrTxbx)

	if r.short {
		return fmt.Errorf("%w: FIB truncated at %d bytes", ErrCorruptHeader, len(data))
	}
	return nil
}

func (f *FIB) parseWord6(data []byte) error {
	r := fibReader{data: data}

	f.CcpText = r.ccp(0x34)
	f.CcpFtn = r.ccp(0x38)
	f.CcpHdd = r.ccp(0x3C)
	f.CcpMcr = r.ccp(0x40)
	f.CcpAtn = r.ccp(0x44)
	f.CcpEdn = r.ccp(0x48)
	f.CcpTxbx = r.ccp(0x4C)
	f.CcpHdrTxbx = r.ccp(0x50)

	pair := func(off int) FcLcb {
		return FcLcb{Fc: r.u32(off), Lcb: r.u32(off + 4)}
	}
	f.Stshf = pair(0x60)
	f.PlcffndRef = pair(0x68)
	f.PlcffndTxt = pair(0x70)
	f.PlcfandRef = pair(0x78)
	f.PlcfandTxt = pair(0x80)
	f.PlcfSed = pair(0x88)
	f.PlcfHdd = pair(0xB0)
	f.PlcfBteChpx = pair(0xB8)
	f.PlcfBtePapx = pair(0xC0)
	f.SttbfFfn = pair(0xD0)
	f.PlcfFldMom = pair(0xD8)
	f.PlcfFldHdr = pair(0xE0)
	f.PlcfFldFtn = pair(0xE8)
	f.PlcfFldAtn = pair(0xF0)
	f.Clx = pair(0x160)

	f.PnChpFirst = int(r.u16(0x18A))
	f.PnPapFirst = int(r.u16(0x18C))
	f.CpnBteChp = int(r.u16(0x18E))
	f.CpnBtePap = int(r.u16(0x190))

	// 미주 테이블은 Word 95 FIB 확장 영역에만 존재
	if len(data) >= 0x1EA {
		f.PlcfendRef = pair(0x1D2)
		f.PlcfendTxt = pair(0x1DA)
		f.PlcfFldEdn = pair(0x1E2)
	}

	if r.short {
		return fmt.Errorf("%w: FIB truncated at %d bytes", ErrCorruptHeader, len(data))
	}
	return nil
}

// SubdocStart returns the CP at which sub-document kind begins.
func (f *FIB) SubdocStart(kind Region) int {
	cp := 0
	for _, k := range subdocOrder {
		if k == kind {
			return cp
		}
		cp += f.subdocLen(k)
	}
	return cp
}

// SubdocRange returns the [start, end) CP range of a sub-document.
func (f *FIB) SubdocRange(kind Region) (int, int) {
	start := f.SubdocStart(kind)
	return start, start + f.subdocLen(kind)
}

// subdocOrder는 CP 공간에서 서브 문서가 배치되는 순서
var subdocOrder = []Region{
	RegionMain, RegionFootnote, RegionHeader, RegionMacro,
	RegionAnnotation, RegionEndnote, RegionTextBox, RegionHeaderTextBox,
}

func (f *FIB) subdocLen(kind Region) int {
	switch kind {
	case RegionMain:
		return f.CcpText
	case RegionFootnote:
		return f.CcpFtn
	case RegionHeader:
		return f.CcpHdd
	case RegionMacro:
		return f.CcpMcr
	case RegionAnnotation:
		return f.CcpAtn
	case RegionEndnote:
		return f.CcpEdn
	case RegionTextBox:
		return f.CcpTxbx
	case RegionHeaderTextBox:
		return f.CcpHdrTxbx
	default:
		return 0
	}
}

// TotalCP returns the CP just past the last sub-document. Word stores one
// extra guard paragraph mark after non-main stories, which is included.
func (f *FIB) TotalCP() int {
	total := 0
	for _, k := range subdocOrder {
		total += f.subdocLen(k)
	}
	if total > f.CcpText {
		total++
	}
	return total
}

// fibReader는 범위를 벗어난 읽기를 0으로 처리하고 기록한다.
type fibReader struct {
	data  []byte
	short bool
}

func (r *fibReader) u16(off int) uint16 {
	if off < 0 || off+2 > len(r.data) {
		r.short = true
		return 0
	}
	return binary.LittleEndian.Uint16(r.data[off:])
}

func (r *fibReader) u32(off int) uint32 {
	if off < 0 || off+4 > len(r.data) {
		r.short = true
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[off:])
}

func (r *fibReader) ccp(off int) int {
	v := int32(r.u32(off))
	if v < 0 {
		return 0
	}
	return int(v)
}
