package msdoc

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Codepage is a Windows code page number. Zero means "not known".
type Codepage int

const (
	CodepageUnknown Codepage = 0
	CP437           Codepage = 437
	CP850           Codepage = 850
	CP866           Codepage = 866
	CP874           Codepage = 874
	CP932           Codepage = 932 // Shift_JIS
	CP936           Codepage = 936 // GBK
	CP949           Codepage = 949 // EUC-KR / UHC
	CP950           Codepage = 950 // Big5
	CP1250          Codepage = 1250
	CP1251          Codepage = 1251
	CP1252          Codepage = 1252
	CP1253          Codepage = 1253
	CP1254          Codepage = 1254
	CP1255          Codepage = 1255
	CP1256          Codepage = 1256
	CP1257          Codepage = 1257
	CP1258          Codepage = 1258
)

// FallbackCodepage decodes single units the active code page leaves
// undefined.
const FallbackCodepage = CP1252

var singleByte = map[Codepage]*charmap.Charmap{
	CP437:  charmap.CodePage437,
	CP850:  charmap.CodePage850,
	CP866:  charmap.CodePage866,
	CP874:  charmap.Windows874,
	CP1250: charmap.Windows1250,
	CP1251: charmap.Windows1251,
	CP1252: charmap.Windows1252,
	CP1253: charmap.Windows1253,
	CP1254: charmap.Windows1254,
	CP1255: charmap.Windows1255,
	CP1256: charmap.Windows1256,
	CP1257: charmap.Windows1257,
	CP1258: charmap.Windows1258,
}

var doubleByte = map[Codepage]encoding.Encoding{
	CP932: japanese.ShiftJIS,
	CP936: simplifiedchinese.GBK,
	CP949: korean.EUCKR,
	CP950: traditionalchinese.Big5,
}

// Supported reports whether c can be decoded.
func (c Codepage) Supported() bool {
	_, sb := singleByte[c]
	_, db := doubleByte[c]
	return sb || db
}

// IsDBCS reports whether c is a double-byte code page.
func (c Codepage) IsDBCS() bool {
	_, ok := doubleByte[c]
	return ok
}

// String returns "cpNNNN".
func (c Codepage) String() string {
	if c == CodepageUnknown {
		return "unknown"
	}
	return fmt.Sprintf("cp%d", int(c))
}

// ParseCodepage accepts "1251", "cp1251" or "windows-1251".
func ParseCodepage(s string) (Codepage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CodepageUnknown, nil
	}
	s = strings.TrimPrefix(s, "windows-")
	s = strings.TrimPrefix(s, "cp")
	n, err := strconv.Atoi(s)
	if err != nil {
		return CodepageUnknown, fmt.Errorf("알 수 없는 코드 페이지: %q", s)
	}
	c := Codepage(n)
	if !c.Supported() {
		return CodepageUnknown, fmt.Errorf("지원하지 않는 코드 페이지: %d", n)
	}
	return c, nil
}

// CodepageForCharset maps a font charset (FFN chs) to a code page.
func CodepageForCharset(chs byte) Codepage {
	switch chs {
	case 0, 1, 2: // ANSI, DEFAULT, SYMBOL
		return CP1252
	case 128:
		return CP932
	case 129, 130:
		return CP949
	case 134:
		return CP936
	case 136:
		return CP950
	case 161:
		return CP1253
	case 162:
		return CP1254
	case 163:
		return CP1258
	case 177:
		return CP1255
	case 178:
		return CP1256
	case 186:
		return CP1257
	case 204:
		return CP1251
	case 222:
		return CP874
	case 238:
		return CP1250
	case 255: // OEM
		return CP850
	default:
		return CodepageUnknown
	}
}

// lidNone is the "no proofing" language id.
const lidNone = 0x0400

// CodepageForLID maps a Windows language id to its ANSI code page. Zero
// and "no proofing" return CodepageUnknown.
func CodepageForLID(lid uint16) Codepage {
	if lid == 0 || lid == lidNone || lid == 0xFFFF {
		return CodepageUnknown
	}
	switch lid {
	case 0x0404, 0x0C04, 0x1404: // 대만, 홍콩, 마카오
		return CP950
	case 0x0804, 0x1004: // 중국, 싱가포르
		return CP936
	case 0x0C1A, 0x1C1A, 0x281A: // 세르비아어 (키릴)
		return CP1251
	case 0x042C: // 아제르바이잔어 (라틴)
		return CP1254
	case 0x082C, 0x0843: // 아제르바이잔어, 우즈베크어 (키릴)
		return CP1251
	}

	switch lid & 0x3FF {
	case 0x04:
		return CP936
	case 0x11:
		return CP932
	case 0x12:
		return CP949
	case 0x1E:
		return CP874
	case 0x2A:
		return CP1258
	case 0x02, 0x19, 0x22, 0x23, 0x2F, 0x3F, 0x40, 0x44, 0x50, 0x6D:
		return CP1251
	case 0x05, 0x0E, 0x15, 0x18, 0x1A, 0x1B, 0x1C, 0x24:
		return CP1250
	case 0x08:
		return CP1253
	case 0x1F:
		return CP1254
	case 0x0D:
		return CP1255
	case 0x01, 0x20, 0x29:
		return CP1256
	case 0x25, 0x26, 0x27:
		return CP1257
	default:
		return CP1252
	}
}

// CharsetSource names the input a code page was resolved from.
type CharsetSource int

const (
	SourceOverride CharsetSource = iota
	SourceLanguage
	SourceFont
	SourceStyle
	SourceDefault
)

// String returns the source name.
func (s CharsetSource) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceLanguage:
		return "language"
	case SourceFont:
		return "font"
	case SourceStyle:
		return "style"
	default:
		return "default"
	}
}

// CharsetInputs are the candidates considered by ResolveCharset. Unknown
// or unsupported values are skipped.
type CharsetInputs struct {
	Override Codepage
	Lid      uint16
	Font     Codepage
	Style    Codepage
	Default  Codepage
}

// ResolveCharset picks the code page of a run in fixed priority order:
// override, run language, font, paragraph style, document default.
func ResolveCharset(in CharsetInputs) (Codepage, CharsetSource) {
	candidates := [...]struct {
		cp  Codepage
		src CharsetSource
	}{
		{in.Override, SourceOverride},
		{CodepageForLID(in.Lid), SourceLanguage},
		{in.Font, SourceFont},
		{in.Style, SourceStyle},
		{in.Default, SourceDefault},
	}
	for _, c := range candidates {
		if c.cp.Supported() {
			return c.cp, c.src
		}
	}
	return FallbackCodepage, SourceDefault
}
