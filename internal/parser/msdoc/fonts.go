package msdoc

import (
	"bytes"
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Font is an entry of the font table.
type Font struct {
	Name string
	Chs  byte // 문자 집합 (Windows CHARSET 값)
}

// FontTable is the decoded SttbfFfn.
type FontTable []Font

// Codepage returns the code page recorded for font ftc, or
// CodepageUnknown.
func (t FontTable) Codepage(ftc int) Codepage {
	if ftc < 0 || ftc >= len(t) {
		return CodepageUnknown
	}
	return CodepageForCharset(t[ftc].Chs)
}

// Name returns the name of font ftc.
func (t FontTable) Name(ftc int) string {
	if ftc < 0 || ftc >= len(t) {
		return ""
	}
	return t[ftc].Name
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUTF16Z decodes UTF-16LE up to the first NUL.
func decodeUTF16Z(b []byte) string {
	end := len(b) &^ 1
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			end = i
			break
		}
	}
	s, err := utf16le.NewDecoder().Bytes(b[:end])
	if err != nil {
		return ""
	}
	return string(s)
}

// decode8Z decodes 8-bit text up to the first NUL.
func decode8Z(b []byte, dec *TextDecoder, cp Codepage) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	var sb strings.Builder
	for _, u := range dec.Decode8(b, cp) {
		sb.WriteRune(u.R)
	}
	return sb.String()
}

// ParseFontTable decodes SttbfFfn. Entries that run past the end of b are
// kept with whatever fields were readable; truncated reports that case.
func ParseFontTable(b []byte, v Version, dec *TextDecoder) (t FontTable, truncated bool) {
	if len(b) < 2 {
		return nil, len(b) > 0
	}

	var off, count int
	if v == VersionWord6 {
		// 첫 u16은 전체 크기
		total := int(binary.LittleEndian.Uint16(b))
		if total < len(b) {
			b = b[:total]
		}
		off, count = 2, -1
	} else {
		if len(b) < 4 {
			return nil, true
		}
		count = int(binary.LittleEndian.Uint16(b))
		off = 4 // cData + cbExtra
	}

	for off < len(b) && (count < 0 || len(t) < count) {
		size := int(b[off]) + 1
		end := off + size
		if end > len(b) {
			end = len(b)
			truncated = true
		}
		ffn := b[off:end]
		off += size

		var f Font
		if len(ffn) > 4 {
			f.Chs = ffn[4]
		}
		if v == VersionWord6 {
			if len(ffn) > 6 {
				f.Name = decode8Z(ffn[6:], dec, CodepageForCharset(f.Chs))
			}
		} else if len(ffn) > 40 {
			f.Name = decodeUTF16Z(ffn[40:])
		}
		t = append(t, f)
	}
	if count > 0 && len(t) < count {
		truncated = true
	}
	return t, truncated
}
