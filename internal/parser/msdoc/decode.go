package msdoc

import (
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// Unit is one decoded character and the number of CPs it occupied.
type Unit struct {
	R     rune
	Width int
}

// TextDecoder turns stored text bytes into code points. It caches one
// 256-entry table per single-byte code page.
type TextDecoder struct {
	tables map[Codepage]*[256]rune
	dbcs   map[Codepage]*encoding.Decoder
}

// NewTextDecoder returns an empty decoder.
func NewTextDecoder() *TextDecoder {
	return &TextDecoder{
		tables: make(map[Codepage]*[256]rune),
		dbcs:   make(map[Codepage]*encoding.Decoder),
	}
}

// table builds the byte table of a single-byte code page. Bytes the code
// page leaves undefined are taken from the fallback code page, and from
// their own value if that fails too.
func (d *TextDecoder) table(cp Codepage) *[256]rune {
	if t, ok := d.tables[cp]; ok {
		return t
	}
	cm, ok := singleByte[cp]
	if !ok {
		cm = singleByte[FallbackCodepage]
	}
	fb := singleByte[FallbackCodepage]

	t := new([256]rune)
	for i := 0; i < 256; i++ {
		b := byte(i)
		r := cm.DecodeByte(b)
		if r == utf8.RuneError {
			r = fb.DecodeByte(b)
		}
		if r == utf8.RuneError {
			r = rune(b)
		}
		t[i] = r
	}
	d.tables[cp] = t
	return t
}

// DecodeByte decodes a single byte in cp, with fallback.
func (d *TextDecoder) DecodeByte(b byte, cp Codepage) rune {
	if cp.IsDBCS() {
		if b < 0x80 {
			return rune(b)
		}
		if r, ok := d.decodeDBCS([]byte{b}, cp); ok {
			return r
		}
		return d.table(FallbackCodepage)[b]
	}
	return d.table(cp)[b]
}

func (d *TextDecoder) decodeDBCS(b []byte, cp Codepage) (rune, bool) {
	dec, ok := d.dbcs[cp]
	if !ok {
		dec = doubleByte[cp].NewDecoder()
		d.dbcs[cp] = dec
	}
	out, err := dec.Bytes(b)
	if err != nil {
		return 0, false
	}
	r, n := utf8.DecodeRune(out)
	if r == utf8.RuneError || n != len(out) {
		return 0, false
	}
	return r, true
}

// Decode8 decodes 8-bit stored text. Every byte is one CP; a double-byte
// character therefore has Width 2.
func (d *TextDecoder) Decode8(b []byte, cp Codepage) []Unit {
	out := make([]Unit, 0, len(b))
	if !cp.IsDBCS() {
		t := d.table(cp)
		for _, c := range b {
			out = append(out, Unit{R: t[c], Width: 1})
		}
		return out
	}

	for i := 0; i < len(b); {
		c := b[i]
		if c < 0x80 {
			out = append(out, Unit{R: rune(c), Width: 1})
			i++
			continue
		}
		if i+1 < len(b) {
			if r, ok := d.decodeDBCS(b[i:i+2], cp); ok {
				out = append(out, Unit{R: r, Width: 2})
				i += 2
				continue
			}
		}
		out = append(out, Unit{R: d.DecodeByte(c, cp), Width: 1})
		i++
	}
	return out
}

// Wide values in this range carry a single legacy byte in their low half.
const (
	legacyWideLo = 0xF000
	legacyWideHi = 0xF0FF
)

// Decode16 decodes UTF-16LE stored text. Surrogate pairs become one rune
// of Width 2. Values in 0xF000-0xF0FF are decoded as a byte of cp.
func (d *TextDecoder) Decode16(b []byte, cp Codepage) []Unit {
	n := len(b) / 2
	out := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(b[2*i:])
		switch {
		case u >= legacyWideLo && u <= legacyWideHi:
			out = append(out, Unit{R: d.DecodeByte(byte(u), cp), Width: 1})
		case u >= 0xD800 && u < 0xDC00 && i+1 < n:
			lo := binary.LittleEndian.Uint16(b[2*i+2:])
			if lo >= 0xDC00 && lo < 0xE000 {
				r := (rune(u)-0xD800)<<10 + (rune(lo) - 0xDC00) + 0x10000
				out = append(out, Unit{R: r, Width: 2})
				i++
				continue
			}
			out = append(out, Unit{R: utf8.RuneError, Width: 1})
		case u >= 0xD800 && u < 0xE000:
			out = append(out, Unit{R: utf8.RuneError, Width: 1})
		default:
			out = append(out, Unit{R: rune(u), Width: 1})
		}
	}
	return out
}

// DecodeRun decodes a stored byte range in the given code page.
func (d *TextDecoder) DecodeRun(b []byte, wide bool, cp Codepage) []Unit {
	if wide {
		return d.Decode16(b, cp)
	}
	return d.Decode8(b, cp)
}
