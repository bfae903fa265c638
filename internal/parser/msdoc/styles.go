package msdoc

import "encoding/binary"

// Style kinds (stk / sgc).
const (
	StyleParagraph = 1
	StyleCharacter = 2
	StyleTable     = 3
	StyleNumbering = 4
)

// istdNil marks "no base style".
const istdNil = 0x0FFF

// Style is the subset of a style definition used for charset resolution,
// style names and heading detection.
type Style struct {
	Name string
	Sti  int // 기본 제공 스타일 식별자
	Kind int
	Base int
	Char CharProps // 스타일 자체 문자 속성 (기준 스타일 미포함)
	Para ParaProps

	chpx []byte // 문자 UPX grpprl
	papx []byte // 문단 UPX grpprl (istd 제외)
}

// Stylesheet is the decoded STSH.
type Stylesheet struct {
	Styles []*Style // 빈 슬롯은 nil
	// 기본 글꼴 (rgftcStandardChpStsh[0])
	DefaultFtc int
}

// Get returns style istd or nil.
func (s *Stylesheet) Get(istd int) *Style {
	if s == nil || istd < 0 || istd >= len(s.Styles) {
		return nil
	}
	return s.Styles[istd]
}

// chain visits istd and its base styles, nearest first.
func (s *Stylesheet) chain(istd int, fn func(*Style) bool) {
	for depth := 0; depth < 16; depth++ {
		st := s.Get(istd)
		if st == nil || !fn(st) {
			return
		}
		if st.Base == istdNil || st.Base == istd {
			return
		}
		istd = st.Base
	}
}

// bases returns istd and its base styles, root first.
func (s *Stylesheet) bases(istd int) []*Style {
	var out []*Style
	s.chain(istd, func(st *Style) bool {
		out = append(out, st)
		return true
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ApplyChar applies the character properties of istd and its bases to c.
func (s *Stylesheet) ApplyChar(istd int, c *CharProps, v Version) {
	for _, st := range s.bases(istd) {
		c.ApplyGrpprl(st.chpx, v)
	}
}

// ApplyPara applies the paragraph properties of istd and its bases to p.
func (s *Stylesheet) ApplyPara(istd int, p *ParaProps, v Version) {
	for _, st := range s.bases(istd) {
		p.ApplyGrpprl(st.papx, v)
	}
}

// Name returns the name of istd.
func (s *Stylesheet) Name(istd int) string {
	if st := s.Get(istd); st != nil {
		return st.Name
	}
	return ""
}

// Lid returns the character language of istd, following base styles.
func (s *Stylesheet) Lid(istd int) uint16 {
	var lid uint16
	s.chain(istd, func(st *Style) bool {
		lid = st.Char.Lid
		return lid == 0
	})
	return lid
}

// Ftc returns the font of istd, following base styles, or the stylesheet
// default.
func (s *Stylesheet) Ftc(istd int) int {
	ftc := -1
	s.chain(istd, func(st *Style) bool {
		ftc = st.Char.Ftc
		return ftc < 0
	})
	if ftc < 0 && s != nil {
		ftc = s.DefaultFtc
	}
	return ftc
}

// Codepage resolves the code page a style implies: its language first,
// then its font.
func (s *Stylesheet) Codepage(istd int, fonts FontTable) Codepage {
	if cp := CodepageForLID(s.Lid(istd)); cp != CodepageUnknown {
		return cp
	}
	return fonts.Codepage(s.Ftc(istd))
}

// HeadingLevel returns 1-9 for the built-in heading styles, 0 otherwise.
func (s *Stylesheet) HeadingLevel(istd int) int {
	st := s.Get(istd)
	if st == nil {
		return 0
	}
	if st.Sti >= 1 && st.Sti <= 9 {
		return st.Sti
	}
	return 0
}

// ParseStylesheet decodes the STSH. Damaged entries end the parse; the
// styles read so far are kept and truncated is set.
func ParseStylesheet(b []byte, v Version, dec *TextDecoder) (ss *Stylesheet, truncated bool) {
	ss = &Stylesheet{DefaultFtc: -1}
	if len(b) < 2 {
		return ss, len(b) > 0
	}

	cbStshi := int(binary.LittleEndian.Uint16(b))
	if 2+cbStshi > len(b) || cbStshi < 4 {
		return ss, true
	}
	stshi := b[2 : 2+cbStshi]
	cstd := int(binary.LittleEndian.Uint16(stshi))
	cbBase := int(binary.LittleEndian.Uint16(stshi[2:]))
	if len(stshi) >= 14 {
		ss.DefaultFtc = int(binary.LittleEndian.Uint16(stshi[12:]))
	}

	off := 2 + cbStshi
	for i := 0; i < cstd; i++ {
		if off+2 > len(b) {
			return ss, true
		}
		cbStd := int(binary.LittleEndian.Uint16(b[off:]))
		off += 2
		if cbStd == 0 {
			ss.Styles = append(ss.Styles, nil)
			continue
		}
		end := off + cbStd
		if end > len(b) {
			end = len(b)
			truncated = true
		}
		st, ok := parseStd(b[off:end], cbBase, v, dec)
		if !ok {
			truncated = true
		}
		ss.Styles = append(ss.Styles, st)
		off += cbStd
	}
	return ss, truncated
}

// parseStd decodes one STD. ok is false when the record ended early.
func parseStd(b []byte, cbBase int, v Version, dec *TextDecoder) (*Style, bool) {
	if len(b) < 6 || cbBase < 6 || cbBase > len(b) {
		return nil, false
	}
	w1 := binary.LittleEndian.Uint16(b[0:])
	w2 := binary.LittleEndian.Uint16(b[2:])
	w3 := binary.LittleEndian.Uint16(b[4:])

	st := &Style{
		Sti:  int(w1 & 0x0FFF),
		Kind: int(w2 & 0x000F),
		Base: int(w2 >> 4),
		Char: defaultCharProps(),
		Para: defaultParaProps(),
	}
	cupx := int(w3 & 0x000F)

	// 스타일 이름
	off := cbBase
	if v == VersionWord6 {
		if off >= len(b) {
			return st, false
		}
		cch := int(b[off])
		off++
		if off+cch > len(b) {
			return st, false
		}
		st.Name = decode8Z(b[off:off+cch], dec, CP1252)
		off += cch + 1
	} else {
		if off+2 > len(b) {
			return st, false
		}
		cch := int(binary.LittleEndian.Uint16(b[off:]))
		off += 2
		if off+2*cch > len(b) {
			return st, false
		}
		st.Name = decodeUTF16Z(b[off : off+2*cch])
		off += 2*cch + 2
	}

	// UPX: 문단 스타일은 PAPX, CHPX 순서, 문자 스타일은 CHPX만
	for u := 0; u < cupx; u++ {
		if off%2 != 0 {
			off++
		}
		if off+2 > len(b) {
			return st, false
		}
		cb := int(binary.LittleEndian.Uint16(b[off:]))
		off += 2
		if off+cb > len(b) {
			return st, false
		}
		upx := b[off : off+cb]
		off += cb

		switch {
		case st.Kind == StyleParagraph && u == 0:
			if len(upx) >= 2 {
				st.papx = upx[2:]
				st.Para.ApplyGrpprl(st.papx, v)
			}
		case (st.Kind == StyleParagraph && u == 1) || (st.Kind == StyleCharacter && u == 0):
			st.chpx = upx
			st.Char.ApplyGrpprl(upx, v)
		}
	}
	return st, true
}
