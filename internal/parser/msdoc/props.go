package msdoc

import "encoding/binary"

// CharProps is the decoded subset of character properties the walker and
// the charset resolver need.
type CharProps struct {
	Istd      int    // 문자 스타일
	Lid       uint16 // 언어 (비 동아시아)
	LidFE     uint16 // 동아시아 언어
	Ftc       int    // 글꼴 인덱스
	FtcFE     int
	Special   bool // fSpec: 제어 문자가 특수 개체
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
	Hidden    bool
	Iss       int    // 0 보통, 1 위첨자, 2 아래첨자
	PicLoc    uint32 // Data 스트림 내 그림 위치
	Data      bool
	Ole2      bool
	Obj       bool
	FldVanish bool
	Deleted   bool // 변경 추적 삭제 표시
}

// defaultCharProps returns the CHP defaults used before any style or
// grpprl is applied.
func defaultCharProps() CharProps {
	return CharProps{Istd: 10, Ftc: -1, FtcFE: -1}
}

// toggle applies a Word toggle operand: 0 off, 1 on, 0x80 keep, 0x81 flip.
func toggle(cur bool, op byte) bool {
	switch op {
	case 0:
		return false
	case 1:
		return true
	case 0x81:
		return !cur
	default:
		return cur
	}
}

// apply applies one sprm. It reports whether the sprm was recognized.
func (c *CharProps) apply(s Sprm, v Version) bool {
	if v == VersionWord6 {
		return c.apply6(s)
	}

	switch s.Op {
	case sprmCIstd:
		c.Istd = int(s.Uint16())
	case sprmCRgLid0, sprmCRgLid0_80, sprmCLid:
		c.Lid = s.Uint16()
	case sprmCRgLid1, sprmCRgLid1_80:
		c.LidFE = s.Uint16()
	case sprmCRgFtc0, sprmCRgFtc2:
		if s.Op == sprmCRgFtc0 || c.Ftc < 0 {
			c.Ftc = int(s.Uint16())
		}
	case sprmCRgFtc1:
		c.FtcFE = int(s.Uint16())
	case sprmCFSpec:
		c.Special = s.Byte() != 0
	case sprmCFBold:
		c.Bold = toggle(c.Bold, s.Byte())
	case sprmCFItalic:
		c.Italic = toggle(c.Italic, s.Byte())
	case sprmCFStrike:
		c.Strike = toggle(c.Strike, s.Byte())
	case sprmCFVanish:
		c.Hidden = toggle(c.Hidden, s.Byte())
	case sprmCKul:
		c.Underline = s.Byte() != 0
	case sprmCIss:
		c.Iss = int(s.Byte())
	case sprmCPicLocation:
		c.PicLoc = s.Uint32()
	case sprmCFData:
		c.Data = s.Byte() != 0
	case sprmCFOle2:
		c.Ole2 = s.Byte() != 0
	case sprmCFObj:
		c.Obj = s.Byte() != 0
	case sprmCFFldVanish:
		c.FldVanish = s.Byte() != 0
	case sprmCFRMarkDel:
		c.Deleted = s.Byte() != 0
	default:
		return false
	}
	return true
}

func (c *CharProps) apply6(s Sprm) bool {
	switch s.Op {
	case sprm6CIstd:
		c.Istd = int(s.Uint16())
	case sprm6CLid:
		c.Lid = s.Uint16()
	case sprm6CFtc:
		c.Ftc = int(s.Uint16())
	case sprm6CFSpec:
		c.Special = s.Byte() != 0
	case sprm6CFBold:
		c.Bold = toggle(c.Bold, s.Byte())
	case sprm6CFItalic:
		c.Italic = toggle(c.Italic, s.Byte())
	case sprm6CFStrike:
		c.Strike = toggle(c.Strike, s.Byte())
	case sprm6CFVanish:
		c.Hidden = toggle(c.Hidden, s.Byte())
	case sprm6CKul:
		c.Underline = s.Byte() != 0
	case sprm6CIss:
		c.Iss = int(s.Byte())
	case sprm6CPicLoc:
		// 가변 길이: cb 다음에 fcPic
		if len(s.Arg) >= 5 {
			c.PicLoc = binary.LittleEndian.Uint32(s.Arg[1:])
		}
	case sprm6CFData:
		c.Data = s.Byte() != 0
	case sprm6CFOle2:
		c.Ole2 = s.Byte() != 0
	case sprm6CFObj:
		c.Obj = s.Byte() != 0
	case sprm6CFFldVanish:
		c.FldVanish = s.Byte() != 0
	default:
		return false
	}
	return true
}

// ApplyGrpprl applies every sprm of grpprl and reports truncation.
func (c *CharProps) ApplyGrpprl(grpprl []byte, v Version) (truncated bool) {
	return walkSprms(grpprl, v, func(s Sprm) bool {
		c.apply(s, v)
		return true
	})
}

// Justification values of ParaProps.Jc.
const (
	JcLeft    = 0
	JcCenter  = 1
	JcRight   = 2
	JcJustify = 3
)

// ParaProps is the decoded subset of paragraph properties.
type ParaProps struct {
	Istd      int
	InTable   bool // fInTable
	TTP       bool // 행 끝 문단
	Itap      int  // 표 중첩 깊이
	InnerCell bool
	InnerTTP  bool
	Jc        int
	OutLvl    int // 9 = 본문
	Ilfo      int // 목록 번호 (0 = 목록 아님)
	Ilvl      int
}

func defaultParaProps() ParaProps {
	return ParaProps{OutLvl: 9}
}

// TableDepth returns the table nesting depth of the paragraph.
func (p ParaProps) TableDepth() int {
	if p.Itap > 0 {
		return p.Itap
	}
	if p.InTable {
		return 1
	}
	return 0
}

// IsList reports whether the paragraph is a list item.
func (p ParaProps) IsList() bool { return p.Ilfo > 0 }

// RowEnd reports whether the paragraph mark ends a table row.
func (p ParaProps) RowEnd() bool {
	if p.TableDepth() > 1 {
		return p.InnerTTP
	}
	return p.TTP
}

func (p *ParaProps) apply(s Sprm, v Version) bool {
	if v == VersionWord6 {
		switch s.Op {
		case sprm6PIstd:
			p.Istd = int(s.Uint16())
		case sprm6PJc:
			p.Jc = int(s.Byte())
		case sprm6PFInTable:
			p.InTable = s.Byte() != 0
		case sprm6PTtp:
			p.TTP = s.Byte() != 0
		case sprm6PNLvlAnm:
			// 1-9는 목록 수준, 10 이상은 제목 번호 매기기
			lvl := int(s.Byte())
			p.Ilfo, p.Ilvl = 0, 0
			if lvl >= 1 && lvl <= 9 {
				p.Ilfo, p.Ilvl = 1, lvl-1
			}
		default:
			return false
		}
		return true
	}

	switch s.Op {
	case sprmPIstd:
		p.Istd = int(s.Uint16())
	case sprmPJc80, sprmPJc:
		p.Jc = int(s.Byte())
	case sprmPFInTable:
		p.InTable = s.Byte() != 0
	case sprmPFTtp:
		p.TTP = s.Byte() != 0
	case sprmPItap:
		p.Itap = int(int32(s.Uint32()))
		if p.Itap > 0 {
			p.InTable = true
		}
	case sprmPFInnerTblCell:
		p.InnerCell = s.Byte() != 0
	case sprmPFInnerTtp:
		p.InnerTTP = s.Byte() != 0
	case sprmPOutLvl:
		p.OutLvl = int(s.Byte())
	case sprmPIlfo:
		p.Ilfo = int(int16(s.Uint16()))
	case sprmPIlvl:
		p.Ilvl = int(s.Byte())
	default:
		return false
	}
	return true
}

// ApplyGrpprl applies every sprm of grpprl and reports truncation.
func (p *ParaProps) ApplyGrpprl(grpprl []byte, v Version) (truncated bool) {
	return walkSprms(grpprl, v, func(s Sprm) bool {
		p.apply(s, v)
		return true
	})
}

// Section break kinds (bkc).
const (
	BkcContinuous = 0
	BkcNewColumn  = 1
	BkcNewPage    = 2
	BkcEvenPage   = 3
	BkcOddPage    = 4
)

// SectProps is the decoded subset of section properties.
type SectProps struct {
	Bkc int
}

func defaultSectProps() SectProps {
	return SectProps{Bkc: BkcNewPage}
}

// ApplyGrpprl applies every sprm of grpprl and reports truncation.
func (sp *SectProps) ApplyGrpprl(grpprl []byte, v Version) (truncated bool) {
	return walkSprms(grpprl, v, func(s Sprm) bool {
		if (v == VersionWord6 && s.Op == sprm6SBkc) || (v != VersionWord6 && s.Op == sprmSBkc) {
			sp.Bkc = int(s.Byte())
		}
		return true
	})
}
