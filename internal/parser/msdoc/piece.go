package msdoc

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Piece maps a contiguous CP range to a byte range of WordDocument.
type Piece struct {
	CPStart int
	CPEnd   int
	FC      int64 // 첫 글자의 바이트 오프셋
	Wide    bool  // true면 UTF-16, false면 8비트
	Prm     uint16
}

// Width returns the storage width of one character.
func (p Piece) Width() int64 {
	if p.Wide {
		return 2
	}
	return 1
}

// FCEnd returns the byte offset just past the piece.
func (p Piece) FCEnd() int64 {
	return p.FC + int64(p.CPEnd-p.CPStart)*p.Width()
}

// Location is the result of mapping a CP.
type Location struct {
	FC        int64
	Wide      bool
	Piece     int
	Truncated bool // cp 또는 fc가 범위를 벗어나 잘림
}

// PieceTable is the Position Mapper: it turns character positions into
// WordDocument byte offsets.
type PieceTable struct {
	Pieces  []Piece
	grpprls [][]byte // Clx Prc 목록
	limit   int64    // WordDocument 크기
}

const pcdSize = 8

// fcCompressed marks an 8-bit piece in Word 97 piece descriptors.
const fcCompressed = 0x40000000

// ParseClx parses the complex file information. streamLen bounds every
// mapped offset.
func ParseClx(b []byte, v Version, streamLen int64) (*PieceTable, error) {
	t := &PieceTable{limit: streamLen}

	i := 0
	for i < len(b) {
		switch b[i] {
		case 0x01: // Prc
			if i+3 > len(b) {
				return nil, fmt.Errorf("%w: truncated Prc at %d", ErrCorruptHeader, i)
			}
			cb := int(binary.LittleEndian.Uint16(b[i+1:]))
			end := i + 3 + cb
			if end > len(b) {
				end = len(b)
			}
			t.grpprls = append(t.grpprls, b[i+3:end])
			i = end

		case 0x02: // Pcdt
			if i+5 > len(b) {
				return nil, fmt.Errorf("%w: truncated Pcdt at %d", ErrCorruptHeader, i)
			}
			lcb := int(binary.LittleEndian.Uint32(b[i+1:]))
			start := i + 5
			end := start + lcb
			if end > len(b) {
				end = len(b)
			}
			t.parsePlcPcd(b[start:end], v)
			if len(t.Pieces) == 0 {
				return nil, fmt.Errorf("%w: empty piece table", ErrCorruptHeader)
			}
			return t, nil

		default:
			return nil, fmt.Errorf("%w: unexpected clxt 0x%02X at %d", ErrCorruptHeader, b[i], i)
		}
	}
	return nil, fmt.Errorf("%w: piece table not found", ErrCorruptHeader)
}

func (t *PieceTable) parsePlcPcd(b []byte, v Version) {
	plc := ParsePLC(b, pcdSize)
	for i := 0; i < plc.Len(); i++ {
		start, end := plc.Range(i)
		if end < start {
			continue
		}
		d := plc.Data(i)
		fc := binary.LittleEndian.Uint32(d[2:6])
		p := Piece{
			CPStart: start,
			CPEnd:   end,
			Prm:     binary.LittleEndian.Uint16(d[6:8]),
		}
		switch {
		case v == VersionWord6:
			p.FC = int64(fc)
		case fc&fcCompressed != 0:
			p.FC = int64(fc&^fcCompressed) / 2
		default:
			p.FC = int64(fc)
			p.Wide = true
		}
		t.Pieces = append(t.Pieces, p)
	}
}

// NewSimplePieceTable describes a non-complex file: all text is stored
// contiguously from fcMin.
func NewSimplePieceTable(fcMin int64, ccp int, wide bool, streamLen int64) *PieceTable {
	return &PieceTable{
		Pieces: []Piece{{CPStart: 0, CPEnd: ccp, FC: fcMin, Wide: wide}},
		limit:  streamLen,
	}
}

// Grpprl returns the Prc grpprl at index i, if present.
func (t *PieceTable) Grpprl(i int) ([]byte, bool) {
	if i < 0 || i >= len(t.grpprls) {
		return nil, false
	}
	return t.grpprls[i], true
}

// EndCP returns the CP just past the last piece.
func (t *PieceTable) EndCP() int {
	if len(t.Pieces) == 0 {
		return 0
	}
	return t.Pieces[len(t.Pieces)-1].CPEnd
}

// find returns the index of the piece containing cp, or -1.
func (t *PieceTable) find(cp int) int {
	n := len(t.Pieces)
	i := sort.Search(n, func(i int) bool { return cp < t.Pieces[i].CPEnd })
	if i < n && t.Pieces[i].CPStart <= cp {
		return i
	}
	return -1
}

// Locate maps cp to its byte offset. Positions outside every piece clamp
// to the end of the last piece, offsets past the stream clamp to the
// stream end; both set Truncated.
func (t *PieceTable) Locate(cp int) Location {
	if len(t.Pieces) == 0 {
		return Location{Piece: -1, Truncated: true}
	}

	i := t.find(cp)
	if i < 0 {
		last := len(t.Pieces) - 1
		p := t.Pieces[last]
		loc := Location{FC: p.FCEnd(), Wide: p.Wide, Piece: last, Truncated: true}
		if cp < 0 {
			p = t.Pieces[0]
			loc = Location{FC: p.FC, Wide: p.Wide, Piece: 0, Truncated: true}
		}
		return t.clamp(loc)
	}

	p := t.Pieces[i]
	return t.clamp(Location{
		FC:    p.FC + int64(cp-p.CPStart)*p.Width(),
		Wide:  p.Wide,
		Piece: i,
	})
}

func (t *PieceTable) clamp(loc Location) Location {
	if t.limit > 0 && loc.FC > t.limit {
		loc.FC = t.limit
		loc.Truncated = true
	}
	return loc
}

// PieceEnd returns the CP at which the piece containing cp ends, or cp if
// no piece contains it.
func (t *PieceTable) PieceEnd(cp int) int {
	if i := t.find(cp); i >= 0 {
		return t.Pieces[i].CPEnd
	}
	return cp
}

// PrmAt returns the Prm of the piece containing cp.
func (t *PieceTable) PrmAt(cp int) (uint16, bool) {
	if i := t.find(cp); i >= 0 {
		return t.Pieces[i].Prm, true
	}
	return 0, false
}

// CPRange is a half-open character position range.
type CPRange struct {
	Start int
	End   int
}

// ProjectFC maps the byte range [fcStart, fcEnd) onto the CP ranges of
// every piece that stores bytes inside it.
func (t *PieceTable) ProjectFC(fcStart, fcEnd int64) []CPRange {
	var out []CPRange
	for _, p := range t.Pieces {
		lo, hi := p.FC, p.FCEnd()
		if fcStart > lo {
			lo = fcStart
		}
		if fcEnd < hi {
			hi = fcEnd
		}
		if lo >= hi {
			continue
		}
		w := p.Width()
		start := p.CPStart + int((lo-p.FC+w-1)/w)
		end := p.CPStart + int((hi-p.FC+w-1)/w)
		if start < end {
			out = append(out, CPRange{Start: start, End: end})
		}
	}
	return out
}
