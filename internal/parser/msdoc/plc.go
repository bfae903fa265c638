package msdoc

import (
	"encoding/binary"
	"sort"
)

// PLC is a plex: n+1 ascending positions followed by n fixed-size data
// elements. 참조: [MS-DOC] 2.2.2
type PLC struct {
	Pos    []int
	data   []byte
	cbData int
}

// ParsePLC parses b as a plex with cbData-byte elements. Bytes that do not
// form a whole element are ignored.
func ParsePLC(b []byte, cbData int) *PLC {
	p := &PLC{cbData: cbData}
	if len(b) < 4 {
		return p
	}
	n := (len(b) - 4) / (4 + cbData)
	p.Pos = make([]int, n+1)
	for i := 0; i <= n; i++ {
		p.Pos[i] = int(int32(binary.LittleEndian.Uint32(b[i*4:])))
	}
	start := (n + 1) * 4
	p.data = b[start : start+n*cbData]
	return p
}

// Len returns the number of elements.
func (p *PLC) Len() int {
	if p == nil || len(p.Pos) == 0 {
		return 0
	}
	return len(p.Pos) - 1
}

// Range returns the [start, end) positions of element i.
func (p *PLC) Range(i int) (int, int) {
	return p.Pos[i], p.Pos[i+1]
}

// Data returns the raw bytes of element i.
func (p *PLC) Data(i int) []byte {
	if p.cbData == 0 {
		return nil
	}
	return p.data[i*p.cbData : (i+1)*p.cbData]
}

// Find returns the element whose range contains pos, or -1.
func (p *PLC) Find(pos int) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	// pos < Pos[i+1]을 만족하는 첫 번째 i
	i := sort.Search(n, func(i int) bool { return pos < p.Pos[i+1] })
	if i < n && p.Pos[i] <= pos {
		return i
	}
	return -1
}

// IndexOf returns the element starting exactly at pos, or -1.
func (p *PLC) IndexOf(pos int) int {
	n := p.Len()
	i := sort.Search(n, func(i int) bool { return p.Pos[i] >= pos })
	if i < n && p.Pos[i] == pos {
		return i
	}
	return -1
}
