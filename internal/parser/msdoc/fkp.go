package msdoc

import (
	"encoding/binary"
	"log/slog"
)

// tableSource bundles what the property table builders read from.
type tableSource struct {
	fib    *FIB
	main   *DecryptedStream
	table  *DecryptedStream
	pieces *PieceTable
	diag   *diag
}

// tableBytes returns the table stream bytes of p, clamped to the stream.
func (s *tableSource) tableBytes(p FcLcb, name string) []byte {
	if p.Empty() {
		return nil
	}
	b := s.table.Bytes(int64(p.Fc), int(p.Lcb))
	if len(b) < int(p.Lcb) {
		s.diag.truncated(name, slog.Int("want", int(p.Lcb)), slog.Int("got", len(b)))
	}
	return b
}

// bteSize returns the width of a PN in PlcfBte.
func bteSize(v Version) int {
	if v == VersionWord6 {
		return 2
	}
	return 4
}

// pageNumbers lists the FKP page numbers of a PlcfBte. Word 6 files may
// store fewer BTEs than cpnBte; the missing pages follow the last one.
func (s *tableSource) pageNumbers(p FcLcb, first, count int, name string) []int {
	v := s.fib.Version()
	plc := ParsePLC(s.tableBytes(p, name), bteSize(v))

	pns := make([]int, 0, plc.Len())
	for i := 0; i < plc.Len(); i++ {
		d := plc.Data(i)
		if v == VersionWord6 {
			pns = append(pns, int(binary.LittleEndian.Uint16(d)))
		} else {
			pns = append(pns, int(binary.LittleEndian.Uint32(d)&0x3FFFFF))
		}
	}

	if v == VersionWord6 && count > len(pns) {
		next := first
		if len(pns) > 0 {
			next = pns[len(pns)-1] + 1
		}
		for len(pns) < count {
			pns = append(pns, next)
			next++
		}
	}
	return pns
}

// fkpPage reads one 512-byte FKP page. A short page is returned as is.
func (s *tableSource) fkpPage(pn int, name string) []byte {
	page := s.main.Bytes(int64(pn)*PageSize, PageSize)
	if len(page) < PageSize {
		s.diag.truncated(name, slog.Int("pn", pn), slog.Int("got", len(page)))
	}
	return page
}

// fkpRuns decodes crun and rgfc of a page.
func fkpRuns(page []byte) (crun int, rgfc []int64) {
	if len(page) < PageSize {
		return 0, nil
	}
	crun = int(page[PageSize-1])
	if 4*(crun+1) > PageSize-1 {
		return 0, nil
	}
	rgfc = make([]int64, crun+1)
	for i := range rgfc {
		rgfc[i] = int64(binary.LittleEndian.Uint32(page[4*i:]))
	}
	return crun, rgfc
}

// clampBlob cuts a declared [off, off+n) slice to the usable page area.
func (s *tableSource) clampBlob(page []byte, off, n int, name string, pn int) []byte {
	limit := PageSize - 1 // crun 바이트 제외
	if off >= limit {
		s.diag.truncated(name, slog.Int("pn", pn), slog.Int("offset", off))
		return []byte{}
	}
	if off+n > limit {
		s.diag.truncated(name, slog.Int("pn", pn), slog.Int("declared", n), slog.Int("available", limit-off))
		n = limit - off
	}
	return page[off : off+n]
}

// addProjected adds a blob for the FC run [fcStart, fcEnd) to t.
func (s *tableSource) addProjected(t *PropTable, fcStart, fcEnd int64, blob []byte) {
	for _, r := range s.pieces.ProjectFC(fcStart, fcEnd) {
		t.Add(r.Start, r.End, blob)
	}
}

// BuildCharTable reads the CHPX FKPs into a CP indexed table. Blobs are
// grpprls.
func (s *tableSource) BuildCharTable() *PropTable {
	t := NewPropTable(TableChar)
	f := s.fib
	for _, pn := range s.pageNumbers(f.PlcfBteChpx, f.PnChpFirst, f.CpnBteChp, "PlcfBteChpx") {
		page := s.fkpPage(pn, "chpx")
		crun, rgfc := fkpRuns(page)
		for i := 0; i < crun; i++ {
			b := int(page[4*(crun+1)+i]) * 2
			var grpprl []byte
			if b != 0 {
				cb := int(page[b])
				grpprl = s.clampBlob(page, b+1, cb, "chpx", pn)
			}
			s.addProjected(t, rgfc[i], rgfc[i+1], grpprl)
		}
	}
	t.Finish()
	return t
}

// BuildParaTable reads the PAPX FKPs. Blobs are istd + grpprl.
func (s *tableSource) BuildParaTable() *PropTable {
	t := NewPropTable(TablePara)
	f := s.fib
	v := f.Version()

	bxSize := 13
	if v == VersionWord6 {
		bxSize = 7
	}

	for _, pn := range s.pageNumbers(f.PlcfBtePapx, f.PnPapFirst, f.CpnBtePap, "PlcfBtePapx") {
		page := s.fkpPage(pn, "papx")
		crun, rgfc := fkpRuns(page)
		for i := 0; i < crun; i++ {
			bx := 4*(crun+1) + i*bxSize
			if bx >= PageSize-1 {
				s.diag.truncated("papx", slog.Int("pn", pn), slog.Int("bx", i))
				break
			}
			b := int(page[bx]) * 2
			var papx []byte
			if b != 0 && b < PageSize-1 {
				papx = s.papxInFkp(page, b, v, pn)
			}
			s.addProjected(t, rgfc[i], rgfc[i+1], papx)
		}
	}
	t.Finish()
	return t
}

// papxInFkp reads a PapxInFkp at byte offset b.
func (s *tableSource) papxInFkp(page []byte, b int, v Version, pn int) []byte {
	cb := int(page[b])
	off := b + 1
	var n int
	switch {
	case v == VersionWord6:
		n = 2 * cb
	case cb != 0:
		n = 2*cb - 1
	default:
		if off >= PageSize-1 {
			return []byte{}
		}
		n = 2 * int(page[off])
		off++
	}
	return s.clampBlob(page, off, n, "papx", pn)
}

// sedSize is the size of a section descriptor.
const sedSize = 12

// BuildSectTable reads PlcfSed and the SEPXs it points at. Blobs are
// grpprls.
func (s *tableSource) BuildSectTable() *PropTable {
	t := NewPropTable(TableSect)
	plc := ParsePLC(s.tableBytes(s.fib.PlcfSed, "PlcfSed"), sedSize)

	for i := 0; i < plc.Len(); i++ {
		start, end := plc.Range(i)
		fcSepx := binary.LittleEndian.Uint32(plc.Data(i)[2:6])

		grpprl := []byte{}
		if fcSepx != 0xFFFFFFFF {
			grpprl = s.sepx(int64(fcSepx))
		}
		t.Add(start, end, grpprl)
	}
	t.Finish()
	return t
}

func (s *tableSource) sepx(fc int64) []byte {
	head := s.main.Bytes(fc, 2)
	if len(head) < 2 {
		s.diag.truncated("sepx", slog.Int64("fc", fc))
		return []byte{}
	}
	cb := int(binary.LittleEndian.Uint16(head))
	b := s.main.Bytes(fc+2, cb)
	if len(b) < cb {
		s.diag.truncated("sepx", slog.Int64("fc", fc), slog.Int("declared", cb), slog.Int("available", len(b)))
	}
	return b
}
