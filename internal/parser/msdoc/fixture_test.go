package msdoc

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/roboco-io/doc2md/internal/crypt"
)

// 테스트용 Word 바이너리 문서 생성기

// run is a property run of the fixture; it starts where the previous run
// ended.
type run struct {
	end    int
	istd   uint16 // 문단 런에서만 사용
	grpprl []byte
}

type fixStyle struct {
	name string
	sti  int
	kind int
	base int
	papx []byte
	chpx []byte
}

type fixSection struct {
	end    int
	grpprl []byte // nil이면 SEPX 없음
}

type fldChar struct {
	cp  int
	ch  byte
	flt byte
}

type fixPiece struct {
	end int
	prm uint16
}

type fixture struct {
	v    Version
	wide bool
	lid  uint16

	main        string
	footnotes   string
	headers     string
	annotations string
	endnotes    string
	textboxes   string

	chpx     []run // nil이면 속성 없는 런 하나
	papx     []run // nil이면 문단 표시마다 나눔 (istd 0)
	sections []fixSection
	fonts    []Font
	styles   []fixStyle
	fields   []fldChar
	pieces   []fixPiece
	prc      [][]byte

	fndRef, fndTxt []int
	endRef, endTxt []int
	andRef, andTxt []int
	hdd            []int
	txbx           []int
}

const (
	fixFIB8 = 0x400
	fixFIB6 = 0x200
)

func le16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func le32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }

func u16b(v uint16) []byte {
	b := make([]byte, 2)
	le16(b, 0, v)
	return b
}

func u32b(v uint32) []byte {
	b := make([]byte, 4)
	le32(b, 0, v)
	return b
}

func (f *fixture) version() Version {
	if f.v == VersionUnknown {
		return VersionWord8
	}
	return f.v
}

func (f *fixture) ccps() [8]int {
	return [8]int{
		len(f.units(f.main)), len(f.units(f.footnotes)), len(f.units(f.headers)), 0,
		len(f.units(f.annotations)), len(f.units(f.endnotes)), len(f.units(f.textboxes)), 0,
	}
}

// units returns the stored code units of s: UTF-16 for wide text, raw
// bytes otherwise.
func (f *fixture) units(s string) []uint16 {
	if f.wide {
		return utf16.Encode([]rune(s))
	}
	out := make([]uint16, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = uint16(s[i])
	}
	return out
}

// text is the whole CP space including the guard mark after the stories.
func (f *fixture) text() []uint16 {
	all := f.main + f.footnotes + f.headers + f.annotations + f.endnotes + f.textboxes
	if len(all) > len(f.main) {
		all += "\r"
	}
	return f.units(all)
}

func (f *fixture) width() int {
	if f.wide {
		return 2
	}
	return 1
}

func plcBytes(pos []int, data [][]byte) []byte {
	var b []byte
	for _, p := range pos {
		b = append(b, u32b(uint32(int32(p)))...)
	}
	for _, d := range data {
		b = append(b, d...)
	}
	return b
}

func zeros(n, size int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, size)
	}
	return out
}

// chpxPage lays out a CHPX FKP for the FC runs.
func chpxPage(fcs []int, blobs [][]byte) []byte {
	page := make([]byte, PageSize)
	crun := len(blobs)
	for i, fc := range fcs {
		le32(page, 4*i, uint32(fc))
	}
	off := PageSize - 1
	for i, g := range blobs {
		if len(g) == 0 {
			continue
		}
		off = (off - 1 - len(g)) &^ 1
		page[off] = byte(len(g))
		copy(page[off+1:], g)
		page[4*(crun+1)+i] = byte(off / 2)
	}
	page[PageSize-1] = byte(crun)
	return page
}

// papxPage lays out a PAPX FKP. Blobs are istd + grpprl.
func papxPage(fcs []int, blobs [][]byte, v Version) []byte {
	page := make([]byte, PageSize)
	crun := len(blobs)
	bxSize := 13
	if v == VersionWord6 {
		bxSize = 7
	}
	for i, fc := range fcs {
		le32(page, 4*i, uint32(fc))
	}
	off := PageSize - 1
	for i, blob := range blobs {
		var rec []byte
		switch {
		case v == VersionWord6:
			if len(blob)%2 == 1 {
				blob = append(append([]byte(nil), blob...), 0)
			}
			rec = append([]byte{byte(len(blob) / 2)}, blob...)
		case len(blob)%2 == 1:
			rec = append([]byte{byte((len(blob) + 1) / 2)}, blob...)
		default:
			rec = append([]byte{0, byte(len(blob) / 2)}, blob...)
		}
		off = (off - len(rec)) &^ 1
		copy(page[off:], rec)
		page[4*(crun+1)+i*bxSize] = byte(off / 2)
	}
	page[PageSize-1] = byte(crun)
	return page
}

func (f *fixture) paraRuns(text []uint16) []run {
	if f.papx != nil {
		return f.papx
	}
	var runs []run
	for i, u := range text {
		if u == CharParaEnd || u == CharCellMark {
			runs = append(runs, run{end: i + 1})
		}
	}
	if n := len(text); len(runs) == 0 || runs[len(runs)-1].end < n {
		runs = append(runs, run{end: n})
	}
	return runs
}

func (f *fixture) fontTable() []byte {
	if len(f.fonts) == 0 {
		return nil
	}
	if f.version() == VersionWord6 {
		var body []byte
		for _, ft := range f.fonts {
			ffn := make([]byte, 6)
			ffn[4] = ft.Chs
			ffn = append(append(ffn, ft.Name...), 0)
			ffn[0] = byte(len(ffn) - 1)
			body = append(body, ffn...)
		}
		return append(u16b(uint16(2+len(body))), body...)
	}
	b := append(u16b(uint16(len(f.fonts))), 0, 0)
	for _, ft := range f.fonts {
		ffn := make([]byte, 40)
		ffn[4] = ft.Chs
		for _, u := range utf16.Encode([]rune(ft.Name)) {
			ffn = append(ffn, u16b(u)...)
		}
		ffn = append(ffn, 0, 0)
		ffn[0] = byte(len(ffn) - 1)
		b = append(b, ffn...)
	}
	return b
}

func (f *fixture) stylesheet() []byte {
	if len(f.styles) == 0 {
		return nil
	}
	v := f.version()
	cbBase := 10
	if v == VersionWord6 {
		cbBase = 8
	}
	stshi := make([]byte, 18)
	le16(stshi, 0, uint16(len(f.styles)))
	le16(stshi, 2, uint16(cbBase))

	b := append(u16b(uint16(len(stshi))), stshi...)
	for _, st := range f.styles {
		if st.name == "" && st.kind == 0 {
			b = append(b, 0, 0)
			continue
		}
		std := make([]byte, cbBase)
		cupx := 1
		if st.kind == StyleParagraph {
			cupx = 2
		}
		le16(std, 0, uint16(st.sti))
		le16(std, 2, uint16(st.kind)|uint16(st.base)<<4)
		le16(std, 4, uint16(cupx))
		if v == VersionWord6 {
			std = append(std, byte(len(st.name)))
			std = append(append(std, st.name...), 0)
		} else {
			name := utf16.Encode([]rune(st.name))
			std = append(std, u16b(uint16(len(name)))...)
			for _, u := range name {
				std = append(std, u16b(u)...)
			}
			std = append(std, 0, 0)
		}
		upx := func(g []byte) {
			if len(std)%2 != 0 {
				std = append(std, 0)
			}
			std = append(append(std, u16b(uint16(len(g)))...), g...)
		}
		if st.kind == StyleParagraph {
			upx(append([]byte{0, 0}, st.papx...))
		}
		upx(st.chpx)
		b = append(append(b, u16b(uint16(len(std)))...), std...)
	}
	return b
}

// build lays out WordDocument and the table stream in clear text.
func (f *fixture) build() *RawStreams {
	v := f.version()
	text := f.text()
	w := f.width()
	total := len(text)

	fibSize := fixFIB8
	if v == VersionWord6 {
		fibSize = fixFIB6
	}
	fcText := fibSize

	main := make([]byte, fibSize)
	for _, u := range text {
		if w == 2 {
			main = append(main, u16b(u)...)
		} else {
			main = append(main, byte(u))
		}
	}
	fcMac := len(main)
	pad := func() {
		for len(main)%PageSize != 0 {
			main = append(main, 0)
		}
	}
	fcOf := func(cp int) int { return fcText + cp*w }

	// CHPX FKP
	chpx := f.chpx
	if chpx == nil {
		chpx = []run{{end: total}}
	}
	fcs := []int{fcText}
	var blobs [][]byte
	for _, r := range chpx {
		fcs = append(fcs, fcOf(r.end))
		blobs = append(blobs, r.grpprl)
	}
	pad()
	pnChp := len(main) / PageSize
	main = append(main, chpxPage(fcs, blobs)...)

	// PAPX FKP
	fcs = []int{fcText}
	blobs = nil
	for _, r := range f.paraRuns(text) {
		fcs = append(fcs, fcOf(r.end))
		blobs = append(blobs, append(u16b(r.istd), r.grpprl...))
	}
	pnPap := len(main) / PageSize
	main = append(main, papxPage(fcs, blobs, v)...)

	// SEPX
	sections := f.sections
	if sections == nil {
		sections = []fixSection{{end: len(f.units(f.main))}}
	}
	sedPos := []int{0}
	var seds [][]byte
	for _, s := range sections {
		sed := make([]byte, sedSize)
		le32(sed, 2, 0xFFFFFFFF)
		if s.grpprl != nil {
			if len(main)%2 != 0 {
				main = append(main, 0)
			}
			le32(sed, 2, uint32(len(main)))
			main = append(append(main, u16b(uint16(len(s.grpprl)))...), s.grpprl...)
		}
		sedPos = append(sedPos, s.end)
		seds = append(seds, sed)
	}

	// 테이블 스트림: Word 6은 WordDocument 안에 둠
	var table []byte
	tb := &table
	if v == VersionWord6 {
		tb = &main
	} else {
		table = make([]byte, 0x200)
	}
	put := func(b []byte) FcLcb {
		if len(b) == 0 {
			return FcLcb{}
		}
		fc := len(*tb)
		*tb = append(*tb, b...)
		return FcLcb{Fc: uint32(fc), Lcb: uint32(len(b))}
	}

	bte := func(pn int) []byte {
		if v == VersionWord6 {
			return u16b(uint16(pn))
		}
		return u32b(uint32(pn))
	}
	ccp := f.ccps()
	atrd := atrdSize
	if v == VersionWord6 {
		atrd = atrd6Size
	}

	var fib FIB
	fib.PlcfBteChpx = put(plcBytes([]int{fcText, fcMac}, [][]byte{bte(pnChp)}))
	fib.PlcfBtePapx = put(plcBytes([]int{fcText, fcMac}, [][]byte{bte(pnPap)}))
	fib.PlcfSed = put(plcBytes(sedPos, seds))
	fib.SttbfFfn = put(f.fontTable())
	fib.Stshf = put(f.stylesheet())
	if len(f.fields) > 0 {
		var pos []int
		var data [][]byte
		for _, fc := range f.fields {
			pos = append(pos, fc.cp)
			data = append(data, []byte{fc.ch, fc.flt})
		}
		pos = append(pos, f.fields[len(f.fields)-1].cp+1)
		fib.PlcfFldMom = put(plcBytes(pos, data))
	}
	refs := func(cps []int, size int) []byte {
		if len(cps) == 0 {
			return nil
		}
		return plcBytes(append(append([]int(nil), cps...), ccp[0]), zeros(len(cps), size))
	}
	txt := func(pos []int, size int) []byte {
		if len(pos) == 0 {
			return nil
		}
		return plcBytes(pos, zeros(len(pos)-1, size))
	}
	fib.PlcffndRef = put(refs(f.fndRef, frdSize))
	fib.PlcffndTxt = put(txt(f.fndTxt, 0))
	fib.PlcfendRef = put(refs(f.endRef, frdSize))
	fib.PlcfendTxt = put(txt(f.endTxt, 0))
	fib.PlcfandRef = put(refs(f.andRef, atrd))
	fib.PlcfandTxt = put(txt(f.andTxt, 0))
	fib.PlcfHdd = put(txt(f.hdd, 0))
	fib.PlcftxbxTxt = put(txt(f.txbx, ftxbxSize))

	if v == VersionWord8 {
		fib.Clx = put(f.clx(total, fcText))
	}

	// FIB
	le16(main, 0x00, WordIdent)
	le16(main, 0x06, f.lid)
	le32(main, 0x18, uint32(fcText))
	le32(main, 0x1C, uint32(fcMac))
	if v == VersionWord6 {
		le16(main, 0x02, 104)
		for i, n := range ccp {
			le32(main, 0x34+4*i, uint32(n))
		}
		pairs := map[int]FcLcb{
			0x60: fib.Stshf, 0x68: fib.PlcffndRef, 0x70: fib.PlcffndTxt,
			0x78: fib.PlcfandRef, 0x80: fib.PlcfandTxt, 0x88: fib.PlcfSed,
			0xB0: fib.PlcfHdd, 0xB8: fib.PlcfBteChpx, 0xC0: fib.PlcfBtePapx,
			0xD0: fib.SttbfFfn, 0xD8: fib.PlcfFldMom,
			0x1D2: fib.PlcfendRef, 0x1DA: fib.PlcfendTxt,
		}
		for off, p := range pairs {
			le32(main, off, p.Fc)
			le32(main, off+4, p.Lcb)
		}
		return &RawStreams{WordDocument: main}
	}

	le16(main, 0x02, 0x00C1)
	le16(main, 0x0A, FlagComplex)
	le16(main, 0x20, 14)
	le16(main, 0x3E, 22)
	for i, n := range ccp {
		le32(main, 0x40+12+4*i, uint32(n))
	}
	le16(main, 0x98, 93)
	pairs := map[int]FcLcb{
		idxStshf: fib.Stshf, idxPlcffndRef: fib.PlcffndRef, idxPlcffndTxt: fib.PlcffndTxt,
		idxPlcfandRef: fib.PlcfandRef, idxPlcfandTxt: fib.PlcfandTxt, idxPlcfSed: fib.PlcfSed,
		idxPlcfHdd: fib.PlcfHdd, idxPlcfBteChpx: fib.PlcfBteChpx, idxPlcfBtePapx: fib.PlcfBtePapx,
		idxSttbfFfn: fib.SttbfFfn, idxPlcfFldMom: fib.PlcfFldMom, idxClx: fib.Clx,
		idxPlcfendRef: fib.PlcfendRef, idxPlcfendTxt: fib.PlcfendTxt, idxPlcftxbxTxt: fib.PlcftxbxTxt,
	}
	for i, p := range pairs {
		le32(main, 0x9A+8*i, p.Fc)
		le32(main, 0x9A+8*i+4, p.Lcb)
	}
	return &RawStreams{WordDocument: main, Table0: table}
}

// clx writes the Prc list and the piece table.
func (f *fixture) clx(total, fcText int) []byte {
	pieces := f.pieces
	if pieces == nil {
		pieces = []fixPiece{{end: total}}
	}
	var b []byte
	for _, g := range f.prc {
		b = append(append(append(b, 0x01), u16b(uint16(len(g)))...), g...)
	}
	pos := []int{0}
	var pcds [][]byte
	start := 0
	for _, p := range pieces {
		pcd := make([]byte, pcdSize)
		fc := uint32(fcText + start*f.width())
		if !f.wide {
			fc = fc*2 | fcCompressed
		}
		le32(pcd, 2, fc)
		le16(pcd, 6, p.prm)
		pcds = append(pcds, pcd)
		pos = append(pos, p.end)
		start = p.end
	}
	plc := plcBytes(pos, pcds)
	b = append(append(b, 0x02), u32b(uint32(len(plc)))...)
	return append(b, plc...)
}

const testPassword = "Pa$$w0rd"

// encrypt turns a clear fixture into an encrypted one the way Word writes
// it: the FIB prefix stays readable, everything else is enciphered.
func encrypt(t *testing.T, raw *RawStreams, alg crypt.Algorithm, password string) *RawStreams {
	t.Helper()
	main := append([]byte(nil), raw.WordDocument...)
	base, err := ParseFibBase(main)
	if err != nil {
		t.Fatalf("ParseFibBase failed: %v", err)
	}
	word6 := base.Version() == VersionWord6
	prefix := base.UnencryptedPrefix()
	flags := base.Flags | FlagEncrypted

	var salt, verifier [16]byte
	for i := range salt {
		salt[i] = byte(0x30 + i)
		verifier[i] = byte(0xA0 ^ i)
	}

	var table []byte
	if !word6 {
		table = append([]byte(nil), raw.Table0...)
	}

	switch alg {
	case crypt.AlgorithmXOR:
		if !word6 {
			flags |= FlagObfuscated
		}
		key, hash := crypt.XORVerifier(password)
		le32(main, 0x0E, uint32(key)<<16|uint32(hash))
		le16(main, 0x0A, flags)
		c, err := crypt.DeriveXOR(password, key, hash)
		if err != nil {
			t.Fatalf("DeriveXOR failed: %v", err)
		}
		c.Encrypt(main[prefix:], main[prefix:], int64(prefix))
		if !word6 {
			c.Encrypt(table, table, 0)
		}

	case crypt.AlgorithmRC4, crypt.AlgorithmRC4CryptoAPI:
		var (
			header []byte
			c      *crypt.RC4
		)
		if alg == crypt.AlgorithmRC4 {
			h := crypt.NewStd97Header(password, salt, verifier)
			header = append(u32b(encVersionRC4), h.Bytes()...)
			c, err = crypt.DeriveStd97(password, h)
		} else {
			h := crypt.NewCryptoAPIHeader(password, salt, verifier, 128)
			header = append(u32b(0x00020004), h.Bytes()...)
			c, err = crypt.DeriveCryptoAPI(password, h)
		}
		if err != nil {
			t.Fatalf("cipher setup failed: %v", err)
		}
		le16(main, 0x0A, flags)
		clear := append([]byte(nil), main[:prefix]...)
		c.Encrypt(main, main, 0)
		copy(main, clear)
		c.Encrypt(table, table, 0)
		copy(table, header)

	default:
		t.Fatalf("unsupported algorithm %v", alg)
	}

	out := &RawStreams{WordDocument: main, Summary: raw.Summary}
	if !word6 {
		out.Table0 = table
	}
	return out
}

func decodeFixture(t *testing.T, raw *RawStreams, opts Options) (*Collector, *Result) {
	t.Helper()
	var c Collector
	res, err := DecodeStreams(raw, &c, opts)
	if err != nil {
		t.Fatalf("DecodeStreams failed: %v", err)
	}
	return &c, res
}

// kindsWithout lists item kinds, leaving out the given ones.
func kindsWithout(c *Collector, skip ...ItemKind) []ItemKind {
	var out []ItemKind
next:
	for _, k := range c.Kinds() {
		for _, s := range skip {
			if k == s {
				continue next
			}
		}
		out = append(out, k)
	}
	return out
}

func firstItem(c *Collector, k ItemKind) (Item, bool) {
	for _, it := range c.Items {
		if it.Kind == k {
			return it, true
		}
	}
	return Item{}, false
}

// sprm builders
func sprm8(op uint16, arg ...byte) []byte { return append(u16b(op), arg...) }

var (
	sprmBold     = sprm8(sprmCFBold, 1)
	sprmItalic   = sprm8(sprmCFItalic, 1)
	sprmSpecial  = sprm8(sprmCFSpec, 1)
	sprmInTable  = sprm8(sprmPFInTable, 1)
	sprmTableRow = append(sprm8(sprmPFInTable, 1), sprm8(sprmPFTtp, 1)...)
)
