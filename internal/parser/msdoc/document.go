package msdoc

import (
	"log/slog"
)

// document is the read-only parse state shared by every walker of one
// import.
type document struct {
	fib     *FIB
	main    *DecryptedStream
	table   *DecryptedStream
	pieces  *PieceTable
	chpx    *PropTable
	papx    *PropTable
	sepx    *PropTable
	fonts   FontTable
	styles  *Stylesheet
	dec     *TextDecoder
	opts    Options
	diag    *diag
	defCP   Codepage
	fields  map[Region]*PLC
	fndRef  *PLC
	fndTxt  *PLC
	endRef  *PLC
	endTxt  *PLC
	andRef  *PLC
	andTxt  *PLC
	hdd     *PLC
	txbx    *PLC
	hdrTxbx *PLC
}

// maxFIBSize bounds how much of WordDocument is handed to ParseFIB.
const maxFIBSize = 4096

// fld와 atrd 레코드 크기
const (
	fldSize   = 2
	frdSize   = 2
	atrdSize  = 30
	atrd6Size = 28 // Word 6 ATRD
	ftxbxSize = 22
)

// loadDocument parses every table the walk needs.
func loadDocument(st *Streams, opts Options, d *diag) (*document, error) {
	fib, err := ParseFIB(st.Main.Bytes(0, maxFIBSize))
	if err != nil {
		return nil, err
	}
	v := fib.Version()

	doc := &document{
		fib:   fib,
		main:  st.Main,
		table: st.Table,
		dec:   NewTextDecoder(),
		opts:  opts,
		diag:  d,
	}
	src := &tableSource{fib: fib, main: st.Main, table: st.Table, diag: d}

	// 조각 테이블
	if !fib.Clx.Empty() {
		doc.pieces, err = ParseClx(src.tableBytes(fib.Clx, "Clx"), v, st.Main.Len())
		if err != nil {
			return nil, err
		}
	} else {
		if v == VersionWord8 {
			d.log.Warn("Word 97 document without piece table, assuming 8-bit text at fcMin")
		}
		doc.pieces = NewSimplePieceTable(int64(fib.FcMin), fib.TotalCP(), false, st.Main.Len())
	}
	src.pieces = doc.pieces

	doc.chpx = src.BuildCharTable()
	doc.papx = src.BuildParaTable()
	doc.sepx = src.BuildSectTable()

	var truncated bool
	doc.fonts, truncated = ParseFontTable(src.tableBytes(fib.SttbfFfn, "SttbfFfn"), v, doc.dec)
	if truncated {
		d.truncated("SttbfFfn")
	}
	doc.styles, truncated = ParseStylesheet(src.tableBytes(fib.Stshf, "Stshf"), v, doc.dec)
	if truncated {
		d.truncated("STSH")
	}

	doc.fields = map[Region]*PLC{
		RegionMain:          ParsePLC(src.tableBytes(fib.PlcfFldMom, "PlcfFldMom"), fldSize),
		RegionFootnote:      ParsePLC(src.tableBytes(fib.PlcfFldFtn, "PlcfFldFtn"), fldSize),
		RegionHeader:        ParsePLC(src.tableBytes(fib.PlcfFldHdr, "PlcfFldHdr"), fldSize),
		RegionAnnotation:    ParsePLC(src.tableBytes(fib.PlcfFldAtn, "PlcfFldAtn"), fldSize),
		RegionEndnote:       ParsePLC(src.tableBytes(fib.PlcfFldEdn, "PlcfFldEdn"), fldSize),
		RegionTextBox:       ParsePLC(src.tableBytes(fib.PlcfFldTxbx, "PlcfFldTxbx"), fldSize),
		RegionHeaderTextBox: ParsePLC(src.tableBytes(fib.PlcfFldHdrTxbx, "PlcffldHdrTxbx"), fldSize),
	}

	atrd := atrdSize
	if v == VersionWord6 {
		atrd = atrd6Size
	}
	doc.fndRef = ParsePLC(src.tableBytes(fib.PlcffndRef, "PlcffndRef"), frdSize)
	doc.fndTxt = ParsePLC(src.tableBytes(fib.PlcffndTxt, "PlcffndTxt"), 0)
	doc.endRef = ParsePLC(src.tableBytes(fib.PlcfendRef, "PlcfendRef"), frdSize)
	doc.endTxt = ParsePLC(src.tableBytes(fib.PlcfendTxt, "PlcfendTxt"), 0)
	doc.andRef = ParsePLC(src.tableBytes(fib.PlcfandRef, "PlcfandRef"), atrd)
	doc.andTxt = ParsePLC(src.tableBytes(fib.PlcfandTxt, "PlcfandTxt"), 0)
	doc.hdd = ParsePLC(src.tableBytes(fib.PlcfHdd, "PlcfHdd"), 0)
	doc.txbx = ParsePLC(src.tableBytes(fib.PlcftxbxTxt, "PlcftxbxTxt"), ftxbxSize)
	doc.hdrTxbx = ParsePLC(src.tableBytes(fib.PlcfHdrtxbxTxt, "PlcfHdrtxbxTxt"), ftxbxSize)

	doc.defCP = CodepageForLID(fib.Lid)
	if doc.defCP == CodepageUnknown {
		doc.defCP = opts.DefaultCodepage
	}
	if !doc.defCP.Supported() {
		doc.defCP = FallbackCodepage
	}

	d.log.Debug("document tables loaded",
		slog.String("version", v.String()),
		slog.Int("pieces", len(doc.pieces.Pieces)),
		slog.Int("chpx", doc.chpx.Len()),
		slog.Int("papx", doc.papx.Len()),
		slog.Int("sections", doc.sepx.Len()),
		slog.Int("fonts", len(doc.fonts)),
		slog.Int("styles", len(doc.styles.Styles)))
	return doc, nil
}

// storyStart returns the absolute CP at which story r begins.
func (d *document) storyStart(r Region) int {
	return d.fib.SubdocStart(r)
}

// fieldPLC returns the field plex of story r.
func (d *document) fieldPLC(r Region) *PLC {
	if p, ok := d.fields[r]; ok {
		return p
	}
	return &PLC{}
}
