package msdoc

import (
	"encoding/binary"
	"log/slog"
	"math"
	"strings"
)

// maxRegionDepth bounds recursive sub-document entry.
const maxRegionDepth = 8

// walker is the single active state machine of one decode. Nested
// sub-documents reuse it through snapshot and restore.
type walker struct {
	doc  *document
	sink Sink
	diag *diag
	v    Version

	cur     CursorState
	attrs   AttrStack
	chp     *PropWalker
	pap     *PropWalker
	sep     *PropWalker
	fields  []fieldFrame
	section int

	// 현재 구간의 속성
	para    ParaProps
	papEnd  int
	charp   CharProps
	cpage   Codepage
	special bool

	paraCache map[paraKey]ParaProps
	charCache map[charKey]resolvedChar
	prmSeen   map[int]bool
}

type paraKey struct {
	blob BlobRef
	prm  uint16
}

type charKey struct {
	istd int
	blob BlobRef
	prm  uint16
	wide bool
}

type resolvedChar struct {
	props CharProps
	cp    Codepage
	attrs []Attr
}

func newWalker(doc *document, sink Sink) *walker {
	return &walker{
		doc:       doc,
		sink:      sink,
		diag:      doc.diag,
		v:         doc.fib.Version(),
		chp:       doc.chpx.Walker(),
		pap:       doc.papx.Walker(),
		sep:       doc.sepx.Walker(),
		section:   -1,
		papEnd:    OpenEnd,
		paraCache: make(map[paraKey]ParaProps),
		charCache: make(map[charKey]resolvedChar),
		prmSeen:   make(map[int]bool),
	}
}

// emit stamps the current region on it and hands it to the sink.
func (w *walker) emit(it Item) error {
	it.Region = w.cur.Region
	return w.sink.Emit(it)
}

// run walks the main text and then the stories that are not reached
// through a reference character.
func (w *walker) run() error {
	f := w.doc.fib
	w.cur = CursorState{Region: RegionMain, Story: RegionMain}
	w.chp.Seek(0)
	w.pap.Seek(0)
	w.sep.Seek(0)

	if err := w.walkRange(0, f.CcpText); err != nil {
		return err
	}
	if err := w.closeRegion(f.CcpText); err != nil {
		return err
	}

	if w.doc.opts.Headers && w.v == VersionWord6 {
		if err := w.word6Headers(); err != nil {
			return err
		}
	}
	if w.doc.opts.TextBoxes {
		if err := w.textBoxes(RegionTextBox, w.doc.txbx, "textbox"); err != nil {
			return err
		}
		if err := w.textBoxes(RegionHeaderTextBox, w.doc.hdrTxbx, "header-textbox"); err != nil {
			return err
		}
	}
	return nil
}

// walkRange decodes [start, end) of the current story.
func (w *walker) walkRange(start, end int) error {
	cp := start
	for cp < end {
		w.cur.CP = cp
		if w.cur.Region == RegionMain {
			if err := w.sectionStart(cp); err != nil {
				return err
			}
		}

		loc := w.doc.pieces.Locate(cp)
		if loc.Truncated {
			// 이 스토리의 끝으로 취급
			w.diag.outOfRange("text", cp)
			return nil
		}

		spanEnd := min(end, w.doc.pieces.PieceEnd(cp))
		chpR, chpOK, chpNext := boundary(w.chp, cp)
		papR, papOK, papNext := boundary(w.pap, cp)
		spanEnd = min(spanEnd, chpNext, papNext)
		if w.cur.Region == RegionMain {
			// 구역이 바뀌면 머리글을 먼저 내보내야 함
			_, _, sepNext := boundary(w.sep, cp)
			spanEnd = min(spanEnd, sepNext)
		}

		chpBlob, papBlob := NoBlob, NoBlob
		if chpOK {
			chpBlob = chpR.Blob
		}
		w.papEnd = OpenEnd
		if papOK {
			papBlob = papR.Blob
			w.papEnd = papR.End
		}

		piece := w.doc.pieces.Pieces[loc.Piece]
		w.para = w.resolvePara(papBlob, piece.Prm, loc.Piece, cp)
		if err := w.syncTables(w.para.TableDepth(), cp); err != nil {
			return err
		}
		rc := w.resolveChar(w.para.Istd, chpBlob, piece.Prm, loc.Wide)
		w.charp, w.cpage, w.special = rc.props, rc.cp, rc.props.Special
		w.syncAttrs(cp, rc.attrs)

		n := spanEnd - cp
		want := n * int(piece.Width())
		raw := w.doc.main.Bytes(loc.FC, want)
		if len(raw) < want {
			w.diag.truncated("text", slog.Int("cp", cp), slog.Int64("fc", loc.FC),
				slog.Int("declared", want), slog.Int("available", len(raw)))
		}
		if len(raw) == 0 {
			w.diag.outOfRange("text", cp)
			return nil
		}

		units := w.doc.dec.DecodeRun(raw, loc.Wide, w.cpage)
		next, err := w.emitUnits(cp, end, units, loc.FC, piece.Width())
		if err != nil {
			return err
		}
		if next <= cp {
			next = cp + 1
		}
		cp = next
	}
	w.cur.CP = end
	return nil
}

// boundary returns the range of pw containing cp and the CP at which the
// properties change next.
func boundary(pw *PropWalker, cp int) (PropertyRange, bool, int) {
	if r, ok := pw.At(cp); ok {
		if r.End == OpenEnd {
			return r, true, math.MaxInt
		}
		return r, true, r.End
	}
	// 빈 구간: 다음 범위 시작까지
	if r, ok := pw.Current(); ok && r.Start > cp {
		return PropertyRange{}, false, r.Start
	}
	return PropertyRange{}, false, math.MaxInt
}

// emitUnits emits the decoded text of one span and dispatches its control
// codes. It returns the CP at which the walk continues.
func (w *walker) emitUnits(cp, end int, units []Unit, fc, width int64) (int, error) {
	var (
		sb      strings.Builder
		textCP  = cp
		textFC  = fc
		pending bool
	)
	flush := func(atFC int64) error {
		if !pending {
			return nil
		}
		pending = false
		it := Item{Kind: ItemText, CP: textCP, Text: sb.String(), Codepage: w.cpage, FC: textFC, FCEnd: atFC}
		sb.Reset()
		return w.emit(it)
	}

	for _, u := range units {
		if cp >= end {
			break
		}
		next := cp + u.Width
		nextFC := fc + int64(u.Width)*width

		if s, ok := substitute(u.R); ok {
			if !pending {
				textCP, textFC, pending = cp, fc, true
			}
			sb.WriteString(s)
			cp, fc = next, nextFC
			continue
		}
		if !isControl(u.R) {
			if !pending {
				textCP, textFC, pending = cp, fc, true
			}
			sb.WriteRune(u.R)
			cp, fc = next, nextFC
			continue
		}

		if err := flush(fc); err != nil {
			return 0, err
		}
		resume, restart, err := w.dispatch(cp, end, u.R)
		if err != nil {
			return 0, err
		}
		if restart || resume != next {
			return resume, nil
		}
		cp, fc = next, nextFC
	}
	if err := flush(fc); err != nil {
		return 0, err
	}
	return cp, nil
}

// resolvePara computes the paragraph properties of a PAPX blob.
func (w *walker) resolvePara(ref BlobRef, prm uint16, piece, cp int) ParaProps {
	key := paraKey{blob: ref, prm: prm}
	if p, ok := w.paraCache[key]; ok {
		return p
	}

	p := defaultParaProps()
	blob := w.doc.papx.Blob(ref)
	istd, grpprl := 0, []byte(nil)
	if len(blob) >= 2 {
		istd = int(binary.LittleEndian.Uint16(blob))
		grpprl = blob[2:]
	}
	w.doc.styles.ApplyPara(istd, &p, w.v)
	p.Istd = istd
	if p.ApplyGrpprl(grpprl, w.v) {
		w.diag.truncated("papx grpprl", slog.Int("cp", cp))
	}
	if g := w.prmGrpprl(prm, piece, cp); g != nil {
		p.ApplyGrpprl(g, w.v)
	}
	w.paraCache[key] = p
	return p
}

// prmGrpprl returns the grpprl a piece Prm refers to. Single-sprm Prms are
// counted and skipped.
func (w *walker) prmGrpprl(prm uint16, piece, cp int) []byte {
	if prm == 0 {
		return nil
	}
	if prm&1 == 0 {
		if !w.prmSeen[piece] {
			w.prmSeen[piece] = true
			w.diag.ignoredPrm(cp, prm)
		}
		return nil
	}
	g, ok := w.doc.pieces.Grpprl(int(prm >> 1))
	if !ok {
		if !w.prmSeen[piece] {
			w.prmSeen[piece] = true
			w.diag.outOfRange("prm grpprl", cp)
		}
		return nil
	}
	return g
}

// resolveChar layers the character properties of a run: paragraph style,
// character style, direct formatting, then the piece Prm.
func (w *walker) resolveChar(paraIstd int, ref BlobRef, prm uint16, wide bool) resolvedChar {
	key := charKey{istd: paraIstd, blob: ref, prm: prm, wide: wide}
	if rc, ok := w.charCache[key]; ok {
		return rc
	}

	c := defaultCharProps()
	w.doc.styles.ApplyChar(paraIstd, &c, w.v)
	grpprl := w.doc.chpx.Blob(ref)
	if istd, ok := charStyleIn(grpprl, w.v); ok {
		w.doc.styles.ApplyChar(istd, &c, w.v)
	}
	if c.ApplyGrpprl(grpprl, w.v) {
		w.diag.truncated("chpx grpprl", slog.Int("cp", w.cur.CP))
	}
	if prm&1 == 1 {
		if g, ok := w.doc.pieces.Grpprl(int(prm >> 1)); ok {
			c.ApplyGrpprl(g, w.v)
		}
	}

	rc := resolvedChar{props: c, cp: w.codepage(c, paraIstd, wide)}
	rc.attrs = w.charAttrs(c)
	w.charCache[key] = rc
	return rc
}

// charStyleIn finds the character style sprm of a grpprl.
func charStyleIn(grpprl []byte, v Version) (int, bool) {
	op := sprmCIstd
	if v == VersionWord6 {
		op = sprm6CIstd
	}
	istd, found := 0, false
	walkSprms(grpprl, v, func(s Sprm) bool {
		if s.Op == op {
			istd, found = int(s.Uint16()), true
			return false
		}
		return true
	})
	return istd, found
}

// codepage resolves the code page of a run.
func (w *walker) codepage(c CharProps, paraIstd int, wide bool) Codepage {
	override := w.doc.opts.Charset
	if override == CodepageUnknown && w.v == VersionWord8 && !wide {
		// Word 97 압축 텍스트는 항상 cp1252
		override = CP1252
	}
	lid := c.Lid
	if CodepageForLID(lid) == CodepageUnknown {
		lid = c.LidFE
	}
	cp, src := ResolveCharset(CharsetInputs{
		Override: override,
		Lid:      lid,
		Font:     w.doc.fonts.Codepage(c.Ftc),
		Style:    w.doc.styles.Codepage(paraIstd, w.doc.fonts),
		Default:  w.doc.defCP,
	})
	w.diag.log.Debug("charset resolved", "codepage", int(cp), "source", src.String())
	return cp
}

// charAttrs lists the attributes a run carries.
func (w *walker) charAttrs(c CharProps) []Attr {
	var out []Attr
	flag := func(on bool, k AttrKind) {
		if on {
			out = append(out, Attr{Kind: k, Int: 1})
		}
	}
	flag(c.Bold, AttrBold)
	flag(c.Italic, AttrItalic)
	flag(c.Underline, AttrUnderline)
	flag(c.Strike, AttrStrike)
	flag(c.Iss == 1, AttrSuperscript)
	flag(c.Iss == 2, AttrSubscript)
	flag(c.Hidden, AttrHidden)
	flag(c.Deleted, AttrDeleted)
	if name := w.doc.fonts.Name(c.Ftc); name != "" {
		out = append(out, Attr{Kind: AttrFont, Int: c.Ftc, Str: name})
	}
	if c.Lid != 0 {
		out = append(out, Attr{Kind: AttrLanguage, Int: int(c.Lid)})
	}
	if c.Istd != 10 {
		out = append(out, Attr{Kind: AttrCharStyle, Int: c.Istd, Str: w.doc.styles.Name(c.Istd)})
	}
	return out
}

// syncAttrs closes the attributes that changed at cp and opens the new
// ones. Links are owned by fields and left alone.
func (w *walker) syncAttrs(cp int, want []Attr) {
	for k := AttrBold; k < AttrLink; k++ {
		var desired *Attr
		for i := range want {
			if want[i].Kind == k {
				desired = &want[i]
				break
			}
		}
		open, isOpen := w.attrs.Lookup(k)
		switch {
		case isOpen && desired != nil && open == *desired:
		case isOpen:
			w.attrs.Close(k, cp)
			if desired != nil {
				w.attrs.Open(cp, *desired)
			}
		case desired != nil:
			w.attrs.Open(cp, *desired)
		}
	}
}

// syncTables emits table starts and ends until the depth matches.
func (w *walker) syncTables(depth, cp int) error {
	for w.cur.TableDepth < depth {
		w.cur.TableDepth++
		if err := w.emit(Item{Kind: ItemTableStart, CP: cp, Depth: w.cur.TableDepth}); err != nil {
			return err
		}
	}
	for w.cur.TableDepth > depth {
		if err := w.emit(Item{Kind: ItemTableEnd, CP: cp, Depth: w.cur.TableDepth}); err != nil {
			return err
		}
		w.cur.TableDepth--
	}
	return nil
}

// flushAttrs emits the attribute entries that start before cp.
func (w *walker) flushAttrs(cp int) error {
	entries := w.attrs.Flush(cp)
	if len(entries) == 0 {
		return nil
	}
	return w.emit(Item{Kind: ItemAttributes, CP: cp, Attrs: entries})
}

// closeRegion ends every open field, attribute and table at cp.
func (w *walker) closeRegion(cp int) error {
	for len(w.fields) > 0 {
		if err := w.endField(cp); err != nil {
			return err
		}
	}
	w.attrs.CloseAll(cp)
	if err := w.flushAttrs(cp); err != nil {
		return err
	}
	w.attrs.Reset()
	return w.syncTables(0, cp)
}

// enter walks [start, end) as a nested story and restores the enclosing
// state afterwards.
func (w *walker) enter(r Region, start, end, index int, story string) error {
	if w.cur.NoteDepth >= maxRegionDepth {
		w.diag.log.Warn("sub-document nesting too deep", "region", r.String(), "cp", start)
		return nil
	}
	if lo, hi := w.doc.fib.SubdocRange(r); start < lo || end > hi {
		w.diag.outOfRange(r.String(), start)
		start, end = max(start, lo), min(end, hi)
	}

	saved := w.snapshot()
	w.cur = CursorState{CP: start, Region: r, Story: r, NoteDepth: saved.Cursor.NoteDepth + 1}
	w.attrs.Reset()
	w.fields = nil
	w.chp.Seek(start)
	w.pap.Seek(start)
	w.sep.Seek(start)

	err := w.emit(Item{Kind: ItemRegionStart, CP: start, Target: r, Index: index, Story: story})
	if err == nil {
		err = w.walkRange(start, end)
	}
	if err == nil {
		err = w.closeRegion(end)
	}
	if err == nil {
		err = w.emit(Item{Kind: ItemRegionEnd, CP: end, Target: r, Index: index, Story: story})
	}
	w.restore(saved)
	return err
}
