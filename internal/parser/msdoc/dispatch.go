package msdoc

import "log/slog"

// substitute maps the control codes that stand for printable characters.
func substitute(r rune) (string, bool) {
	switch r {
	case CharTab:
		return "\t", true
	case CharNonBreakHyph:
		return "\u2011", true
	case CharSoftHyphen:
		return "\u00AD", true
	case CharNonBreakSpace:
		return "\u00A0", true
	}
	return "", false
}

// isControl reports whether r is handled by the dispatcher instead of
// being emitted as text.
func isControl(r rune) bool {
	return r >= 0 && r < 0x20
}

// controlFunc handles one control code at cp. It returns the CP at which
// the walk resumes; restart forces the walker to remap that position.
type controlFunc func(w *walker, cp, end int) (next int, restart bool, err error)

// controls is the dispatch table. Codes without an entry are logged and
// ignored.
var controls map[rune]controlFunc

func init() {
	controls = map[rune]controlFunc{
		CharParaEnd:       (*walker).paraMark,
		CharCellMark:      (*walker).cellMark,
		CharPageBreak:     (*walker).pageBreak,
		CharLineBreak:     simple(ItemLineBreak),
		CharColumnBreak:   simple(ItemColumnBreak),
		CharPicture:       special((*walker).picture),
		CharDrawObject:    special((*walker).drawObject),
		CharNoteSeparator: special(nop),
		CharNoteContSep:   special(nop),
		CharAutoNumber:    special((*walker).noteRef),
		CharAnnotation:    special((*walker).annotationRef),
		CharFieldBegin:    (*walker).fieldBegin,
		CharFieldSep:      (*walker).fieldSeparator,
		CharFieldEnd:      (*walker).fieldEnd,
	}
}

// dispatch runs the handler of code r.
func (w *walker) dispatch(cp, end int, r rune) (int, bool, error) {
	fn, ok := controls[r]
	if !ok {
		w.diag.unknownControl(cp, r)
		return cp + 1, false, nil
	}
	return fn(w, cp, end)
}

// simple emits a single item of kind k.
func simple(k ItemKind) controlFunc {
	return func(w *walker, cp, _ int) (int, bool, error) {
		return cp + 1, false, w.emit(Item{Kind: k, CP: cp})
	}
}

// special guards a handler that applies only to fSpec characters.
func special(fn controlFunc) controlFunc {
	return func(w *walker, cp, end int) (int, bool, error) {
		if !w.special {
			w.diag.unknownControl(cp, rune(w.charAt(cp)))
			return cp + 1, false, nil
		}
		return fn(w, cp, end)
	}
}

func nop(_ *walker, cp, _ int) (int, bool, error) { return cp + 1, false, nil }

// charAt returns the stored code unit at cp for logging.
func (w *walker) charAt(cp int) uint16 {
	loc := w.doc.pieces.Locate(cp)
	if loc.Wide {
		b := w.doc.main.Bytes(loc.FC, 2)
		if len(b) == 2 {
			return uint16(b[0]) | uint16(b[1])<<8
		}
		return 0
	}
	b := w.doc.main.Bytes(loc.FC, 1)
	if len(b) == 1 {
		return uint16(b[0])
	}
	return 0
}

// atParaEnd reports whether cp is the last character of the current
// paragraph property range.
func (w *walker) atParaEnd(cp int) bool {
	return w.papEnd != OpenEnd && w.papEnd == cp+1
}

// paraInfo describes the current paragraph.
func (w *walker) paraInfo() *ParaInfo {
	p := w.para
	info := &ParaInfo{
		Istd:       p.Istd,
		StyleName:  w.doc.styles.Name(p.Istd),
		Heading:    w.doc.styles.HeadingLevel(p.Istd),
		Jc:         p.Jc,
		OutLvl:     p.OutLvl,
		TableDepth: p.TableDepth(),
		List:       p.IsList(),
		ListLevel:  p.Ilvl,
	}
	if info.Heading == 0 && p.OutLvl < 9 {
		info.Heading = p.OutLvl + 1
	}
	return info
}

// endParagraph flushes the attributes of the paragraph and emits its mark.
func (w *walker) endParagraph(cp int, k ItemKind) (int, bool, error) {
	if err := w.flushAttrs(cp); err != nil {
		return 0, false, err
	}
	return cp + 1, false, w.emit(Item{Kind: k, CP: cp, Para: w.paraInfo()})
}

// paraMark handles 0x0D. Inside a nested table the mark can end a cell or
// a row.
func (w *walker) paraMark(cp, _ int) (int, bool, error) {
	p := w.para
	if p.TableDepth() > 1 && w.atParaEnd(cp) {
		switch {
		case p.InnerTTP:
			return w.endParagraph(cp, ItemRowEnd)
		case p.InnerCell:
			return w.endParagraph(cp, ItemCellEnd)
		}
	}
	return w.endParagraph(cp, ItemParagraphEnd)
}

// cellMark handles 0x07. It ends a cell or row only when the table
// paragraph's property range ends on it; otherwise it is a paragraph mark.
func (w *walker) cellMark(cp, _ int) (int, bool, error) {
	if w.para.TableDepth() > 0 && w.atParaEnd(cp) {
		if w.para.RowEnd() {
			return w.endParagraph(cp, ItemRowEnd)
		}
		return w.endParagraph(cp, ItemCellEnd)
	}
	return w.endParagraph(cp, ItemParagraphEnd)
}

// pageBreak handles 0x0C: a section break at the end of a section, a page
// break elsewhere outside tables.
func (w *walker) pageBreak(cp, _ int) (int, bool, error) {
	if w.cur.Region == RegionMain {
		if bkc, ok := w.sectionBreakAt(cp); ok {
			if err := w.flushAttrs(cp); err != nil {
				return 0, false, err
			}
			return cp + 1, false, w.emit(Item{Kind: ItemSectionBreak, CP: cp, Bkc: bkc, Para: w.paraInfo()})
		}
	}
	if w.cur.TableDepth > 0 {
		w.diag.log.Debug("page break inside table ignored", "cp", cp)
		return cp + 1, false, nil
	}
	return cp + 1, false, w.emit(Item{Kind: ItemPageBreak, CP: cp})
}

// sectionBreakAt reports whether the section containing cp ends after it
// and returns the break kind of the section that follows.
func (w *walker) sectionBreakAt(cp int) (int, bool) {
	t := w.doc.sepx
	i := t.Find(cp)
	if i < 0 || i+1 >= t.Len() {
		return 0, false
	}
	if r := t.At(i); r.End != cp+1 {
		return 0, false
	}
	sp := defaultSectProps()
	if sp.ApplyGrpprl(t.Blob(t.At(i+1).Blob), w.v) {
		w.diag.truncated("sepx grpprl", slog.Int("cp", cp))
	}
	return sp.Bkc, true
}

func (w *walker) picture(cp, _ int) (int, bool, error) {
	c := w.charp
	return cp + 1, false, w.emit(Item{Kind: ItemPicture, CP: cp, PicLoc: c.PicLoc, Object: c.Ole2 || c.Obj})
}

func (w *walker) drawObject(cp, _ int) (int, bool, error) {
	return cp + 1, false, w.emit(Item{Kind: ItemDrawObject, CP: cp})
}
