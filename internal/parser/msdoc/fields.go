package msdoc

import (
	"strings"
)

// fld.ch 값 (하위 5비트)
const (
	fldBegin = 0x13
	fldSep   = 0x14
	fldEnd   = 0x15
)

// fieldChar returns the kind and field type of PlcFld entry i.
func fieldChar(plc *PLC, i int) (ch, flt int) {
	d := plc.Data(i)
	if len(d) < fldSize {
		return 0, 0
	}
	return int(d[0] & 0x1F), int(d[1])
}

// matchField finds the separator and end entries that belong to the field
// beginning at entry i. Missing entries are -1.
func matchField(plc *PLC, i int) (sep, end int) {
	sep, end = -1, -1
	depth := 0
	for j := i + 1; j < plc.Len(); j++ {
		ch, _ := fieldChar(plc, j)
		switch ch {
		case fldBegin:
			depth++
		case fldSep:
			if depth == 0 && sep < 0 {
				sep = j
			}
		case fldEnd:
			if depth == 0 {
				return sep, j
			}
			depth--
		}
	}
	return sep, end
}

// fieldBegin handles 0x13. The instruction up to the separator (or the end
// when there is no result) is decoded on its own and reported with the
// field start; the walk resumes at the separator.
func (w *walker) fieldBegin(cp, end int) (int, bool, error) {
	plc := w.doc.fieldPLC(w.cur.Story)
	base := w.doc.storyStart(w.cur.Story)

	i := plc.IndexOf(cp - base)
	if i < 0 {
		// 필드 테이블에 없으면 본문처럼 이어서 읽음
		w.diag.outOfRange("field begin", cp)
		return w.openField(cp, fieldFrame{}, "")
	}
	if ch, _ := fieldChar(plc, i); ch != fldBegin {
		w.diag.outOfRange("field begin", cp)
		return w.openField(cp, fieldFrame{}, "")
	}
	_, flt := fieldChar(plc, i)

	sep, fin := matchField(plc, i)
	stop := -1
	switch {
	case sep >= 0:
		stop = base + plc.Pos[sep]
	case fin >= 0:
		stop = base + plc.Pos[fin]
	}
	if stop <= cp || stop > end {
		w.diag.outOfRange("field instruction", cp)
		return w.openField(cp, fieldFrame{Field: flt}, "")
	}

	instr, err := w.captureInstruction(cp+1, stop)
	if err != nil {
		return 0, false, err
	}
	frame := fieldFrame{Field: flt}
	if flt == FieldHyperlink {
		frame.Link = hyperlinkTarget(instr)
	}
	if _, _, err := w.openField(cp, frame, instr); err != nil {
		return 0, false, err
	}
	return stop, true, nil
}

// openField pushes frame and emits the field start.
func (w *walker) openField(cp int, frame fieldFrame, instr string) (int, bool, error) {
	w.fields = append(w.fields, frame)
	w.cur.FieldDepth++
	return cp + 1, false, w.emit(Item{Kind: ItemFieldStart, CP: cp, Field: frame.Field, Instruction: instr})
}

// captureInstruction decodes [start, stop) into plain text without
// emitting anything.
func (w *walker) captureInstruction(start, stop int) (string, error) {
	saved := w.snapshot()
	sink := w.sink
	var c Collector
	w.sink = &c
	w.cur.Region = RegionField
	w.cur.FieldDepth++
	w.fields = nil

	err := w.walkRange(start, stop)

	w.sink = sink
	w.restore(saved)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(c.Text()), nil
}

// fieldSeparator handles 0x14. A hyperlink result carries a link
// attribute.
func (w *walker) fieldSeparator(cp, _ int) (int, bool, error) {
	if len(w.fields) == 0 {
		w.diag.unknownControl(cp, CharFieldSep)
		return cp + 1, false, nil
	}
	top := &w.fields[len(w.fields)-1]
	if top.Sep {
		return cp + 1, false, nil
	}
	top.Sep = true
	if err := w.emit(Item{Kind: ItemFieldSeparator, CP: cp, Field: top.Field}); err != nil {
		return 0, false, err
	}
	if top.Link != "" {
		w.attrs.Open(cp+1, Attr{Kind: AttrLink, Str: top.Link})
	}
	return cp + 1, false, nil
}

// fieldEnd handles 0x15.
func (w *walker) fieldEnd(cp, _ int) (int, bool, error) {
	if len(w.fields) == 0 {
		w.diag.unknownControl(cp, CharFieldEnd)
		return cp + 1, false, nil
	}
	return cp + 1, false, w.endField(cp)
}

// endField pops the innermost field at cp.
func (w *walker) endField(cp int) error {
	top := w.fields[len(w.fields)-1]
	w.fields = w.fields[:len(w.fields)-1]
	if w.cur.FieldDepth > 0 {
		w.cur.FieldDepth--
	}
	if top.Link != "" && top.Sep {
		w.attrs.Close(AttrLink, cp)
	}
	return w.emit(Item{Kind: ItemFieldEnd, CP: cp, Field: top.Field})
}

// hyperlinkTarget extracts the target of a HYPERLINK instruction. A \l
// switch names a bookmark, which becomes a fragment.
func hyperlinkTarget(instr string) string {
	tokens := splitInstruction(instr)
	if len(tokens) == 0 || !strings.EqualFold(tokens[0], "HYPERLINK") {
		return ""
	}
	var url, anchor string
	for i := 1; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case strings.EqualFold(t, `\l`):
			if i+1 < len(tokens) {
				anchor = tokens[i+1]
				i++
			}
		case strings.EqualFold(t, `\o`), strings.EqualFold(t, `\t`):
			// 인수를 가지는 스위치
			i++
		case strings.HasPrefix(t, `\`):
		case url == "":
			url = t
		}
	}
	if anchor != "" {
		return url + "#" + anchor
	}
	return url
}

// splitInstruction splits a field instruction into words; double quotes
// group words and are removed.
func splitInstruction(s string) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
		inWord bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case !quoted && (r == ' ' || r == '\t' || r == '\r' || r == '\n'):
			if inWord {
				out = append(out, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, cur.String())
	}
	return out
}
