package msdoc

// Word 97 머리글/바닥글 스토리 이름 (구역당 6개)
var headerStories = [...]string{
	"even-header", "odd-header", "even-footer", "odd-footer", "first-header", "first-footer",
}

// hddSeparators is the number of note separator stories that precede the
// per-section stories in PlcfHdd.
const hddSeparators = 6

// noteRef handles an fSpec 0x02: a footnote or endnote reference in the
// main text, or the note's own number inside the note.
func (w *walker) noteRef(cp, _ int) (int, bool, error) {
	switch w.cur.Region {
	case RegionFootnote, RegionEndnote:
		return cp + 1, false, nil
	}
	if w.cur.Story != RegionMain {
		w.diag.log.Debug("auto number outside main text", "cp", cp, "region", w.cur.Region.String())
		return cp + 1, false, nil
	}

	if i := w.doc.fndRef.IndexOf(cp); i >= 0 {
		return cp + 1, false, w.note(RegionFootnote, w.doc.fndTxt, i, cp)
	}
	if i := w.doc.endRef.IndexOf(cp); i >= 0 {
		return cp + 1, false, w.note(RegionEndnote, w.doc.endTxt, i, cp)
	}
	w.diag.outOfRange("note reference", cp)
	return cp + 1, false, nil
}

// annotationRef handles an fSpec 0x05.
func (w *walker) annotationRef(cp, _ int) (int, bool, error) {
	if w.cur.Region == RegionAnnotation {
		return cp + 1, false, nil
	}
	if w.cur.Story != RegionMain {
		return cp + 1, false, nil
	}
	if i := w.doc.andRef.IndexOf(cp); i >= 0 {
		return cp + 1, false, w.note(RegionAnnotation, w.doc.andTxt, i, cp)
	}
	w.diag.outOfRange("annotation reference", cp)
	return cp + 1, false, nil
}

// note emits the reference and walks note i of txt.
func (w *walker) note(r Region, txt *PLC, i, cp int) error {
	if i >= txt.Len() {
		w.diag.outOfRange(r.String()+" text", cp)
		return nil
	}
	if err := w.emit(Item{Kind: ItemNoteRef, CP: cp, Target: r, Index: i}); err != nil {
		return err
	}
	start, end := txt.Range(i)
	base := w.doc.storyStart(r)
	return w.enter(r, base+start, base+end, i, "")
}

// sectionStart emits the header and footer stories of a section when the
// walk enters it.
func (w *walker) sectionStart(cp int) error {
	if _, ok := w.sep.At(cp); !ok {
		return nil
	}
	s := w.sep.Pos()
	if s == w.section {
		return nil
	}
	w.section = s
	if !w.doc.opts.Headers || w.v != VersionWord8 {
		return nil
	}
	for k, name := range headerStories {
		if err := w.headerStory(hddSeparators+len(headerStories)*s+k, name); err != nil {
			return err
		}
	}
	return nil
}

// headerStory walks PlcfHdd story i. Empty stories inherit from the
// previous section and are skipped.
func (w *walker) headerStory(i int, name string) error {
	if i >= w.doc.hdd.Len() {
		return nil
	}
	start, end := w.doc.hdd.Range(i)
	if end <= start {
		return nil
	}
	base := w.doc.storyStart(RegionHeader)
	return w.enter(RegionHeader, base+start, base+end, i, name)
}

// word6Headers walks every Word 6 header story in stored order.
func (w *walker) word6Headers() error {
	for i := 0; i < w.doc.hdd.Len(); i++ {
		if err := w.headerStory(i, ""); err != nil {
			return err
		}
	}
	return nil
}

// textBoxes walks the text box stories of plc. The last FTXBXS is a
// placeholder without a story.
func (w *walker) textBoxes(r Region, plc *PLC, name string) error {
	base := w.doc.storyStart(r)
	for i := 0; i < plc.Len()-1; i++ {
		start, end := plc.Range(i)
		if end <= start {
			continue
		}
		if err := w.enter(r, base+start, base+end, i, name); err != nil {
			return err
		}
	}
	return nil
}
