package msdoc

// Region is the kind of story the walker is in.
type Region int

const (
	RegionMain Region = iota
	RegionFootnote
	RegionHeader
	RegionMacro
	RegionAnnotation
	RegionEndnote
	RegionTextBox
	RegionHeaderTextBox
	RegionField // 필드 명령문
)

var regionNames = [...]string{
	RegionMain:          "main",
	RegionFootnote:      "footnote",
	RegionHeader:        "header",
	RegionMacro:         "macro",
	RegionAnnotation:    "annotation",
	RegionEndnote:       "endnote",
	RegionTextBox:       "textbox",
	RegionHeaderTextBox: "header-textbox",
	RegionField:         "field",
}

// String returns the region name.
func (r Region) String() string {
	if r >= 0 && int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

// CursorState is the mutable position of a walk.
type CursorState struct {
	CP         int
	Region     Region
	Story      Region // 필드 위치 계산에 쓰는 상위 스토리
	TableDepth int
	FieldDepth int
	NoteDepth  int
}

// fieldFrame tracks an open field.
type fieldFrame struct {
	Field int
	Link  string
	Sep   bool
}

// Snapshot is the complete walker state captured before entering a
// sub-document. It is a value; restoring it never aliases live state.
type Snapshot struct {
	Cursor  CursorState
	Attrs   []AttributeEntry
	CHP     int
	PAP     int
	SEP     int
	Fields  []fieldFrame
	Section int

	// 현재 구간의 해석된 속성
	Para     ParaProps
	PapEnd   int
	Char     CharProps
	Codepage Codepage
	Special  bool
}

// snapshot captures the walker state.
func (w *walker) snapshot() Snapshot {
	s := Snapshot{
		Cursor:   w.cur,
		Attrs:    w.attrs.Entries(),
		CHP:      w.chp.Pos(),
		PAP:      w.pap.Pos(),
		SEP:      w.sep.Pos(),
		Section:  w.section,
		Para:     w.para,
		PapEnd:   w.papEnd,
		Char:     w.charp,
		Codepage: w.cpage,
		Special:  w.special,
	}
	if len(w.fields) > 0 {
		s.Fields = append([]fieldFrame(nil), w.fields...)
	}
	return s
}

// restore puts back a snapshot taken with snapshot.
func (w *walker) restore(s Snapshot) {
	w.cur = s.Cursor
	w.attrs.restore(s.Attrs)
	w.chp.SetPos(s.CHP)
	w.pap.SetPos(s.PAP)
	w.sep.SetPos(s.SEP)
	w.section = s.Section
	w.para, w.papEnd = s.Para, s.PapEnd
	w.charp, w.cpage, w.special = s.Char, s.Codepage, s.Special
	w.fields = nil
	if len(s.Fields) > 0 {
		w.fields = append([]fieldFrame(nil), s.Fields...)
	}
}
