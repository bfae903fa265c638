package msdoc

// ItemKind identifies an emitted item.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemParagraphEnd
	ItemLineBreak
	ItemPageBreak
	ItemColumnBreak
	ItemSectionBreak
	ItemTableStart
	ItemTableEnd
	ItemCellEnd
	ItemRowEnd
	ItemFieldStart
	ItemFieldSeparator
	ItemFieldEnd
	ItemNoteRef
	ItemRegionStart
	ItemRegionEnd
	ItemPicture
	ItemDrawObject
	ItemAttributes
)

var itemKindNames = [...]string{
	ItemText:           "text",
	ItemParagraphEnd:   "paragraph-end",
	ItemLineBreak:      "line-break",
	ItemPageBreak:      "page-break",
	ItemColumnBreak:    "column-break",
	ItemSectionBreak:   "section-break",
	ItemTableStart:     "table-start",
	ItemTableEnd:       "table-end",
	ItemCellEnd:        "cell-end",
	ItemRowEnd:         "row-end",
	ItemFieldStart:     "field-start",
	ItemFieldSeparator: "field-separator",
	ItemFieldEnd:       "field-end",
	ItemNoteRef:        "note-ref",
	ItemRegionStart:    "region-start",
	ItemRegionEnd:      "region-end",
	ItemPicture:        "picture",
	ItemDrawObject:     "draw-object",
	ItemAttributes:     "attributes",
}

// String returns the item kind name.
func (k ItemKind) String() string {
	if k >= 0 && int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "unknown"
}

// ParaInfo describes the paragraph an ItemParagraphEnd closes.
type ParaInfo struct {
	Istd       int
	StyleName  string
	Heading    int // 1-9, 0 = 본문
	Jc         int
	OutLvl     int
	TableDepth int
	List       bool
	ListLevel  int
}

// Item is one entry of the decoded stream: an attributed text run or a
// structural event. Only the fields relevant to Kind are set.
type Item struct {
	Kind   ItemKind
	CP     int
	Region Region // 현재 스토리

	// ItemText
	Text     string
	Codepage Codepage
	FC       int64 // 소비한 바이트 범위 [FC, FCEnd)
	FCEnd    int64

	// ItemParagraphEnd, ItemCellEnd, ItemRowEnd
	Para *ParaInfo

	// ItemSectionBreak: 다음 구역의 시작 방식
	Bkc int

	// ItemTableStart, ItemTableEnd: 중첩 깊이 (1부터)
	Depth int

	// ItemFieldStart: 필드 종류와 명령문
	Field       int
	Instruction string

	// ItemNoteRef, ItemRegionStart, ItemRegionEnd: 대상 스토리와 번호
	Target Region
	Index  int
	Story  string

	// ItemPicture, ItemDrawObject
	PicLoc uint32
	Object bool // OLE 개체

	// ItemAttributes
	Attrs []AttributeEntry
}

// Sink consumes decoded items in CP order. Returning an error aborts the
// decode.
type Sink interface {
	Emit(Item) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Item) error

// Emit implements Sink.
func (f SinkFunc) Emit(it Item) error { return f(it) }

// Collector is a Sink that keeps every item.
type Collector struct {
	Items []Item
}

// Emit implements Sink.
func (c *Collector) Emit(it Item) error {
	c.Items = append(c.Items, it)
	return nil
}

// Text concatenates the text items.
func (c *Collector) Text() string {
	n := 0
	for _, it := range c.Items {
		n += len(it.Text)
	}
	b := make([]byte, 0, n)
	for _, it := range c.Items {
		if it.Kind == ItemText {
			b = append(b, it.Text...)
		}
	}
	return string(b)
}

// Kinds returns the kind of every item, in order.
func (c *Collector) Kinds() []ItemKind {
	out := make([]ItemKind, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Kind
	}
	return out
}
