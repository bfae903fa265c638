package msdoc

import (
	"fmt"
	"strings"

	"github.com/roboco-io/doc2md/internal/ir"
)

// IRSink builds an ir.Document from decoded items. Text of a paragraph is
// buffered until its mark so that the attribute ranges flushed with it can
// be applied.
type IRSink struct {
	b      *ir.Builder
	frames []*sinkFrame
	draws  int
}

type pieceKind int

const (
	pieceText pieceKind = iota
	pieceNote
	pieceLineBreak
	piecePageBreak
	pieceColumnBreak
	pieceImage
)

type sinkPiece struct {
	kind  pieceKind
	cp    int
	text  string
	image *ir.ImageBlock
}

type sinkFrame struct {
	pieces []sinkPiece
	attrs  []AttributeEntry
}

// NewIRSink returns a sink writing into b.
func NewIRSink(b *ir.Builder) *IRSink {
	return &IRSink{b: b, frames: []*sinkFrame{{}}}
}

func (s *IRSink) frame() *sinkFrame { return s.frames[len(s.frames)-1] }

// Emit implements Sink.
func (s *IRSink) Emit(it Item) error {
	f := s.frame()
	switch it.Kind {
	case ItemText:
		f.pieces = append(f.pieces, sinkPiece{kind: pieceText, cp: it.CP, text: it.Text})
	case ItemAttributes:
		f.attrs = append(f.attrs, it.Attrs...)
	case ItemLineBreak:
		f.pieces = append(f.pieces, sinkPiece{kind: pieceLineBreak, cp: it.CP})
	case ItemPageBreak:
		f.pieces = append(f.pieces, sinkPiece{kind: piecePageBreak, cp: it.CP})
	case ItemColumnBreak:
		f.pieces = append(f.pieces, sinkPiece{kind: pieceColumnBreak, cp: it.CP})
	case ItemPicture:
		img := ir.NewImage(fmt.Sprintf("pic-%08x", it.PicLoc))
		img.Format = "picture"
		if it.Object {
			img.Format = "ole"
		}
		f.pieces = append(f.pieces, sinkPiece{kind: pieceImage, cp: it.CP, image: img})
	case ItemDrawObject:
		s.draws++
		img := ir.NewImage(fmt.Sprintf("drawing-%d", s.draws))
		img.Format = "drawing"
		f.pieces = append(f.pieces, sinkPiece{kind: pieceImage, cp: it.CP, image: img})
	case ItemNoteRef:
		f.pieces = append(f.pieces, sinkPiece{kind: pieceNote, cp: it.CP, text: ir.NoteID(noteKind(it.Target), it.Index)})

	case ItemParagraphEnd:
		s.endParagraph(it.Para)
	case ItemCellEnd:
		s.endParagraph(it.Para)
		s.b.EndCell()
	case ItemRowEnd:
		if len(f.pieces) > 0 {
			s.endParagraph(it.Para)
			s.b.EndCell()
		}
		f.attrs = nil
		s.b.EndRow()
	case ItemSectionBreak:
		s.endParagraph(it.Para)
		s.b.AddBreak("section", bkcName(it.Bkc))
	case ItemTableStart:
		s.b.StartTable()
	case ItemTableEnd:
		s.b.EndTable()

	case ItemRegionStart:
		switch it.Target {
		case RegionFootnote, RegionEndnote, RegionAnnotation:
			s.b.BeginNote(noteKind(it.Target), it.Index)
		case RegionHeader:
			s.b.BeginStory(ir.StoryHeader, it.Story, it.Index)
		default:
			s.b.BeginStory(ir.StoryTextBox, it.Story, it.Index)
		}
		s.frames = append(s.frames, &sinkFrame{})
	case ItemRegionEnd:
		s.flush()
		if len(s.frames) > 1 {
			s.frames = s.frames[:len(s.frames)-1]
		}
		s.b.End()
	}
	return nil
}

// Finish flushes text left after the last paragraph mark.
func (s *IRSink) Finish() {
	for len(s.frames) > 0 {
		s.flush()
		if len(s.frames) == 1 {
			return
		}
		s.frames = s.frames[:len(s.frames)-1]
		s.b.End()
	}
}

// flush writes a trailing paragraph without a mark.
func (s *IRSink) flush() {
	if len(s.frame().pieces) > 0 {
		s.endParagraph(nil)
	}
}

// endParagraph replays the buffered pieces with their styles and closes
// the paragraph.
func (s *IRSink) endParagraph(info *ParaInfo) {
	f := s.frame()
	for _, p := range f.pieces {
		style := styleAt(f.attrs, p.cp)
		switch p.kind {
		case pieceText:
			s.b.AddText(p.text, style)
		case pieceNote:
			s.b.AddNoteRef(p.text, style)
		case pieceLineBreak:
			s.b.LineBreak()
		case piecePageBreak:
			s.b.AddBreak("page", "")
		case pieceColumnBreak:
			s.b.AddBreak("column", "")
		case pieceImage:
			s.b.AddImage(p.image)
		}
	}
	f.pieces = f.pieces[:0]
	f.attrs = nil

	var (
		ps   ir.ParagraphStyle
		list *ir.ListInfo
	)
	if info != nil {
		ps.StyleName = info.StyleName
		ps.Alignment = alignment(info.Jc)
		if info.Heading > 0 {
			ps.HeadingLevel = min(info.Heading, 6)
		}
		if info.List {
			list = &ir.ListInfo{Level: info.ListLevel, Ordered: orderedStyle(info.StyleName)}
		}
	}
	s.b.EndParagraph(ps, list)
}

// styleAt collects the attributes that cover cp.
func styleAt(entries []AttributeEntry, cp int) ir.TextStyle {
	var st ir.TextStyle
	for _, e := range entries {
		if cp < e.Start || (e.End != OpenEnd && cp >= e.End) {
			continue
		}
		switch e.Attr.Kind {
		case AttrBold:
			st.Bold = true
		case AttrItalic:
			st.Italic = true
		case AttrUnderline:
			st.Underline = true
		case AttrStrike:
			st.Strikethrough = true
		case AttrSuperscript:
			st.Superscript = true
		case AttrSubscript:
			st.Subscript = true
		case AttrHidden:
			st.Hidden = true
		case AttrDeleted:
			st.Deleted = true
		case AttrFont:
			st.Font = e.Attr.Str
			st.Code = monospace(e.Attr.Str)
		case AttrLanguage:
			st.Language = e.Attr.Int
		case AttrLink:
			st.Link = e.Attr.Str
		}
	}
	return st
}

func noteKind(r Region) ir.NoteKind {
	switch r {
	case RegionEndnote:
		return ir.NoteEndnote
	case RegionAnnotation:
		return ir.NoteAnnotation
	default:
		return ir.NoteFootnote
	}
}

func alignment(jc int) string {
	switch jc {
	case JcCenter:
		return "center"
	case JcRight:
		return "right"
	case JcJustify:
		return "justify"
	default:
		return ""
	}
}

func bkcName(bkc int) string {
	switch bkc {
	case BkcContinuous:
		return "continuous"
	case BkcNewColumn:
		return "new-column"
	case BkcEvenPage:
		return "even-page"
	case BkcOddPage:
		return "odd-page"
	default:
		return "new-page"
	}
}

// orderedStyle guesses list numbering from the style name. Word keeps the
// real numbering format in the list tables, which are not read.
func orderedStyle(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "number") || strings.Contains(n, "번호")
}

var monospaceFonts = []string{"courier", "consolas", "lucida console", "monaco", "menlo", "monospace"}

func monospace(font string) bool {
	f := strings.ToLower(font)
	for _, m := range monospaceFonts {
		if strings.Contains(f, m) {
			return true
		}
	}
	return false
}
