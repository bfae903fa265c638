package ir

import (
	"strings"
)

// ListInfo marks a paragraph as a list item.
type ListInfo struct {
	Level   int
	Ordered bool
}

// Builder assembles a Document from a stream of text and structure
// events. Notes and stories are built in their own scope and attached to
// the document when they end.
type Builder struct {
	doc   *Document
	scope *scope
	stack []*scope
}

type scope struct {
	blocks  []Block
	para    *Paragraph
	list    *ListBlock
	tables  []*tableState
	pending []Block // 문단이 끝난 뒤 붙일 블록

	note  *Note
	story *Story
}

type tableState struct {
	rows [][]string
	row  []string
	cell []string
}

// NewBuilder returns a builder for an empty document.
func NewBuilder() *Builder {
	return &Builder{doc: NewDocument(), scope: &scope{}}
}

// Metadata returns the metadata of the document being built.
func (b *Builder) Metadata() *Metadata { return &b.doc.Metadata }

// paragraph returns the open paragraph, creating it if needed.
func (b *Builder) paragraph() *Paragraph {
	if b.scope.para == nil {
		b.scope.para = NewParagraph("")
	}
	return b.scope.para
}

// AddText appends text to the open paragraph.
func (b *Builder) AddText(text string, style TextStyle) {
	if text == "" {
		return
	}
	b.paragraph().AddRun(text, style)
}

// AddNoteRef appends a note reference to the open paragraph.
func (b *Builder) AddNoteRef(id string, style TextStyle) {
	b.paragraph().AddNoteRef(id, style)
}

// LineBreak appends a manual line break.
func (b *Builder) LineBreak() {
	b.paragraph().AddRun("\n", TextStyle{})
}

// EndParagraph closes the open paragraph. Inside a table its text goes to
// the current cell; list items are collected into a list block.
func (b *Builder) EndParagraph(style ParagraphStyle, list *ListInfo) {
	s := b.scope
	p := s.para
	s.para = nil
	if p == nil {
		p = NewParagraph("")
	}
	p.Style = style

	if n := len(s.tables); n > 0 {
		t := s.tables[n-1]
		if p.Text != "" {
			t.cell = append(t.cell, p.Text)
		}
		s.flushPending()
		return
	}

	switch {
	case list != nil && strings.TrimSpace(p.Text) != "":
		if s.list == nil || s.list.Ordered != list.Ordered {
			s.flushList()
			s.list = NewList(list.Ordered)
		}
		s.list.Add(p.Text, list.Level)
	case p.IsEmpty() || strings.TrimSpace(p.Text) == "" && !hasNote(p):
		s.flushList()
	default:
		s.flushList()
		s.blocks = append(s.blocks, Block{Type: BlockTypeParagraph, Paragraph: p})
	}
	s.flushPending()
}

func hasNote(p *Paragraph) bool {
	for _, r := range p.Runs {
		if r.Note != "" {
			return true
		}
	}
	return false
}

// AddBreak adds a break after the open paragraph.
func (b *Builder) AddBreak(kind, section string) {
	b.addAfterParagraph(Block{Type: BlockTypeBreak, Break: &BreakBlock{Kind: kind, Section: section}})
}

// AddImage adds an image placeholder after the open paragraph. Inside a
// table the image alt text is written to the cell.
func (b *Builder) AddImage(img *ImageBlock) {
	if n := len(b.scope.tables); n > 0 {
		b.AddText("["+img.Label()+"]", TextStyle{})
		return
	}
	b.addAfterParagraph(Block{Type: BlockTypeImage, Image: img})
}

func (b *Builder) addAfterParagraph(blk Block) {
	s := b.scope
	if s.para != nil && !s.para.IsEmpty() {
		s.pending = append(s.pending, blk)
		return
	}
	s.flushList()
	s.blocks = append(s.blocks, blk)
}

// StartTable opens a table. A table opened inside a cell is flattened into
// that cell's text when it ends.
func (b *Builder) StartTable() {
	s := b.scope
	if len(s.tables) == 0 {
		if s.para != nil && !s.para.IsEmpty() {
			b.EndParagraph(s.para.Style, nil)
		}
		s.flushList()
	}
	s.tables = append(s.tables, &tableState{})
}

// EndCell closes the current cell.
func (b *Builder) EndCell() {
	t := b.table()
	if t == nil {
		return
	}
	t.row = append(t.row, strings.Join(t.cell, "\n"))
	t.cell = nil
}

// EndRow closes the current row.
func (b *Builder) EndRow() {
	t := b.table()
	if t == nil {
		return
	}
	if len(t.cell) > 0 {
		b.EndCell()
	}
	t.rows = append(t.rows, t.row)
	t.row = nil
}

// EndTable closes the innermost table.
func (b *Builder) EndTable() {
	s := b.scope
	t := b.table()
	if t == nil {
		return
	}
	if len(t.row) > 0 || len(t.cell) > 0 {
		b.EndRow()
	}
	s.tables = s.tables[:len(s.tables)-1]

	tbl := t.block()
	if n := len(s.tables); n > 0 {
		parent := s.tables[n-1]
		parent.cell = append(parent.cell, tbl.RawText)
		return
	}
	if tbl.Rows > 0 {
		s.blocks = append(s.blocks, Block{Type: BlockTypeTable, Table: tbl})
	}
}

func (b *Builder) table() *tableState {
	if n := len(b.scope.tables); n > 0 {
		return b.scope.tables[n-1]
	}
	return nil
}

// block converts the collected rows into a table block.
func (t *tableState) block() *TableBlock {
	cols := 0
	for _, r := range t.rows {
		cols = max(cols, len(r))
	}
	tbl := NewTable(len(t.rows), cols)
	lines := make([]string, 0, len(t.rows))
	for i, r := range t.rows {
		for j, text := range r {
			tbl.SetCell(i, j, text)
		}
		lines = append(lines, strings.Join(r, "\t"))
	}
	tbl.RawText = strings.Join(lines, "\n")
	return tbl
}

// BeginNote starts the content of a note and returns its ID.
func (b *Builder) BeginNote(kind NoteKind, index int) string {
	id := NoteID(kind, index)
	b.push(&scope{note: &Note{ID: id, Kind: kind, Index: index}})
	return id
}

// BeginStory starts the content of a header, footer or text box.
func (b *Builder) BeginStory(kind StoryKind, name string, index int) {
	b.push(&scope{story: &Story{Kind: kind, Name: name, Index: index}})
}

func (b *Builder) push(s *scope) {
	b.stack = append(b.stack, b.scope)
	b.scope = s
}

// End closes the innermost note or story.
func (b *Builder) End() {
	if len(b.stack) == 0 {
		return
	}
	s := b.scope
	s.finish()
	b.scope = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	switch {
	case s.note != nil:
		s.note.Content = s.blocks
		b.doc.Notes = append(b.doc.Notes, *s.note)
	case s.story != nil:
		if len(s.blocks) > 0 {
			s.story.Content = s.blocks
			b.doc.Stories = append(b.doc.Stories, *s.story)
		}
	}
}

// Document finishes every open scope and returns the document.
func (b *Builder) Document() *Document {
	for len(b.stack) > 0 {
		b.End()
	}
	b.scope.finish()
	b.doc.Content = append(b.doc.Content, b.scope.blocks...)
	b.scope.blocks = nil
	return b.doc
}

func (s *scope) flushList() {
	if s.list != nil && !s.list.IsEmpty() {
		s.blocks = append(s.blocks, Block{Type: BlockTypeList, List: s.list})
	}
	s.list = nil
}

func (s *scope) flushPending() {
	if len(s.pending) == 0 {
		return
	}
	s.flushList()
	s.blocks = append(s.blocks, s.pending...)
	s.pending = nil
}

// finish closes whatever is still open in s.
func (s *scope) finish() {
	if s.para != nil && !s.para.IsEmpty() {
		p := s.para
		s.para = nil
		if len(s.tables) == 0 {
			s.flushList()
			s.blocks = append(s.blocks, Block{Type: BlockTypeParagraph, Paragraph: p})
		}
	}
	s.para = nil
	for len(s.tables) > 0 {
		// 닫히지 않은 표는 원문 텍스트로 남김
		t := s.tables[len(s.tables)-1]
		s.tables = s.tables[:len(s.tables)-1]
		if len(t.cell) > 0 {
			t.row = append(t.row, strings.Join(t.cell, "\n"))
		}
		if len(t.row) > 0 {
			t.rows = append(t.rows, t.row)
		}
		tbl := t.block()
		switch {
		case len(s.tables) > 0:
			parent := s.tables[len(s.tables)-1]
			parent.cell = append(parent.cell, tbl.RawText)
		case tbl.Rows > 0:
			s.blocks = append(s.blocks, Block{Type: BlockTypeTable, Table: tbl})
		}
	}
	s.flushList()
	s.flushPending()
}
