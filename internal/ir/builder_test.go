package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paragraphTexts(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		switch b.Type {
		case BlockTypeParagraph:
			out = append(out, b.Paragraph.Text)
		case BlockTypeList:
			out = append(out, "<list>")
		case BlockTypeTable:
			out = append(out, "<table>")
		case BlockTypeBreak:
			out = append(out, "<"+b.Break.Kind+">")
		case BlockTypeImage:
			out = append(out, "<image>")
		}
	}
	return out
}

func TestBuilder_Paragraphs(t *testing.T) {
	b := NewBuilder()
	b.AddText("one", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndParagraph(ParagraphStyle{}, nil) // 빈 문단은 버림
	b.AddText("  ", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.AddText("two", TextStyle{})
	b.LineBreak()
	b.AddText("lines", TextStyle{})
	b.EndParagraph(ParagraphStyle{Alignment: "center"}, nil)

	doc := b.Document()
	if diff := cmp.Diff([]string{"one", "two\nlines"}, paragraphTexts(doc.Content)); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Content[1].Paragraph.Style.Alignment; got != "center" {
		t.Errorf("Alignment = %q", got)
	}
}

func TestBuilder_Lists(t *testing.T) {
	b := NewBuilder()
	b.AddText("a", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, &ListInfo{})
	b.AddText("b", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, &ListInfo{Level: 1})
	b.AddText("1", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, &ListInfo{Ordered: true})
	b.AddText("after", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)

	doc := b.Document()
	if diff := cmp.Diff([]string{"<list>", "<list>", "after"}, paragraphTexts(doc.Content)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	want := &ListBlock{Items: []ListItem{{Text: "a"}, {Text: "b", Level: 1}}}
	if diff := cmp.Diff(want, doc.Content[0].List); diff != "" {
		t.Errorf("bullet list mismatch (-want +got):\n%s", diff)
	}
	if !doc.Content[1].List.Ordered {
		t.Error("second list should be ordered")
	}
}

func TestBuilder_Table(t *testing.T) {
	b := NewBuilder()
	b.AddText("before", TextStyle{})
	b.StartTable() // 열린 문단은 표 앞에서 닫힘

	b.AddText("A", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.AddText("A2", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.AddText("B", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.EndRow()

	b.AddText("C", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.EndRow()
	b.EndTable()

	doc := b.Document()
	if diff := cmp.Diff([]string{"before", "<table>"}, paragraphTexts(doc.Content)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	tbl := doc.Content[1].Table
	want := [][]Cell{
		{{Text: "A\nA2"}, {Text: "B"}},
		{{Text: "C"}, {Missing: true}},
	}
	if diff := cmp.Diff(want, tbl.Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if tbl.RawText != "A\nA2\tB\nC" {
		t.Errorf("RawText = %q", tbl.RawText)
	}
}

func TestBuilder_NestedTable(t *testing.T) {
	b := NewBuilder()
	b.StartTable()
	b.StartTable()
	b.AddText("x", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.AddText("y", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.EndRow()
	b.EndTable()
	b.EndCell()
	b.EndRow()
	b.EndTable()

	doc := b.Document()
	if len(doc.Content) != 1 {
		t.Fatalf("got %d blocks, want 1", len(doc.Content))
	}
	if got := doc.Content[0].Table.Cells[0][0].Text; got != "x\ty" {
		t.Errorf("flattened cell = %q", got)
	}
}

func TestBuilder_UnclosedTable(t *testing.T) {
	b := NewBuilder()
	b.StartTable()
	b.AddText("orphan", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)

	doc := b.Document()
	if len(doc.Content) != 1 || doc.Content[0].Table == nil {
		t.Fatalf("content = %+v", paragraphTexts(doc.Content))
	}
	if got := doc.Content[0].Table.Cells[0][0].Text; got != "orphan" {
		t.Errorf("cell = %q", got)
	}
}

func TestBuilder_BreaksAfterParagraph(t *testing.T) {
	b := NewBuilder()
	b.AddText("one", TextStyle{})
	b.AddBreak("page", "")
	b.AddText(" more", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.AddBreak("section", "new-page")
	b.AddImage(NewImage("pic-1"))

	doc := b.Document()
	want := []string{"one more", "<page>", "<section>", "<image>"}
	if diff := cmp.Diff(want, paragraphTexts(doc.Content)); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if doc.Content[2].Break.Section != "new-page" {
		t.Errorf("section = %q", doc.Content[2].Break.Section)
	}
}

func TestBuilder_ImageInCell(t *testing.T) {
	b := NewBuilder()
	b.StartTable()
	b.AddImage(&ImageBlock{ID: "pic-1", Alt: "logo"})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.EndCell()
	b.EndRow()
	b.EndTable()

	doc := b.Document()
	if got := doc.Content[0].Table.Cells[0][0].Text; got != "[logo]" {
		t.Errorf("cell = %q", got)
	}
}

func TestBuilder_NotesAndStories(t *testing.T) {
	b := NewBuilder()
	b.AddText("See", TextStyle{})
	id := b.BeginNote(NoteEndnote, 1)
	b.AddText("Endnote text", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.End()
	b.AddNoteRef(id, TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)

	b.BeginStory(StoryHeader, "odd-header", 7)
	b.AddText("Header", TextStyle{})
	b.EndParagraph(ParagraphStyle{}, nil)
	b.End()

	b.BeginStory(StoryTextBox, "textbox", 0)
	b.End() // 빈 글상자는 버림

	b.BeginNote(NoteAnnotation, 0) // 닫히지 않은 메모
	b.AddText("open", TextStyle{})

	doc := b.Document()
	if id != "en2" {
		t.Errorf("note id = %q, want en2", id)
	}
	if diff := cmp.Diff([]string{"See"}, paragraphTexts(doc.Content)); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(doc.Notes))
	}
	if doc.Notes[0].ID != "en2" || paragraphTexts(doc.Notes[0].Content)[0] != "Endnote text" {
		t.Errorf("first note = %+v", doc.Notes[0])
	}
	if doc.Notes[1].Kind != NoteAnnotation || paragraphTexts(doc.Notes[1].Content)[0] != "open" {
		t.Errorf("second note = %+v", doc.Notes[1])
	}
	if len(doc.Stories) != 1 || doc.Stories[0].Name != "odd-header" {
		t.Errorf("stories = %+v", doc.Stories)
	}
}
