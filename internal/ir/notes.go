package ir

import "fmt"

// NoteKind is the kind of a note.
type NoteKind string

const (
	NoteFootnote   NoteKind = "footnote"
	NoteEndnote    NoteKind = "endnote"
	NoteAnnotation NoteKind = "annotation"
)

// Note is a footnote, endnote or comment referenced from the body.
type Note struct {
	ID      string   `json:"id"`
	Kind    NoteKind `json:"kind"`
	Index   int      `json:"index"`
	Content []Block  `json:"content"`
}

// NoteID returns the reference ID of note index of kind.
func NoteID(kind NoteKind, index int) string {
	switch kind {
	case NoteEndnote:
		return fmt.Sprintf("en%d", index+1)
	case NoteAnnotation:
		return fmt.Sprintf("c%d", index+1)
	default:
		return fmt.Sprintf("fn%d", index+1)
	}
}

// StoryKind is the kind of a story outside the body.
type StoryKind string

const (
	StoryHeader  StoryKind = "header"
	StoryTextBox StoryKind = "textbox"
)

// Story is a header, footer or text box.
type Story struct {
	Kind    StoryKind `json:"kind"`
	Name    string    `json:"name,omitempty"` // odd-header, first-footer 등
	Index   int       `json:"index"`
	Content []Block   `json:"content"`
}

// BreakBlock is a page, column or section break.
type BreakBlock struct {
	Kind    string `json:"kind"`              // page, column, section
	Section string `json:"section,omitempty"` // 구역 시작 방식: continuous, new-page 등
}
