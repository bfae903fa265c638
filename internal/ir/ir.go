// Package ir defines the intermediate representation a decoded Word
// document is assembled into. It is the output of the parser and the
// input of every renderer.
package ir

// Document represents the intermediate representation of a Word document.
type Document struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
	Content  []Block  `json:"content"`
	Notes    []Note   `json:"notes,omitempty"`   // 각주, 미주, 메모
	Stories  []Story  `json:"stories,omitempty"` // 머리글/바닥글, 글상자
}

// Metadata is taken from the summary information stream and the FIB.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
	Format      string `json:"format,omitempty"` // Word 6/95, Word 97-2003
	Encryption  string `json:"encryption,omitempty"`
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypeImage     BlockType = "image"
	BlockTypeList      BlockType = "list"
	BlockTypeBreak     BlockType = "break"
)

// Block represents a content block in the document.
type Block struct {
	Type      BlockType   `json:"type"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
	Image     *ImageBlock `json:"image,omitempty"`
	List      *ListBlock  `json:"list,omitempty"`
	Break     *BreakBlock `json:"break,omitempty"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Content: make([]Block, 0),
	}
}
