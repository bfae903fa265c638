package ir

// Paragraph is a run of text ended by a paragraph mark.
type Paragraph struct {
	Text  string         `json:"text"`
	Runs  []Run          `json:"runs,omitempty"`
	Style ParagraphStyle `json:"style"`
}

// Run is text sharing one character style, or a note reference.
type Run struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
	Note  string    `json:"note,omitempty"` // 각주/미주/메모 참조 ID
}

// ParagraphStyle contains paragraph-level styling hints.
type ParagraphStyle struct {
	HeadingLevel int    `json:"heading_level,omitempty"` // 0 = 본문, 1-6 = 제목
	Alignment    string `json:"alignment,omitempty"`     // center, right, justify
	StyleName    string `json:"style_name,omitempty"`    // Word 문단 스타일 이름
}

// TextStyle contains character-level styling hints.
type TextStyle struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Superscript   bool   `json:"superscript,omitempty"`
	Subscript     bool   `json:"subscript,omitempty"`
	Code          bool   `json:"code,omitempty"` // 고정폭 글꼴
	Hidden        bool   `json:"hidden,omitempty"`
	Deleted       bool   `json:"deleted,omitempty"` // 변경 내용 추적: 삭제됨
	Font          string `json:"font,omitempty"`
	Language      int    `json:"language,omitempty"` // Windows LID
	Link          string `json:"link,omitempty"`
}

// NewParagraph creates a paragraph holding text as a single plain run.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{Runs: make([]Run, 0)}
	if text != "" {
		p.AddRun(text, TextStyle{})
	}
	return p
}

// AddRun appends text. A run with the same style as the previous one is
// merged into it.
func (p *Paragraph) AddRun(text string, style TextStyle) {
	p.Text += text
	if n := len(p.Runs); n > 0 && p.Runs[n-1].Note == "" && p.Runs[n-1].Style == style {
		p.Runs[n-1].Text += text
		return
	}
	p.Runs = append(p.Runs, Run{Text: text, Style: style})
}

// AddNoteRef appends a superscript reference to note id.
func (p *Paragraph) AddNoteRef(id string, style TextStyle) {
	style.Superscript = true
	p.Runs = append(p.Runs, Run{Style: style, Note: id})
}

// IsEmpty reports whether the paragraph holds neither text nor runs.
func (p *Paragraph) IsEmpty() bool {
	return p.Text == "" && len(p.Runs) == 0
}
