package render

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roboco-io/doc2md/internal/ir"
)

// Markdown writes CommonMark with footnote extensions. Notes become
// footnote definitions; headers and text boxes follow the body.
type Markdown struct{}

// Name implements Renderer.
func (Markdown) Name() string { return "markdown" }

type frontMatter struct {
	Title       string `yaml:"title,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Subject     string `yaml:"subject,omitempty"`
	Keywords    string `yaml:"keywords,omitempty"`
	Description string `yaml:"description,omitempty"`
	Created     string `yaml:"created,omitempty"`
	Modified    string `yaml:"modified,omitempty"`
	Format      string `yaml:"format,omitempty"`
}

// Render implements Renderer.
func (Markdown) Render(w io.Writer, doc *ir.Document, opts Options) error {
	var sb strings.Builder

	if opts.FrontMatter {
		if err := writeFrontMatter(&sb, doc.Metadata); err != nil {
			return err
		}
	}

	writeMarkdownBlocks(&sb, doc.Content, opts)

	for _, n := range doc.Notes {
		var body strings.Builder
		writeMarkdownBlocks(&body, n.Content, opts)
		text := strings.TrimSpace(body.String())
		// 여러 문단은 들여쓰기로 이어 붙임
		text = strings.ReplaceAll(text, "\n\n", "\n\n    ")
		fmt.Fprintf(&sb, "[^%s]: %s\n\n", n.ID, text)
	}

	for _, s := range doc.Stories {
		name := s.Name
		if name == "" {
			name = string(s.Kind)
		}
		fmt.Fprintf(&sb, "<!-- %s -->\n\n", name)
		writeMarkdownBlocks(&sb, s.Content, opts)
	}

	_, err := io.WriteString(w, strings.TrimRight(sb.String(), "\n")+"\n")
	return err
}

func writeFrontMatter(sb *strings.Builder, md ir.Metadata) error {
	fm := frontMatter{
		Title:       md.Title,
		Author:      md.Author,
		Subject:     md.Subject,
		Keywords:    md.Keywords,
		Description: md.Description,
		Created:     md.Created,
		Modified:    md.Modified,
		Format:      md.Format,
	}
	if fm == (frontMatter{}) {
		return nil
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("front matter 생성 실패: %w", err)
	}
	sb.WriteString("---\n")
	sb.Write(data)
	sb.WriteString("---\n\n")
	return nil
}

func writeMarkdownBlocks(sb *strings.Builder, blocks []ir.Block, opts Options) {
	for _, block := range blocks {
		switch block.Type {
		case ir.BlockTypeParagraph:
			writeMarkdownParagraph(sb, block.Paragraph, opts)
		case ir.BlockTypeTable:
			writeMarkdownTable(sb, block.Table)
		case ir.BlockTypeImage:
			fmt.Fprintf(sb, "![%s](%s)\n\n", block.Image.Label(), block.Image.ID)
		case ir.BlockTypeList:
			writeMarkdownList(sb, block.List)
		case ir.BlockTypeBreak:
			if block.Break.Kind != "column" {
				sb.WriteString("---\n\n")
			}
		}
	}
}

func writeMarkdownParagraph(sb *strings.Builder, p *ir.Paragraph, opts Options) {
	var text strings.Builder
	for _, r := range p.Runs {
		switch {
		case r.Note != "":
			text.WriteString("[^" + r.Note + "]")
		case visible(r, opts):
			text.WriteString(styledRun(r.Text, r.Style))
		}
	}
	if len(p.Runs) == 0 {
		text.WriteString(p.Text)
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return
	}
	// 줄바꿈은 하드 브레이크로
	out = strings.ReplaceAll(out, "\n", "  \n")

	if lvl := p.Style.HeadingLevel; lvl > 0 && lvl <= 6 {
		sb.WriteString(strings.Repeat("#", lvl) + " " + out + "\n\n")
		return
	}
	sb.WriteString(out + "\n\n")
}

// styledRun wraps the non-space core of text in Markdown emphasis. Code
// spans take precedence over other emphasis.
func styledRun(text string, st ir.TextStyle) string {
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	i := strings.Index(text, core)
	lead, trail := text[:i], text[i+len(core):]

	switch {
	case st.Code:
		core = "`" + core + "`"
	default:
		if st.Strikethrough || st.Deleted {
			core = "~~" + core + "~~"
		}
		if st.Italic {
			core = "*" + core + "*"
		}
		if st.Bold {
			core = "**" + core + "**"
		}
		if st.Superscript {
			core = "<sup>" + core + "</sup>"
		} else if st.Subscript {
			core = "<sub>" + core + "</sub>"
		}
	}
	if st.Link != "" {
		core = "[" + core + "](" + st.Link + ")"
	}
	return lead + core + trail
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", "<br>")

func writeMarkdownTable(sb *strings.Builder, t *ir.TableBlock) {
	if len(t.Cells) == 0 || t.Cols == 0 {
		return
	}

	for i, row := range t.Cells {
		sb.WriteString("|")
		for _, cell := range row {
			fmt.Fprintf(sb, " %s |", cellEscaper.Replace(cell.Text))
		}
		sb.WriteString("\n")

		// 첫 행을 머리글로 취급
		if i == 0 {
			sb.WriteString("|")
			for range row {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

func writeMarkdownList(sb *strings.Builder, l *ir.ListBlock) {
	for i, item := range l.Items {
		prefix := "- "
		if l.Ordered {
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		fmt.Fprintf(sb, "%s%s%s\n", strings.Repeat("  ", item.Level), prefix, strings.TrimSpace(item.Text))
	}
	sb.WriteString("\n")
}
