package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/roboco-io/doc2md/internal/ir"
)

// Text writes plain text: one paragraph per line group, tables with " | "
// between cells, notes and stories listed after the body.
type Text struct{}

// Name implements Renderer.
func (Text) Name() string { return "text" }

// Render implements Renderer.
func (Text) Render(w io.Writer, doc *ir.Document, opts Options) error {
	var sb strings.Builder

	md := doc.Metadata
	if md.Title != "" {
		fmt.Fprintf(&sb, "제목: %s\n", md.Title)
	}
	if md.Author != "" {
		fmt.Fprintf(&sb, "작성자: %s\n", md.Author)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n---\n\n")
	}

	writeTextBlocks(&sb, doc.Content, opts)

	for _, n := range doc.Notes {
		fmt.Fprintf(&sb, "[%s] ", n.ID)
		sb.WriteString(strings.TrimSpace(blocksText(n.Content, opts)))
		sb.WriteString("\n")
	}
	for _, s := range doc.Stories {
		name := s.Name
		if name == "" {
			name = string(s.Kind)
		}
		fmt.Fprintf(&sb, "[%s] %s\n", name, strings.TrimSpace(blocksText(s.Content, opts)))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func blocksText(blocks []ir.Block, opts Options) string {
	var sb strings.Builder
	writeTextBlocks(&sb, blocks, opts)
	return sb.String()
}

func writeTextBlocks(sb *strings.Builder, blocks []ir.Block, opts Options) {
	for _, block := range blocks {
		switch block.Type {
		case ir.BlockTypeParagraph:
			text := paragraphText(block.Paragraph, opts, func(id string) string { return "[" + id + "]" })
			if strings.TrimSpace(text) != "" {
				sb.WriteString(text + "\n\n")
			}
		case ir.BlockTypeTable:
			for _, row := range block.Table.Cells {
				cells := make([]string, 0, len(row))
				for _, c := range row {
					cells = append(cells, strings.ReplaceAll(c.Text, "\n", " "))
				}
				sb.WriteString(strings.Join(cells, " | ") + "\n")
			}
			sb.WriteString("\n")
		case ir.BlockTypeImage:
			fmt.Fprintf(sb, "[이미지: %s]\n\n", block.Image.Label())
		case ir.BlockTypeList:
			for i, item := range block.List.Items {
				prefix := "- "
				if block.List.Ordered {
					prefix = fmt.Sprintf("%d. ", i+1)
				}
				sb.WriteString(strings.Repeat("  ", item.Level) + prefix + item.Text + "\n")
			}
			sb.WriteString("\n")
		case ir.BlockTypeBreak:
			if block.Break.Kind != "column" {
				sb.WriteString("\f\n")
			}
		}
	}
}

// paragraphText joins the visible runs of p. Note references are written
// with note.
func paragraphText(p *ir.Paragraph, opts Options, note func(id string) string) string {
	if len(p.Runs) == 0 {
		return p.Text
	}
	var sb strings.Builder
	for _, r := range p.Runs {
		switch {
		case r.Note != "":
			sb.WriteString(note(r.Note))
		case visible(r, opts):
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}
