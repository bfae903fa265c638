package render

import (
	"encoding/json"
	"io"

	"github.com/roboco-io/doc2md/internal/ir"
)

// JSON writes the IR document itself.
type JSON struct{}

// Name implements Renderer.
func (JSON) Name() string { return "json" }

// Render implements Renderer.
func (JSON) Render(w io.Writer, doc *ir.Document, opts Options) error {
	enc := json.NewEncoder(w)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
