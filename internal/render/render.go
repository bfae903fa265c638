// Package render turns an IR document into output text. Renderers are
// looked up by name in a registry.
package render

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/roboco-io/doc2md/internal/ir"
)

// Renderer is the interface that all output formats implement.
type Renderer interface {
	// Name returns the format identifier (e.g., "json", "markdown").
	Name() string

	// Render writes doc to w.
	Render(w io.Writer, doc *ir.Document, opts Options) error
}

// Options contains rendering options.
type Options struct {
	Pretty        bool // JSON 들여쓰기
	IncludeHidden bool // 숨김/삭제 표시된 텍스트 포함
	FrontMatter   bool // Markdown 앞에 YAML 메타데이터
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{Pretty: true, FrontMatter: true}
}

// Registry manages renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer to the registry.
func (r *Registry) Register(rd Renderer) error {
	if rd == nil {
		return fmt.Errorf("cannot register nil renderer")
	}
	name := rd.Name()
	if name == "" {
		return fmt.Errorf("renderer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("renderer already registered: %s", name)
	}
	r.renderers[name] = rd
	return nil
}

// Get returns a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("지원하지 않는 출력 형식: %s", name)
	}
	return rd, nil
}

// List returns all registered renderer names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}

// DefaultRegistry holds the built-in renderers.
var DefaultRegistry = NewRegistry()

func init() {
	for _, rd := range []Renderer{JSON{}, Text{}, Markdown{}} {
		if err := DefaultRegistry.Register(rd); err != nil {
			panic(err)
		}
	}
}

// Get returns a renderer from the default registry.
func Get(name string) (Renderer, error) {
	return DefaultRegistry.Get(name)
}

// List returns all renderer names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// visible reports whether a run is written under opts.
func visible(run ir.Run, opts Options) bool {
	if opts.IncludeHidden {
		return true
	}
	return !run.Style.Hidden && !run.Style.Deleted
}
