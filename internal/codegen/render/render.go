// Package render turns syntax trees into TypeScript source text.
package render

import (
	"fmt"

	"github.com/electwix/ts-catalyst/internal/codegen/ast"
)

// Spec describes a tree to render.
type Spec struct {
	Path string
	Node ast.Node
	Mode Mode
	// Tab is the indentation unit; DefaultTab when empty.
	Tab string
	Raw []byte
}

// File contains the rendered source for a path.
type File struct {
	Path    string
	Content []byte
}

// Render renders node in the given mode using the default indentation.
func Render(node ast.Node, mode Mode) ([]byte, error) {
	return RenderWith(node, mode, DefaultTab)
}

// RenderWith renders node in the given mode indenting with tab.
func RenderWith(node ast.Node, mode Mode, tab string) ([]byte, error) {
	p := NewPrinter(tab)
	f := NewFilter(mode, p)
	p.Dispatch = f
	if err := f.Visit(node); err != nil {
		return nil, err
	}
	return append([]byte(nil), p.Bytes()...), nil
}

// Format renders all provided specs.
func Format(specs []Spec) ([]File, error) {
	rendered := make([]File, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Raw) > 0 {
			rawCopy := append([]byte(nil), spec.Raw...)
			rendered = append(rendered, File{Path: spec.Path, Content: rawCopy})
			continue
		}
		if spec.Node == nil {
			return nil, fmt.Errorf("render %s: nil AST node", spec.Path)
		}
		content, err := RenderWith(spec.Node, spec.Mode, spec.Tab)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", spec.Path, err)
		}
		rendered = append(rendered, File{Path: spec.Path, Content: content})
	}
	return rendered, nil
}
