// Package codegen turns model documents into TypeScript source files.
package codegen

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/electwix/ts-catalyst/internal/codegen/render"
	"github.com/electwix/ts-catalyst/internal/codegen/typescript"
	"github.com/electwix/ts-catalyst/internal/model"
	"github.com/electwix/ts-catalyst/internal/model/typeexpr"
	"github.com/electwix/ts-catalyst/internal/naming"
)

// File is a generated source file. Path is relative to the output
// directory.
type File = render.File

// Generator produces source files for a set of model documents.
type Generator interface {
	Generate(ctx context.Context, docs []*model.Document, r naming.Resolver) ([]File, error)
}

// Options configures a ModuleGenerator.
type Options struct {
	// Modes lists the variants emitted per document. Empty means
	// ModeFull and ModeDeclarationOnly.
	Modes []render.Mode
	// Tab is the indentation unit. Empty means render.DefaultTab.
	Tab string
}

// ModuleGenerator emits one file per document and mode.
type ModuleGenerator struct {
	opts  Options
	types *typeexpr.Parser
}

// New returns a ModuleGenerator.
func New(opts Options) *ModuleGenerator {
	if len(opts.Modes) == 0 {
		opts.Modes = []render.Mode{render.ModeFull, render.ModeDeclarationOnly}
	}
	return &ModuleGenerator{opts: opts, types: typeexpr.NewParser()}
}

// Generate implements Generator.
func (g *ModuleGenerator) Generate(ctx context.Context, docs []*model.Document, r naming.Resolver) ([]File, error) {
	builder := &typescript.Builder{Resolver: r, Types: g.types}
	files := make([]File, 0, len(docs)*len(g.opts.Modes))
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if prev, ok := seen[doc.Module]; ok {
			return nil, fmt.Errorf("codegen: module %q defined by both %s and %s", doc.Module, prev, doc.Path)
		}
		seen[doc.Module] = doc.Path

		mod, err := builder.Build(doc)
		if err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", doc.Path, err)
		}
		specs := make([]render.Spec, 0, len(g.opts.Modes))
		for _, mode := range g.opts.Modes {
			specs = append(specs, render.Spec{Path: FileName(doc.Module, mode), Node: mod, Mode: mode, Tab: g.opts.Tab})
		}
		rendered, err := render.Format(specs)
		if err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", doc.Path, err)
		}
		files = append(files, rendered...)
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

// FileName returns the output path of module rendered in mode.
func FileName(module string, mode render.Mode) string {
	return path.Clean(module) + mode.Extension()
}

var _ Generator = (*ModuleGenerator)(nil)
