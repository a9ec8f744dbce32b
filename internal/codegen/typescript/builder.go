// Package typescript builds TypeScript syntax trees from model documents.
package typescript

import (
	"fmt"

	"github.com/electwix/ts-catalyst/internal/codegen/ast"
	"github.com/electwix/ts-catalyst/internal/model"
	"github.com/electwix/ts-catalyst/internal/model/typeexpr"
	"github.com/electwix/ts-catalyst/internal/naming"
)

// Builder converts model documents into syntax trees. Method and property
// identifiers are resolved through Resolver; type names are emitted as
// written.
type Builder struct {
	Resolver naming.Resolver
	Types    *typeexpr.Parser
}

// NewBuilder returns a Builder resolving names with r.
func NewBuilder(r naming.Resolver) *Builder {
	return &Builder{Resolver: r}
}

// MemberOverrides collects the casing attributes declared in doc.
func MemberOverrides(doc *model.Document) naming.Overrides {
	table := naming.Overrides{}
	add := func(owner string, fields []*model.Field, methods []*model.Method) {
		for _, f := range fields {
			if o, ok := f.Override(); ok {
				table[naming.MemberKey{Type: owner, Member: f.Name}] = o
			}
		}
		for _, m := range methods {
			if o, ok := m.Override(); ok {
				table[naming.MemberKey{Type: owner, Member: m.Name}] = o
			}
		}
	}
	for _, c := range doc.Classes {
		add(c.Name, c.Fields, c.Methods)
	}
	for _, i := range doc.Interfaces {
		add(i.Name, i.Fields, i.Methods)
	}
	return table
}

// Build converts doc into a module. Overrides configured on the Builder's
// resolver take precedence over attributes declared in the document.
func (b *Builder) Build(doc *model.Document) (*ast.Module, error) {
	r := naming.Resolver{
		Context:   b.Resolver.Context,
		Overrides: MemberOverrides(doc).Merge(b.Resolver.Overrides),
	}
	s := &session{resolver: r, types: b.Types}

	mod := &ast.Module{Name: doc.Module}
	for _, imp := range doc.Imports {
		mod.Body = append(mod.Body, &ast.Import{Names: imp.Names, From: imp.From})
	}
	for _, c := range doc.Classes {
		node, err := s.class(c)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, node)
	}
	for _, i := range doc.Interfaces {
		node, err := s.iface(i)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, node)
	}
	for _, e := range doc.Enums {
		mod.Body = append(mod.Body, enum(e))
	}
	return mod, nil
}

type session struct {
	resolver naming.Resolver
	types    *typeexpr.Parser
}

func (s *session) typeRef(src string) (*ast.TypeRef, error) {
	if src == "" {
		return nil, nil
	}
	parse := typeexpr.Parse
	if s.types != nil {
		parse = s.types.Parse
	}
	e, err := parse(src)
	if err != nil {
		return nil, err
	}
	return convertExpr(e), nil
}

func convertExpr(e *typeexpr.Expr) *ast.TypeRef {
	ref := &ast.TypeRef{Name: e.Name, Array: e.Array}
	for _, a := range e.Args {
		ref.Args = append(ref.Args, convertExpr(a))
	}
	for _, u := range e.Union {
		ref.Union = append(ref.Union, convertExpr(u))
	}
	return ref
}

func (s *session) typeRefs(srcs []string) ([]*ast.TypeRef, error) {
	refs := make([]*ast.TypeRef, 0, len(srcs))
	for _, src := range srcs {
		ref, err := s.typeRef(src)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func doc(text string) *ast.Comment {
	lines := model.DocLines(text)
	if len(lines) == 0 {
		return nil
	}
	return &ast.Comment{Lines: lines}
}

func decorators(ds []*model.Decorator) []*ast.Decorator {
	if len(ds) == 0 {
		return nil
	}
	out := make([]*ast.Decorator, 0, len(ds))
	for _, d := range ds {
		dec := &ast.Decorator{Name: d.Name}
		for _, arg := range d.Args {
			dec.Args = append(dec.Args, &ast.Raw{Text: arg})
		}
		out = append(out, dec)
	}
	return out
}

func (s *session) class(c *model.Class) (*ast.Class, error) {
	node := &ast.Class{
		Doc:        doc(c.Doc),
		Decorators: decorators(c.Decorators),
		Name:       c.Name,
		Export:     c.Export,
		Abstract:   c.Abstract,
	}
	var err error
	if node.Extends, err = s.typeRef(c.Extends); err != nil {
		return nil, fmt.Errorf("typescript: class %s: %w", c.Name, err)
	}
	if node.Implements, err = s.typeRefs(c.Implements); err != nil {
		return nil, fmt.Errorf("typescript: class %s: %w", c.Name, err)
	}
	if node.Members, err = s.members(c.Name, c.Fields, c.Methods, true); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *session) iface(i *model.Interface) (*ast.Interface, error) {
	node := &ast.Interface{
		Doc:    doc(i.Doc),
		Name:   i.Name,
		Export: i.Export,
	}
	var err error
	if node.Extends, err = s.typeRefs(i.Extends); err != nil {
		return nil, fmt.Errorf("typescript: interface %s: %w", i.Name, err)
	}
	if node.Members, err = s.members(i.Name, i.Fields, i.Methods, false); err != nil {
		return nil, err
	}
	return node, nil
}

func enum(e *model.Enum) *ast.Enum {
	node := &ast.Enum{
		Doc:    doc(e.Doc),
		Name:   e.Name,
		Export: e.Export,
		Const:  e.Const,
	}
	for _, v := range e.Values {
		node.Values = append(node.Values, &ast.EnumValue{
			Doc:   doc(v.Doc),
			Name:  v.Name,
			Value: string(v.Value),
		})
	}
	return node
}

func (s *session) members(owner string, fields []*model.Field, methods []*model.Method, withBodies bool) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(fields)+len(methods))
	for _, f := range fields {
		key := naming.MemberKey{Type: owner, Member: f.Name}
		name, err := s.resolver.Property(key, f.Name)
		if err != nil {
			return nil, fmt.Errorf("typescript: property %s: %w", key, err)
		}
		typ, err := s.typeRef(f.Type)
		if err != nil {
			return nil, fmt.Errorf("typescript: property %s: %w", key, err)
		}
		out = append(out, &ast.Field{
			Doc:        doc(f.Doc),
			Decorators: decorators(f.Decorators),
			Access:     ast.Access(f.Access),
			Static:     f.Static,
			Readonly:   f.Readonly,
			Name:       name,
			Optional:   f.Optional,
			Type:       typ,
		})
	}
	for _, m := range methods {
		key := naming.MemberKey{Type: owner, Member: m.Name}
		node, err := s.method(key, m, withBodies)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (s *session) method(key naming.MemberKey, m *model.Method, withBody bool) (*ast.Method, error) {
	name, err := s.resolver.Method(key, m.Name)
	if err != nil {
		return nil, fmt.Errorf("typescript: method %s: %w", key, err)
	}
	node := &ast.Method{
		Doc:        doc(m.Doc),
		Decorators: decorators(m.Decorators),
		Access:     ast.Access(m.Access),
		Static:     m.Static,
		Name:       name,
	}
	if node.Returns, err = s.typeRef(m.Returns); err != nil {
		return nil, fmt.Errorf("typescript: method %s: %w", key, err)
	}
	for _, p := range m.Params {
		typ, err := s.typeRef(p.Type)
		if err != nil {
			return nil, fmt.Errorf("typescript: method %s: parameter %s: %w", key, p.Name, err)
		}
		node.Params = append(node.Params, &ast.Parameter{
			Decorators: decorators(p.Decorators),
			Name:       p.Name,
			Optional:   p.Optional,
			Type:       typ,
			Default:    p.Default,
		})
	}
	if withBody {
		node.Body = &ast.Raw{Text: m.Body, Block: true}
	}
	return node, nil
}
