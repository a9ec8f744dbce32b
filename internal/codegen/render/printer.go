package render

import (
	"fmt"
	"strings"

	"github.com/electwix/ts-catalyst/internal/codegen/ast"
)

// Visitor renders a single node.
type Visitor interface {
	Visit(node ast.Node) error
}

// DefaultTab is the indentation unit used when none is configured.
const DefaultTab = "    "

// Printer is the full TypeScript traversal. Children are visited through
// Dispatch, which defaults to the Printer itself, so a wrapping Visitor sees
// every descendant and not just the root.
type Printer struct {
	Dispatch Visitor

	w      *textWriter
	inline int
}

// NewPrinter returns a Printer indenting with tab.
func NewPrinter(tab string) *Printer {
	if tab == "" {
		tab = DefaultTab
	}
	return &Printer{w: newTextWriter(tab)}
}

// Bytes returns the text rendered so far.
func (p *Printer) Bytes() []byte { return p.w.bytes() }

func (p *Printer) dispatch(node ast.Node) error {
	if p.Dispatch != nil {
		return p.Dispatch.Visit(node)
	}
	return p.Visit(node)
}

// list renders nodes, writing sep only between nodes that produced output.
func (p *Printer) list(nodes []ast.Node, sep string) error {
	wrote := false
	for _, node := range nodes {
		if wrote {
			p.w.separate(sep)
		}
		mark := p.w.len()
		if err := p.dispatch(node); err != nil {
			return err
		}
		if p.w.len() > mark {
			wrote = true
		} else {
			p.w.dropSeparator()
		}
	}
	return nil
}

func (p *Printer) each(nodes []ast.Node) error {
	for _, node := range nodes {
		if err := p.dispatch(node); err != nil {
			return err
		}
	}
	return nil
}

// Visit implements Visitor.
func (p *Printer) Visit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Module:
		return p.module(n)
	case *ast.Comment:
		p.comment(n)
		return nil
	case *ast.Import:
		p.w.line(fmt.Sprintf("import { %s } from '%s';", strings.Join(n.Names, ", "), n.From))
		return nil
	case *ast.Decorator:
		return p.decorator(n)
	case *ast.TypeRef:
		return p.typeRef(n)
	case *ast.Class:
		return p.class(n)
	case *ast.Interface:
		return p.iface(n)
	case *ast.Enum:
		return p.enum(n)
	case *ast.EnumValue:
		return p.enumValue(n)
	case *ast.Field:
		return p.field(n)
	case *ast.Method:
		return p.method(n)
	case *ast.Parameter:
		return p.parameter(n)
	case *ast.Raw:
		p.raw(n)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("render: unsupported node %T", node)
	}
}

func (p *Printer) module(n *ast.Module) error {
	return p.list(n.Body, "\n")
}

func (p *Printer) comment(n *ast.Comment) {
	switch len(n.Lines) {
	case 0:
		return
	case 1:
		p.w.line("/** " + n.Lines[0] + " */")
	default:
		p.w.line("/**")
		for _, l := range n.Lines {
			if l == "" {
				p.w.line(" *")
				continue
			}
			p.w.line(" * " + l)
		}
		p.w.line(" */")
	}
}

func (p *Printer) decorator(n *ast.Decorator) error {
	p.w.write("@" + n.Name + "(")
	p.inline++
	err := p.list(n.Args, ", ")
	p.inline--
	if err != nil {
		return err
	}
	if p.inline > 0 {
		p.w.write(") ")
	} else {
		p.w.line(")")
	}
	return nil
}

func (p *Printer) typeRef(n *ast.TypeRef) error {
	if len(n.Union) > 0 {
		if n.Array > 0 {
			p.w.write("(")
		}
		if err := p.list(typeList(n.Union), " | "); err != nil {
			return err
		}
		if n.Array > 0 {
			p.w.write(")")
		}
	} else {
		p.w.write(n.Name)
		if len(n.Args) > 0 {
			p.w.write("<")
			if err := p.list(typeList(n.Args), ", "); err != nil {
				return err
			}
			p.w.write(">")
		}
	}
	p.w.write(strings.Repeat("[]", n.Array))
	return nil
}

func (p *Printer) doc(doc *ast.Comment) error {
	if doc == nil {
		return nil
	}
	return p.dispatch(doc)
}

func (p *Printer) decorators(ds []*ast.Decorator) error {
	for _, d := range ds {
		if err := p.dispatch(d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) class(n *ast.Class) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	if err := p.decorators(n.Decorators); err != nil {
		return err
	}
	var head strings.Builder
	if n.Export {
		head.WriteString("export ")
	}
	if n.Abstract {
		head.WriteString("abstract ")
	}
	head.WriteString("class " + n.Name)
	p.w.write(head.String())
	if n.Extends != nil {
		p.w.write(" extends ")
		if err := p.dispatch(n.Extends); err != nil {
			return err
		}
	}
	if len(n.Implements) > 0 {
		p.w.write(" implements ")
		if err := p.list(typeList(n.Implements), ", "); err != nil {
			return err
		}
	}
	return p.body(n.Members)
}

func (p *Printer) iface(n *ast.Interface) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	head := "interface " + n.Name
	if n.Export {
		head = "export " + head
	}
	p.w.write(head)
	if len(n.Extends) > 0 {
		p.w.write(" extends ")
		if err := p.list(typeList(n.Extends), ", "); err != nil {
			return err
		}
	}
	return p.body(n.Members)
}

func (p *Printer) body(members []ast.Node) error {
	p.w.line(" {")
	p.w.indent()
	err := p.each(members)
	p.w.outdent()
	if err != nil {
		return err
	}
	p.w.line("}")
	return nil
}

func (p *Printer) enum(n *ast.Enum) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	var head strings.Builder
	if n.Export {
		head.WriteString("export ")
	}
	if n.Const {
		head.WriteString("const ")
	}
	head.WriteString("enum " + n.Name)
	p.w.write(head.String())
	values := make([]ast.Node, 0, len(n.Values))
	for _, v := range n.Values {
		values = append(values, v)
	}
	return p.body(values)
}

func (p *Printer) enumValue(n *ast.EnumValue) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	if n.Value != "" {
		p.w.line(n.Name + " = " + n.Value + ",")
		return nil
	}
	p.w.line(n.Name + ",")
	return nil
}

func modifiers(access ast.Access, static, readonly bool) string {
	var b strings.Builder
	if access != ast.AccessDefault {
		b.WriteString(string(access) + " ")
	}
	if static {
		b.WriteString("static ")
	}
	if readonly {
		b.WriteString("readonly ")
	}
	return b.String()
}

func (p *Printer) field(n *ast.Field) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	if err := p.decorators(n.Decorators); err != nil {
		return err
	}
	name := n.Name
	if n.Optional {
		name += "?"
	}
	p.w.write(modifiers(n.Access, n.Static, n.Readonly) + name)
	if n.Type != nil {
		p.w.write(": ")
		if err := p.dispatch(n.Type); err != nil {
			return err
		}
	}
	p.w.line(";")
	return nil
}

func (p *Printer) method(n *ast.Method) error {
	if err := p.doc(n.Doc); err != nil {
		return err
	}
	if err := p.decorators(n.Decorators); err != nil {
		return err
	}
	p.w.write(modifiers(n.Access, n.Static, false) + n.Name + "(")
	params := make([]ast.Node, 0, len(n.Params))
	for _, param := range n.Params {
		params = append(params, param)
	}
	p.inline++
	err := p.list(params, ", ")
	p.inline--
	if err != nil {
		return err
	}
	p.w.write(")")
	if n.Returns != nil {
		p.w.write(": ")
		if err := p.dispatch(n.Returns); err != nil {
			return err
		}
	}
	if n.Body == nil {
		p.w.line(";")
		return nil
	}
	p.w.line(" {")
	p.w.indent()
	err = p.dispatch(n.Body)
	p.w.outdent()
	if err != nil {
		return err
	}
	p.w.line("}")
	return nil
}

func (p *Printer) parameter(n *ast.Parameter) error {
	if err := p.decorators(n.Decorators); err != nil {
		return err
	}
	name := n.Name
	if n.Optional && n.Default == "" {
		name += "?"
	}
	p.w.write(name)
	if n.Type != nil {
		p.w.write(": ")
		if err := p.dispatch(n.Type); err != nil {
			return err
		}
	}
	if n.Default != "" {
		p.w.write(" = " + n.Default)
	}
	return nil
}

func (p *Printer) raw(n *ast.Raw) {
	if !n.Block {
		p.w.write(n.Text)
		return
	}
	if strings.TrimSpace(n.Text) == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(n.Text, "\n"), "\n") {
		p.w.line(l)
	}
}

func typeList(refs []*ast.TypeRef) []ast.Node {
	out := make([]ast.Node, 0, len(refs))
	for _, r := range refs {
		out = append(out, r)
	}
	return out
}
