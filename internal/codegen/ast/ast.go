// Package ast defines the syntax tree the TypeScript renderer consumes.
package ast

import "fmt"

// Kind tags every node with its category. The set is closed.
type Kind int

const (
	KindModule Kind = iota
	KindComment
	KindImport
	KindClass
	KindInterface
	KindEnum
	KindEnumValue
	KindField
	KindMethod
	KindParameter
	KindTypeRef
	KindDecorator
	KindRaw
)

var kindNames = [...]string{
	KindModule:    "module",
	KindComment:   "comment",
	KindImport:    "import",
	KindClass:     "class",
	KindInterface: "interface",
	KindEnum:      "enum",
	KindEnumValue: "enum-value",
	KindField:     "field",
	KindMethod:    "method",
	KindParameter: "parameter",
	KindTypeRef:   "type-ref",
	KindDecorator: "decorator",
	KindRaw:       "raw",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is implemented by every element of the tree.
type Node interface {
	Kind() Kind
	// Children returns the direct descendants in rendering order.
	Children() []Node
}

// Access is a member visibility modifier. The zero value emits nothing.
type Access string

const (
	AccessDefault   Access = ""
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
)

// Module is the root of one output file.
type Module struct {
	Name string
	Body []Node
}

// Comment is a documentation comment attached to the declaration after it.
type Comment struct {
	Lines []string
}

// Import names symbols brought in from another module.
type Import struct {
	Names []string
	From  string
}

// Decorator is annotation-like metadata preceding a class, member or
// parameter. Args are rendered comma separated inside parentheses.
type Decorator struct {
	Name string
	Args []Node
}

// TypeRef references a type. A non-empty Union takes precedence over Name.
type TypeRef struct {
	Name  string
	Args  []*TypeRef
	Union []*TypeRef
	// Array is the number of trailing [] suffixes.
	Array int
}

// Class is a class declaration.
type Class struct {
	Doc        *Comment
	Decorators []*Decorator
	Name       string
	Export     bool
	Abstract   bool
	Extends    *TypeRef
	Implements []*TypeRef
	Members    []Node
}

// Interface is an interface declaration.
type Interface struct {
	Doc     *Comment
	Name    string
	Export  bool
	Extends []*TypeRef
	Members []Node
}

// Enum is an enum declaration.
type Enum struct {
	Doc    *Comment
	Name   string
	Export bool
	Const  bool
	Values []*EnumValue
}

// EnumValue is one enum member. Value is the initializer text, if any.
type EnumValue struct {
	Doc   *Comment
	Name  string
	Value string
}

// Field is a property of a class or interface.
type Field struct {
	Doc        *Comment
	Decorators []*Decorator
	Access     Access
	Static     bool
	Readonly   bool
	Name       string
	Optional   bool
	Type       *TypeRef
}

// Method is a method of a class or interface. A nil Body renders a
// signature terminated by a semicolon.
type Method struct {
	Doc        *Comment
	Decorators []*Decorator
	Access     Access
	Static     bool
	Name       string
	Params     []*Parameter
	Returns    *TypeRef
	Body       *Raw
}

// Parameter is a method parameter.
type Parameter struct {
	Decorators []*Decorator
	Name       string
	Optional   bool
	Type       *TypeRef
	Default    string
}

// Raw is verbatim text. Block text is written line by line at the current
// indentation; otherwise it is written inline.
type Raw struct {
	Text  string
	Block bool
}

func (*Module) Kind() Kind    { return KindModule }
func (*Comment) Kind() Kind   { return KindComment }
func (*Import) Kind() Kind    { return KindImport }
func (*Decorator) Kind() Kind { return KindDecorator }
func (*TypeRef) Kind() Kind   { return KindTypeRef }
func (*Class) Kind() Kind     { return KindClass }
func (*Interface) Kind() Kind { return KindInterface }
func (*Enum) Kind() Kind      { return KindEnum }
func (*EnumValue) Kind() Kind { return KindEnumValue }
func (*Field) Kind() Kind     { return KindField }
func (*Method) Kind() Kind    { return KindMethod }
func (*Parameter) Kind() Kind { return KindParameter }
func (*Raw) Kind() Kind       { return KindRaw }

func (n *Module) Children() []Node    { return n.Body }
func (*Comment) Children() []Node     { return nil }
func (*Import) Children() []Node      { return nil }
func (n *Decorator) Children() []Node { return n.Args }
func (*Raw) Children() []Node         { return nil }

func (n *TypeRef) Children() []Node {
	if len(n.Union) > 0 {
		return typeNodes(n.Union)
	}
	return typeNodes(n.Args)
}

func (n *Class) Children() []Node {
	out := docAndDecorators(n.Doc, n.Decorators)
	if n.Extends != nil {
		out = append(out, n.Extends)
	}
	out = append(out, typeNodes(n.Implements)...)
	return append(out, n.Members...)
}

func (n *Interface) Children() []Node {
	out := docAndDecorators(n.Doc, nil)
	out = append(out, typeNodes(n.Extends)...)
	return append(out, n.Members...)
}

func (n *Enum) Children() []Node {
	out := docAndDecorators(n.Doc, nil)
	for _, v := range n.Values {
		out = append(out, v)
	}
	return out
}

func (n *EnumValue) Children() []Node { return docAndDecorators(n.Doc, nil) }

func (n *Field) Children() []Node {
	out := docAndDecorators(n.Doc, n.Decorators)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

func (n *Method) Children() []Node {
	out := docAndDecorators(n.Doc, n.Decorators)
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.Returns != nil {
		out = append(out, n.Returns)
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

func (n *Parameter) Children() []Node {
	out := docAndDecorators(nil, n.Decorators)
	if n.Type != nil {
		out = append(out, n.Type)
	}
	return out
}

func docAndDecorators(doc *Comment, decorators []*Decorator) []Node {
	out := make([]Node, 0, len(decorators)+1)
	if doc != nil {
		out = append(out, doc)
	}
	for _, d := range decorators {
		out = append(out, d)
	}
	return out
}

func typeNodes(refs []*TypeRef) []Node {
	out := make([]Node, 0, len(refs))
	for _, r := range refs {
		out = append(out, r)
	}
	return out
}
