// Package typeexpr parses TypeScript type expressions such as
// `string[]`, `Map<string, User>` and `User | null`.
package typeexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/electwix/ts-catalyst/internal/cache"
)

// ErrEmpty is returned for blank type expressions.
var ErrEmpty = errors.New("typeexpr: empty type expression")

// Expr is a parsed type expression. Exactly one of Name or Union is set.
// Parsed expressions are shared through the parse cache and must not be
// modified.
type Expr struct {
	Name  string
	Args  []*Expr
	Union []*Expr
	Array int
}

// String renders e back to TypeScript notation.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	if len(e.Union) > 0 {
		if e.Array > 0 {
			b.WriteByte('(')
		}
		for i, m := range e.Union {
			if i > 0 {
				b.WriteString(" | ")
			}
			m.write(b)
		}
		if e.Array > 0 {
			b.WriteByte(')')
		}
	} else {
		b.WriteString(e.Name)
		if len(e.Args) > 0 {
			b.WriteByte('<')
			for i, a := range e.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	}
	b.WriteString(strings.Repeat("[]", e.Array))
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type unionExpr struct {
	Members []*postfixExpr `@@ ( "|" @@ )*`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type postfixExpr struct {
	Primary *primaryExpr `@@`
	Arrays  []string     `@Array*`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type primaryExpr struct {
	Group   *unionExpr `  "(" @@ ")"`
	Literal *string    `| @String`
	Number  *string    `| @Number`
	Named   *namedExpr `| @@`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type namedExpr struct {
	Parts []string     `@Ident ( "." @Ident )*`
	Args  []*unionExpr `( "<" @@ ( "," @@ )* ">" )?`
}

//nolint:govet // Participle DSL uses unkeyed fields
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Whitespace", `[ \t\r\n]+`},
	{"String", `'[^']*'|"[^"]*"`},
	{"Number", `-?[0-9]+(\.[0-9]+)?`},
	{"Ident", `[A-Za-z_$][A-Za-z0-9_$]*`},
	{"Array", `\[\]`},
	{"Punct", `[<>|,().]`},
})

// Parser parses type expressions and caches the results per expression.
// It is safe for concurrent use.
type Parser struct {
	parser *participle.Parser[unionExpr]
	cache  *cache.Memory[*Expr]
}

// NewParser builds a Parser with an empty cache.
func NewParser() *Parser {
	parser, err := participle.Build[unionExpr](
		participle.Lexer(typeLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build type expression parser: %v", err))
	}
	return &Parser{parser: parser, cache: cache.NewMemory[*Expr]()}
}

// Parse parses src. Identical expressions are parsed once.
func (p *Parser) Parse(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmpty
	}
	return p.cache.GetOrCompute(src, func() (*Expr, error) {
		tree, err := p.parser.ParseString("", src)
		if err != nil {
			return nil, fmt.Errorf("typeexpr: parse %q: %w", src, err)
		}
		return tree.expr(), nil
	})
}

// Cached returns the number of distinct expressions held in the cache.
func (p *Parser) Cached() int { return p.cache.Len() }

var defaultParser = NewParser()

// Parse parses src with the shared package parser.
func Parse(src string) (*Expr, error) { return defaultParser.Parse(src) }

func (u *unionExpr) expr() *Expr {
	if len(u.Members) == 1 {
		return u.Members[0].expr()
	}
	out := &Expr{Union: make([]*Expr, 0, len(u.Members))}
	for _, m := range u.Members {
		out.Union = append(out.Union, m.expr())
	}
	return out
}

func (p *postfixExpr) expr() *Expr {
	e := p.Primary.expr()
	if len(p.Arrays) > 0 {
		e.Array += len(p.Arrays)
	}
	return e
}

func (p *primaryExpr) expr() *Expr {
	switch {
	case p.Group != nil:
		return p.Group.expr()
	case p.Literal != nil:
		return &Expr{Name: *p.Literal}
	case p.Number != nil:
		return &Expr{Name: *p.Number}
	default:
		return p.Named.expr()
	}
}

func (n *namedExpr) expr() *Expr {
	e := &Expr{Name: strings.Join(n.Parts, ".")}
	for _, a := range n.Args {
		e.Args = append(e.Args, a.expr())
	}
	return e
}
