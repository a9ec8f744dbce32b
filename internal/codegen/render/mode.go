package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/electwix/ts-catalyst/internal/codegen/ast"
)

// Mode selects the output variant of a render pass.
type Mode int

const (
	// ModeFull renders every node.
	ModeFull Mode = iota
	// ModeDeclarationOnly renders an ambient declaration file: everything
	// ModeFull renders except decorators.
	ModeDeclarationOnly
)

// suppressedKinds lists, per mode, the node kinds dropped from the output.
// A new variant is a new Mode plus its entry here.
var suppressedKinds = map[Mode][]ast.Kind{
	ModeFull:            nil,
	ModeDeclarationOnly: {ast.KindDecorator},
}

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeDeclarationOnly:
		return "declarations"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "ts":
		return ModeFull, nil
	case "declarations", "declaration", "d.ts", "dts":
		return ModeDeclarationOnly, nil
	default:
		return ModeFull, fmt.Errorf("render: unknown mode %q", s)
	}
}

// Suppressed returns the node kinds the mode drops.
func (m Mode) Suppressed() []ast.Kind {
	return slices.Clone(suppressedKinds[m])
}

// Extension returns the file suffix conventionally used for the mode.
func (m Mode) Extension() string {
	if m == ModeDeclarationOnly {
		return ".d.ts"
	}
	return ".ts"
}

// Filter wraps a base Visitor and drops nodes of the suppressed kinds. A
// dropped node is neither emitted nor descended into.
type Filter struct {
	Base     Visitor
	suppress map[ast.Kind]struct{}
}

// Restrict returns a Filter over base that drops the given kinds.
func Restrict(base Visitor, kinds ...ast.Kind) *Filter {
	suppress := make(map[ast.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		suppress[k] = struct{}{}
	}
	return &Filter{Base: base, suppress: suppress}
}

// NewFilter returns a Filter over base implementing mode.
func NewFilter(mode Mode, base Visitor) *Filter {
	return Restrict(base, mode.Suppressed()...)
}

// Suppresses reports whether nodes of kind k are dropped.
func (f *Filter) Suppresses(k ast.Kind) bool {
	_, ok := f.suppress[k]
	return ok
}

// Visit implements Visitor.
func (f *Filter) Visit(node ast.Node) error {
	if node != nil && f.Suppresses(node.Kind()) {
		return nil
	}
	return f.Base.Visit(node)
}
