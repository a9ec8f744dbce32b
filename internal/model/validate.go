package model

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/electwix/ts-catalyst/internal/model/typeexpr"
)

var accessLevels = map[string]struct{}{
	"":          {},
	"public":    {},
	"private":   {},
	"protected": {},
}

// validateModule checks that name, used as the output file path below the
// output directory, cannot leave it.
func validateModule(name string, pos Pos) error {
	switch {
	case name == "":
		return errorAt(pos, "module name is empty")
	case strings.Contains(name, `\`):
		return errorAt(pos, "module %q must use forward slashes", name)
	case path.IsAbs(name) || filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return errorAt(pos, "module %q must be a relative path", name)
	case slices.Contains(strings.Split(name, "/"), ".."):
		return errorAt(pos, "module %q must not contain .. segments", name)
	case path.Clean(name) != name:
		return errorAt(pos, "module %q is not a clean path", name)
	}
	return nil
}

func (d *Document) validate() error {
	if err := validateModule(d.Module, d.ModulePos); err != nil {
		return err
	}
	for _, imp := range d.Imports {
		if imp.From == "" {
			return errorAt(imp.Pos, "import without source")
		}
		if len(imp.Names) == 0 {
			return errorAt(imp.Pos, "import from %q names nothing", imp.From)
		}
	}

	seen := make(map[string]Pos)
	declare := func(name string, pos Pos) error {
		if name == "" {
			return errorAt(pos, "type declared without a name")
		}
		if prev, ok := seen[name]; ok {
			return errorAt(pos, "type %q already declared at line %d", name, prev.Line)
		}
		seen[name] = pos
		return nil
	}

	for _, c := range d.Classes {
		if err := declare(c.Name, c.Pos); err != nil {
			return err
		}
		if err := validateTypes(c.Pos, c.Extends); err != nil {
			return err
		}
		if err := validateTypes(c.Pos, c.Implements...); err != nil {
			return err
		}
		if err := validateDecorators(c.Decorators); err != nil {
			return err
		}
		if err := validateMembers(c.Name, c.Fields, c.Methods); err != nil {
			return err
		}
	}
	for _, i := range d.Interfaces {
		if err := declare(i.Name, i.Pos); err != nil {
			return err
		}
		if err := validateTypes(i.Pos, i.Extends...); err != nil {
			return err
		}
		if err := validateMembers(i.Name, i.Fields, i.Methods); err != nil {
			return err
		}
	}
	for _, e := range d.Enums {
		if err := declare(e.Name, e.Pos); err != nil {
			return err
		}
		names := make(map[string]struct{}, len(e.Values))
		for _, v := range e.Values {
			if v.Name == "" {
				return errorAt(v.Pos, "enum %s: value without a name", e.Name)
			}
			if _, dup := names[v.Name]; dup {
				return errorAt(v.Pos, "enum %s: duplicate value %q", e.Name, v.Name)
			}
			names[v.Name] = struct{}{}
		}
	}
	return nil
}

func validateMembers(owner string, fields []*Field, methods []*Method) error {
	names := make(map[string]struct{}, len(fields)+len(methods))
	member := func(name, access string, pos Pos) error {
		if name == "" {
			return errorAt(pos, "%s: member without a name", owner)
		}
		if _, dup := names[name]; dup {
			return errorAt(pos, "%s: duplicate member %q", owner, name)
		}
		if _, ok := accessLevels[access]; !ok {
			return errorAt(pos, "%s.%s: unknown access level %q", owner, name, access)
		}
		names[name] = struct{}{}
		return nil
	}

	for _, f := range fields {
		if err := member(f.Name, f.Access, f.Pos); err != nil {
			return err
		}
		if f.Type == "" {
			return errorAt(f.Pos, "%s.%s: field without a type", owner, f.Name)
		}
		if err := validateTypes(f.Pos, f.Type); err != nil {
			return err
		}
		if err := validateDecorators(f.Decorators); err != nil {
			return err
		}
	}
	for _, m := range methods {
		if err := member(m.Name, m.Access, m.Pos); err != nil {
			return err
		}
		if err := validateTypes(m.Pos, m.Returns); err != nil {
			return err
		}
		if err := validateDecorators(m.Decorators); err != nil {
			return err
		}
		params := make(map[string]struct{}, len(m.Params))
		for _, p := range m.Params {
			if p.Name == "" {
				return errorAt(p.Pos, "%s.%s: parameter without a name", owner, m.Name)
			}
			if _, dup := params[p.Name]; dup {
				return errorAt(p.Pos, "%s.%s: duplicate parameter %q", owner, m.Name, p.Name)
			}
			params[p.Name] = struct{}{}
			if err := validateTypes(p.Pos, p.Type); err != nil {
				return err
			}
			if err := validateDecorators(p.Decorators); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateTypes checks that every non-empty expression parses.
func validateTypes(pos Pos, exprs ...string) error {
	for _, src := range exprs {
		if src == "" {
			continue
		}
		if _, err := typeexpr.Parse(src); err != nil {
			return errorAt(pos, "%v", err)
		}
	}
	return nil
}

func validateDecorators(ds []*Decorator) error {
	for _, d := range ds {
		if d.Name == "" {
			return errorAt(d.Pos, "decorator without a name")
		}
	}
	return nil
}
