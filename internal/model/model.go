// Package model decodes object-model descriptions from YAML.
//
// A document lists the classes, interfaces and enums of one TypeScript
// module:
//
//	module: user
//	imports:
//	  - from: "@angular/core"
//	    names: [Component, Input]
//	classes:
//	  - name: UserCard
//	    export: true
//	    decorators:
//	      - name: Component
//	        args: ["{ selector: 'app-user' }"]
//	    fields:
//	      - name: UserName
//	        type: string
//	    methods:
//	      - name: GetName
//	        returns: string
//	        pascal: true
//
// Members may carry `camel: true` or `pascal: true` to force the casing of
// their emitted identifier regardless of the run's global policy.
package model

import (
	"strings"

	"github.com/electwix/ts-catalyst/internal/naming"
)

// Pos is a 1-based position within a model document.
type Pos struct {
	Line   int
	Column int
}

// Document is one decoded model file.
type Document struct {
	Path       string       `yaml:"-"`
	Module     string       `yaml:"module"`
	Imports    []*Import    `yaml:"imports"`
	Classes    []*Class     `yaml:"classes"`
	Interfaces []*Interface `yaml:"interfaces"`
	Enums      []*Enum      `yaml:"enums"`
	// ModulePos locates the module key; zero when the name defaults to
	// the file name.
	ModulePos Pos `yaml:"-"`
}

// Import is a named import emitted at the top of the module.
type Import struct {
	From  string   `yaml:"from"`
	Names []string `yaml:"names"`
	Pos   Pos      `yaml:"-"`
}

// Decorator annotates a class, member or parameter. Args are emitted
// verbatim.
type Decorator struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
	Pos  Pos      `yaml:"-"`
}

// Casing holds the per-member casing attributes.
type Casing struct {
	Camel  bool `yaml:"camel"`
	Pascal bool `yaml:"pascal"`
}

// Override returns the member override the attributes describe and whether
// any attribute is set.
func (c Casing) Override() (naming.MemberOverride, bool) {
	o := naming.MemberOverride{ForceCamel: c.Camel, ForcePascal: c.Pascal}
	return o, c.Camel || c.Pascal
}

// Class describes a TypeScript class.
type Class struct {
	Name       string       `yaml:"name"`
	Doc        string       `yaml:"doc"`
	Export     bool         `yaml:"export"`
	Abstract   bool         `yaml:"abstract"`
	Extends    string       `yaml:"extends"`
	Implements []string     `yaml:"implements"`
	Decorators []*Decorator `yaml:"decorators"`
	Fields     []*Field     `yaml:"fields"`
	Methods    []*Method    `yaml:"methods"`
	Pos        Pos          `yaml:"-"`
}

// Interface describes a TypeScript interface.
type Interface struct {
	Name    string    `yaml:"name"`
	Doc     string    `yaml:"doc"`
	Export  bool      `yaml:"export"`
	Extends []string  `yaml:"extends"`
	Fields  []*Field  `yaml:"fields"`
	Methods []*Method `yaml:"methods"`
	Pos     Pos       `yaml:"-"`
}

// Enum describes a TypeScript enum.
type Enum struct {
	Name   string       `yaml:"name"`
	Doc    string       `yaml:"doc"`
	Export bool         `yaml:"export"`
	Const  bool         `yaml:"const"`
	Values []*EnumValue `yaml:"values"`
	Pos    Pos          `yaml:"-"`
}

// EnumValue is one enum member. Value is the normalised initialiser, empty
// when the member has none.
type EnumValue struct {
	Name  string  `yaml:"name"`
	Doc   string  `yaml:"doc"`
	Value Literal `yaml:"value"`
	Pos   Pos     `yaml:"-"`
}

// Field is a property of a class or interface.
type Field struct {
	Name       string       `yaml:"name"`
	Doc        string       `yaml:"doc"`
	Type       string       `yaml:"type"`
	Access     string       `yaml:"access"`
	Static     bool         `yaml:"static"`
	Readonly   bool         `yaml:"readonly"`
	Optional   bool         `yaml:"optional"`
	Decorators []*Decorator `yaml:"decorators"`
	Casing     `yaml:",inline"`
	Pos        Pos `yaml:"-"`
}

// Method is a method of a class or interface. Body is only emitted for
// classes.
type Method struct {
	Name       string       `yaml:"name"`
	Doc        string       `yaml:"doc"`
	Access     string       `yaml:"access"`
	Static     bool         `yaml:"static"`
	Params     []*Param     `yaml:"params"`
	Returns    string       `yaml:"returns"`
	Body       string       `yaml:"body"`
	Decorators []*Decorator `yaml:"decorators"`
	Casing     `yaml:",inline"`
	Pos        Pos `yaml:"-"`
}

// Param is a method parameter.
type Param struct {
	Name       string       `yaml:"name"`
	Type       string       `yaml:"type"`
	Optional   bool         `yaml:"optional"`
	Default    string       `yaml:"default"`
	Decorators []*Decorator `yaml:"decorators"`
	Pos        Pos          `yaml:"-"`
}

// DocLines splits a doc string into comment lines.
func DocLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}

// Types returns the names of every class, interface and enum in the
// document.
func (d *Document) Types() []string {
	names := make([]string, 0, len(d.Classes)+len(d.Interfaces)+len(d.Enums))
	for _, c := range d.Classes {
		names = append(names, c.Name)
	}
	for _, i := range d.Interfaces {
		names = append(names, i.Name)
	}
	for _, e := range d.Enums {
		names = append(names, e.Name)
	}
	return names
}
