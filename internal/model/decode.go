package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ParseError reports a problem in a model document.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", e.Line, e.Column)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(e.Message)
	return b.String()
}

func errorAt(pos Pos, format string, args ...any) *ParseError {
	return &ParseError{Line: pos.Line, Column: pos.Column, Message: fmt.Sprintf(format, args...)}
}

func nodePos(n *yaml.Node) Pos { return Pos{Line: n.Line, Column: n.Column} }

// Parse decodes and validates the model document stored at path.
func Parse(path string, data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Message: "empty model document"}
		}
		return nil, fromYAML(path, err)
	}
	doc.Path = path
	if doc.Module == "" {
		doc.Module = moduleName(path)
	}
	if err := doc.validate(); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return &doc, nil
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var yamlLine = regexp.MustCompile(`^(?:yaml: )?line (\d+): `)

func fromYAML(path string, err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		out := *pe
		out.Path = path
		return &out
	}
	msg := err.Error()
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	out := &ParseError{Path: path, Message: strings.TrimPrefix(msg, "yaml: ")}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		out.Line, _ = strconv.Atoi(m[1])
		out.Message = msg[len(m[0]):]
	}
	return out
}

var knownKeys sync.Map // reflect.Type -> map[string]struct{}

func yamlKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeys.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{})
	for i := range t.NumField() {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "inline") {
			for k := range yamlKeys(f.Type) {
				keys[k] = struct{}{}
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		keys[name] = struct{}{}
	}
	knownKeys.Store(t, keys)
	return keys
}

// decodeStrict decodes value into out, rejecting mapping keys out does not
// declare, and records the node position.
func decodeStrict(value *yaml.Node, out any, pos *Pos) error {
	if value.Kind == yaml.MappingNode {
		keys := yamlKeys(reflect.TypeOf(out).Elem())
		for i := 0; i+1 < len(value.Content); i += 2 {
			k := value.Content[i]
			if _, ok := keys[k.Value]; !ok {
				return errorAt(nodePos(k), "unknown key %q", k.Value)
			}
		}
	}
	if err := value.Decode(out); err != nil {
		return err
	}
	*pos = nodePos(value)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	type plain Document
	var pos Pos
	if err := decodeStrict(value, (*plain)(d), &pos); err != nil {
		return err
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "module" {
			d.ModulePos = nodePos(value.Content[i+1])
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Import) UnmarshalYAML(value *yaml.Node) error {
	type plain Import
	return decodeStrict(value, (*plain)(i), &i.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler. A bare scalar is accepted as
// a decorator without arguments.
func (d *Decorator) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Name = value.Value
		d.Pos = nodePos(value)
		return nil
	}
	type plain Decorator
	return decodeStrict(value, (*plain)(d), &d.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Class) UnmarshalYAML(value *yaml.Node) error {
	type plain Class
	return decodeStrict(value, (*plain)(c), &c.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Interface) UnmarshalYAML(value *yaml.Node) error {
	type plain Interface
	return decodeStrict(value, (*plain)(i), &i.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Enum) UnmarshalYAML(value *yaml.Node) error {
	type plain Enum
	return decodeStrict(value, (*plain)(e), &e.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler. A bare scalar is accepted as
// a value without initialiser.
func (v *EnumValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		v.Name = value.Value
		v.Pos = nodePos(value)
		return nil
	}
	type plain EnumValue
	return decodeStrict(value, (*plain)(v), &v.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	type plain Field
	return decodeStrict(value, (*plain)(f), &f.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Method) UnmarshalYAML(value *yaml.Node) error {
	type plain Method
	return decodeStrict(value, (*plain)(m), &m.Pos)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Param) UnmarshalYAML(value *yaml.Node) error {
	type plain Param
	return decodeStrict(value, (*plain)(p), &p.Pos)
}

// Literal is an enum initialiser in TypeScript notation. Numbers are
// normalised (`1.50` becomes `1.5`, `0x10` becomes `16`) and strings are
// single-quoted.
type Literal string

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Literal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errorAt(nodePos(value), "enum value must be a scalar")
	}
	switch value.ShortTag() {
	case "!!null":
		*l = ""
	case "!!int":
		n, err := strconv.ParseInt(value.Value, 0, 64)
		if err != nil {
			d, derr := decimal.NewFromString(value.Value)
			if derr != nil {
				return errorAt(nodePos(value), "invalid enum value %q: %v", value.Value, err)
			}
			*l = Literal(d.String())
			return nil
		}
		*l = Literal(decimal.NewFromInt(n).String())
	case "!!float":
		d, err := decimal.NewFromString(value.Value)
		if err != nil {
			return errorAt(nodePos(value), "invalid enum value %q", value.Value)
		}
		*l = Literal(d.String())
	case "!!str":
		*l = Literal("'" + quoteEscaper.Replace(value.Value) + "'")
	default:
		return errorAt(nodePos(value), "unsupported enum value %q", value.Value)
	}
	return nil
}
