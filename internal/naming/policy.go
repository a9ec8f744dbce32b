package naming

import (
	"fmt"
	"strings"
)

// Policy selects the casing applied to an identifier.
type Policy int

const (
	// AsIs leaves the identifier untouched.
	AsIs Policy = iota
	// Camel applies ToCamel.
	Camel
	// Pascal applies ToPascal.
	Pascal
)

func (p Policy) String() string {
	switch p {
	case AsIs:
		return "as-is"
	case Camel:
		return "camel"
	case Pascal:
		return "pascal"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the textual policy names used in configuration files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as-is", "asis", "none":
		return AsIs, nil
	case "camel", "camelcase":
		return Camel, nil
	case "pascal", "pascalcase":
		return Pascal, nil
	default:
		return AsIs, fmt.Errorf("naming: unknown casing policy %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Apply converts id according to the policy.
func (p Policy) Apply(id string) (string, error) {
	switch p {
	case Camel:
		return ToCamel(id)
	case Pascal:
		return ToPascal(id)
	default:
		return id, nil
	}
}

// GlobalPolicy holds the casing defaults of one export run.
type GlobalPolicy struct {
	CamelCaseMethods    bool
	CamelCaseProperties bool
}

// MemberOverride is attached to a single member and, when present, shadows
// GlobalPolicy entirely. An override with neither flag set keeps the raw name.
type MemberOverride struct {
	ForceCamel  bool
	ForcePascal bool
}

// Policy reports the casing the override selects. ForceCamel wins when both
// flags are set.
func (o MemberOverride) Policy() Policy {
	switch {
	case o.ForceCamel:
		return Camel
	case o.ForcePascal:
		return Pascal
	default:
		return AsIs
	}
}

// OverrideFor builds the override that selects p.
func OverrideFor(p Policy) MemberOverride {
	return MemberOverride{ForceCamel: p == Camel, ForcePascal: p == Pascal}
}
