package naming

import (
	"maps"

	"github.com/google/uuid"
)

// ExportContext carries the run-wide naming policy. One is created per export
// run and never mutated afterwards, so separate runs can resolve names
// concurrently.
type ExportContext struct {
	RunID  uuid.UUID
	Global GlobalPolicy
}

// NewExportContext returns a context for a fresh run.
func NewExportContext(global GlobalPolicy) *ExportContext {
	return &ExportContext{RunID: uuid.New(), Global: global}
}

// ResolveMethodName camel-cases raw when the run converts method names.
func ResolveMethodName(ctx *ExportContext, raw string) (string, error) {
	if ctx == nil || !ctx.Global.CamelCaseMethods {
		return raw, nil
	}
	return ToCamel(raw)
}

// ResolvePropertyName camel-cases raw when the run converts property names.
func ResolvePropertyName(ctx *ExportContext, raw string) (string, error) {
	if ctx == nil || !ctx.Global.CamelCaseProperties {
		return raw, nil
	}
	return ToCamel(raw)
}

// ResolveWithOverride applies a member override to raw.
func ResolveWithOverride(override MemberOverride, raw string) (string, error) {
	return override.Policy().Apply(raw)
}

// MemberKey identifies a member by its declaring type and raw name.
type MemberKey struct {
	Type   string
	Member string
}

func (k MemberKey) String() string {
	if k.Type == "" {
		return k.Member
	}
	return k.Type + "." + k.Member
}

// Overrides maps member identities to their casing overrides. It is built
// during setup and only read while resolving.
type Overrides map[MemberKey]MemberOverride

// Lookup returns the override registered for key.
func (o Overrides) Lookup(key MemberKey) (MemberOverride, bool) {
	override, ok := o[key]
	return override, ok
}

// Merge returns a new table holding o's entries replaced by other's where
// both define the same member.
func (o Overrides) Merge(other Overrides) Overrides {
	merged := make(Overrides, len(o)+len(other))
	maps.Copy(merged, o)
	maps.Copy(merged, other)
	return merged
}

// Resolver resolves member names for one run. The zero Overrides value is
// valid and means no member carries an override.
type Resolver struct {
	Context   *ExportContext
	Overrides Overrides
}

// Method resolves the exported name of a method.
func (r Resolver) Method(key MemberKey, raw string) (string, error) {
	if override, ok := r.Overrides.Lookup(key); ok {
		return ResolveWithOverride(override, raw)
	}
	return ResolveMethodName(r.Context, raw)
}

// Property resolves the exported name of a field or property.
func (r Resolver) Property(key MemberKey, raw string) (string, error) {
	if override, ok := r.Overrides.Lookup(key); ok {
		return ResolveWithOverride(override, raw)
	}
	return ResolvePropertyName(r.Context, raw)
}
