// Package config loads and validates the ts-catalyst configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/electwix/ts-catalyst/internal/codegen/render"
	"github.com/electwix/ts-catalyst/internal/fileset"
	"github.com/electwix/ts-catalyst/internal/naming"
)

// NamingConfig captures the run-wide casing defaults.
type NamingConfig struct {
	CamelCaseMethods    bool `toml:"camel_case_methods"`
	CamelCaseProperties bool `toml:"camel_case_properties"`
}

// OutputConfig selects the emitted variants. Both default to true.
type OutputConfig struct {
	Full         *bool  `toml:"full"`
	Declarations *bool  `toml:"declarations"`
	Indent       string `toml:"indent"`
}

// OverrideConfig forces the casing of one member. Casing names a policy
// ("as-is", "camel", "pascal"); Camel and Pascal are the flag form.
type OverrideConfig struct {
	Type   string         `toml:"type"`
	Member string         `toml:"member"`
	Casing *naming.Policy `toml:"casing"`
	Camel  bool           `toml:"camel"`
	Pascal bool           `toml:"pascal"`
}

// Config mirrors the expected ts-catalyst TOML schema.
type Config struct {
	Out       string           `toml:"out"`
	Models    []string         `toml:"models"`
	Naming    NamingConfig     `toml:"naming"`
	Output    OutputConfig     `toml:"output"`
	Overrides []OverrideConfig `toml:"override"`
}

// JobPlan is the fully-resolved configuration used by downstream stages.
type JobPlan struct {
	Out       string
	Models    []string
	Naming    naming.GlobalPolicy
	Overrides naming.Overrides
	Modes     []render.Mode
	Indent    string
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict   bool
	Resolver *fileset.Resolver
}

// Result wraps a loaded job plan alongside any non-fatal warnings.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

var knownKeys = map[string][]string{
	"":         {"out", "models", "naming", "output", "override"},
	"naming":   {"camel_case_methods", "camel_case_properties"},
	"output":   {"full", "declarations", "indent"},
	"override": {"type", "member", "casing", "camel", "pascal"},
}

// Load reads, validates, and resolves a ts-catalyst configuration file.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	unknownKeys, err := collectUnknownKeys(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(unknownKeys) > 0 {
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknownKeys, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	out, err := resolveOut(path, cfg.Out)
	if err != nil {
		return res, err
	}

	modes, err := resolveModes(path, cfg.Output)
	if err != nil {
		return res, err
	}

	if strings.Trim(cfg.Output.Indent, " \t") != "" {
		return res, fmt.Errorf("%s: output.indent must contain only spaces or tabs", path)
	}

	overrides, err := resolveOverrides(path, cfg.Overrides)
	if err != nil {
		return res, err
	}

	var resolver fileset.Resolver
	if opts.Resolver != nil {
		resolver = *opts.Resolver
	} else {
		resolver, err = fileset.NewOSResolver(filepath.Dir(path))
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
	}

	models, err := resolvePatterns(resolver, "models", cfg.Models)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	res.Plan = JobPlan{
		Out:    out,
		Models: models,
		Naming: naming.GlobalPolicy{
			CamelCaseMethods:    cfg.Naming.CamelCaseMethods,
			CamelCaseProperties: cfg.Naming.CamelCaseProperties,
		},
		Overrides: overrides,
		Modes:     modes,
		Indent:    cfg.Output.Indent,
	}

	return res, nil
}

func collectUnknownKeys(data []byte) ([]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	unknown := unknownIn(raw, "")
	for _, section := range []string{"naming", "output"} {
		if table, ok := raw[section].(map[string]any); ok {
			unknown = append(unknown, unknownIn(table, section)...)
		}
	}
	if entries, ok := raw["override"].([]any); ok {
		for _, entry := range entries {
			if table, ok := entry.(map[string]any); ok {
				unknown = append(unknown, unknownIn(table, "override")...)
			}
		}
	}

	slices.Sort(unknown)
	return slices.Compact(unknown), nil
}

func unknownIn(table map[string]any, section string) []string {
	known := knownKeys[section]
	unknown := make([]string, 0)
	for key := range table {
		if slices.Contains(known, key) {
			continue
		}
		if section != "" {
			key = section + "." + key
		}
		unknown = append(unknown, key)
	}
	return unknown
}

func resolveOut(path, out string) (string, error) {
	if out == "" {
		return "", fmt.Errorf("%s: out is required", path)
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: out must be a relative path", path)
	}

	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: out must not traverse upwards", path)
	}

	baseDir := filepath.Dir(path)
	return filepath.Join(baseDir, cleaned), nil
}

func resolveModes(path string, output OutputConfig) ([]render.Mode, error) {
	enabled := func(flag *bool) bool { return flag == nil || *flag }
	modes := make([]render.Mode, 0, 2)
	if enabled(output.Full) {
		modes = append(modes, render.ModeFull)
	}
	if enabled(output.Declarations) {
		modes = append(modes, render.ModeDeclarationOnly)
	}
	if len(modes) == 0 {
		return nil, fmt.Errorf("%s: output must enable full or declarations", path)
	}
	return modes, nil
}

func resolveOverrides(path string, entries []OverrideConfig) (naming.Overrides, error) {
	table := make(naming.Overrides, len(entries))
	for i, entry := range entries {
		if entry.Type == "" || entry.Member == "" {
			return nil, fmt.Errorf("%s: override #%d: type and member are required", path, i+1)
		}
		key := naming.MemberKey{Type: entry.Type, Member: entry.Member}
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("%s: override %s declared more than once", path, key)
		}
		override := naming.MemberOverride{ForceCamel: entry.Camel, ForcePascal: entry.Pascal}
		if entry.Casing != nil {
			if entry.Camel || entry.Pascal {
				return nil, fmt.Errorf("%s: override %s: casing cannot be combined with camel or pascal", path, key)
			}
			override = naming.OverrideFor(*entry.Casing)
		}
		table[key] = override
	}
	return table, nil
}

func resolvePatterns(resolver fileset.Resolver, field string, patterns []string) ([]string, error) {
	paths, err := resolver.Resolve(patterns)
	if err != nil {
		switch {
		case errors.Is(err, fileset.ErrNoPatterns):
			return nil, fmt.Errorf("%s must include at least one pattern", field)
		default:
			var noMatchErr fileset.NoMatchError
			if errors.As(err, &noMatchErr) {
				return nil, fmt.Errorf("%s patterns matched no files: %s", field, strings.Join(noMatchErr.Patterns, ", "))
			}

			var patternErr fileset.PatternError
			if errors.As(err, &patternErr) {
				return nil, fmt.Errorf("%s: invalid glob pattern %q: %w", field, patternErr.Pattern, patternErr.Err)
			}

			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}

	return paths, nil
}
