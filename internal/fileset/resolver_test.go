package fileset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"testing/fstest"
)

func TestResolverResolveSuccess(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"models/user.yaml":         &fstest.MapFile{Mode: fs.ModePerm},
		"models/role.yaml":         &fstest.MapFile{Mode: fs.ModePerm},
		"shared/address.yaml":      &fstest.MapFile{Mode: fs.ModePerm},
		"shared/money.yaml":        &fstest.MapFile{Mode: fs.ModePerm},
		"shared/geo.yaml":          &fstest.MapFile{Mode: fs.ModePerm},
		"shared/legacy/point.yaml": &fstest.MapFile{Mode: fs.ModePerm},
	}

	resolver := NewResolver(fsys)
	patterns := []string{
		"shared/*.yaml",
		"models/*.yaml",
		"shared/address.yaml",
	}

	paths, err := resolver.Resolve(patterns)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	expected := []string{
		"models/role.yaml",
		"models/user.yaml",
		"shared/address.yaml",
		"shared/geo.yaml",
		"shared/money.yaml",
	}

	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d (%v)", len(expected), len(paths), paths)
	}

	for i, want := range expected {
		if paths[i] != want {
			t.Fatalf("unexpected path at %d: want %q, got %q", i, want, paths[i])
		}
	}
}

func TestResolverResolveNoMatches(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"models/user.yaml": &fstest.MapFile{Mode: fs.ModePerm},
	}

	resolver := NewResolver(fsys)
	patterns := []string{
		"shared/*.yaml",
		"models/nope.yaml",
	}

	_, err := resolver.Resolve(patterns)
	if err == nil {
		t.Fatal("expected error for missing patterns")
	}

	var noMatchErr NoMatchError
	if !errors.As(err, &noMatchErr) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}

	if len(noMatchErr.Patterns) != 2 {
		t.Fatalf("unexpected patterns length: %v", noMatchErr.Patterns)
	}

	if noMatchErr.Patterns[0] != "shared/*.yaml" || noMatchErr.Patterns[1] != "models/nope.yaml" {
		t.Fatalf("unexpected missing patterns: %v", noMatchErr.Patterns)
	}
}

func TestResolverResolveInvalidPattern(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(fstest.MapFS{})

	_, err := resolver.Resolve([]string{"["})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}

	var patternErr PatternError
	if !errors.As(err, &patternErr) {
		t.Fatalf("expected PatternError, got %T: %v", err, err)
	}

	if patternErr.Pattern != "[" {
		t.Fatalf("unexpected pattern on error: %q", patternErr.Pattern)
	}
}

func TestResolverResolveNoPatterns(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(fstest.MapFS{})

	_, err := resolver.Resolve(nil)
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("expected ErrNoPatterns, got %v", err)
	}
}

func TestResolverResolveExclusions(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(fstest.MapFS{
		"models/user.yaml":  &fstest.MapFile{Mode: fs.ModePerm},
		"models/draft.yaml": &fstest.MapFile{Mode: fs.ModePerm},
	})

	paths, err := resolver.Resolve([]string{"!models/draft.yaml", "models/*.yaml"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(paths) != 1 || paths[0] != "models/user.yaml" {
		t.Fatalf("unexpected paths: %v", paths)
	}

	_, err = resolver.Resolve([]string{"models/*.yaml", "!models/*"})
	var noMatchErr NoMatchError
	if !errors.As(err, &noMatchErr) {
		t.Fatalf("expected NoMatchError when everything is excluded, got %v", err)
	}

	if _, err := resolver.Resolve([]string{"!models/*.yaml"}); !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("expected ErrNoPatterns for exclusions only, got %v", err)
	}

	var patternErr PatternError
	if _, err := resolver.Resolve([]string{"models/*.yaml", "![x"}); !errors.As(err, &patternErr) {
		t.Fatalf("expected PatternError for bad exclusion, got %v", err)
	}
}

func TestOSResolverReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(dir, "models", "user.yaml")
	if err := os.WriteFile(target, []byte("module: user\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	resolver, err := NewOSResolver(dir)
	if err != nil {
		t.Fatalf("NewOSResolver returned error: %v", err)
	}
	paths, err := resolver.Resolve([]string{"models/*.yaml"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(paths) != 1 || !filepath.IsAbs(paths[0]) {
		t.Fatalf("unexpected paths: %v", paths)
	}
	data, err := resolver.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if string(data) != "module: user\n" {
		t.Fatalf("unexpected content %q", data)
	}
	if _, err := resolver.ReadFile(filepath.Join(filepath.Dir(dir), "elsewhere.yaml")); err == nil {
		t.Fatal("expected error reading outside the base directory")
	}
}
