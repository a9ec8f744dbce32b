// Package fileset resolves model glob patterns and reads the matched files.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Resolver resolves glob patterns against an fs.FS. Returned paths are
// rewritten by a join function and can be passed back to ReadFile.
type Resolver struct {
	fsys   fs.FS
	join   func(name string) string
	unjoin func(p string) (string, error)
}

// ErrNoPatterns indicates that Resolve was invoked without any glob patterns.
var ErrNoPatterns = errors.New("fileset: no patterns provided")

// PatternError wraps syntax issues reported while evaluating a glob pattern.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e PatternError) Unwrap() error { return e.Err }

// NoMatchError describes which patterns failed to yield any results.
type NoMatchError struct {
	Patterns []string
}

// Error implements the error interface.
func (e NoMatchError) Error() string {
	return "patterns matched no files: " + strings.Join(e.Patterns, ", ")
}

func identity(name string) string { return name }

// NewResolver constructs a Resolver against the provided filesystem without any
// path rewriting, preserving the original match names. Useful for tests.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{
		fsys:   fsys,
		join:   identity,
		unjoin: func(p string) (string, error) { return path.Clean(filepath.ToSlash(p)), nil },
	}
}

// NewOSResolver constructs a Resolver rooted at base that returns absolute OS
// paths for each match.
func NewOSResolver(base string) (Resolver, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("resolve base %q: %w", base, err)
	}

	info, err := os.Stat(absBase)
	if err != nil {
		return Resolver{}, fmt.Errorf("stat base %q: %w", absBase, err)
	}
	if !info.IsDir() {
		return Resolver{}, fmt.Errorf("base %q is not a directory", absBase)
	}

	return Resolver{
		fsys: os.DirFS(absBase),
		join: func(name string) string {
			return filepath.Join(absBase, filepath.FromSlash(name))
		},
		unjoin: func(p string) (string, error) {
			if !filepath.IsAbs(p) {
				return path.Clean(filepath.ToSlash(p)), nil
			}
			rel, err := filepath.Rel(absBase, p)
			if err != nil {
				return "", err
			}
			if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return "", fmt.Errorf("fileset: %s is outside %s", p, absBase)
			}
			return filepath.ToSlash(rel), nil
		},
	}, nil
}

// Resolve evaluates each glob pattern, accumulating matches, and returns a
// deterministically sorted list of de-duplicated paths. Patterns prefixed with
// "!" remove earlier and later matches instead of adding to them.
func (r Resolver) Resolve(patterns []string) ([]string, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}

	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	joinFn := r.join
	if joinFn == nil {
		joinFn = identity
	}

	var include, exclude []string
	for _, pattern := range patterns {
		if negated, ok := strings.CutPrefix(pattern, "!"); ok {
			exclude = append(exclude, filepath.ToSlash(negated))
			continue
		}
		include = append(include, pattern)
	}
	if len(include) == 0 {
		return nil, ErrNoPatterns
	}
	for _, pattern := range exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, PatternError{Pattern: "!" + pattern, Err: err}
		}
	}

	matched := make([]string, 0)
	missing := make([]string, 0)

	for _, pattern := range include {
		matches, err := fs.Glob(r.fsys, filepath.ToSlash(pattern))
		if err != nil {
			return nil, PatternError{Pattern: pattern, Err: err}
		}

		if len(matches) == 0 {
			missing = append(missing, pattern)
			continue
		}
		matched = append(matched, matches...)
	}

	if len(missing) > 0 {
		return nil, NoMatchError{Patterns: append([]string(nil), missing...)}
	}

	kept := slices.DeleteFunc(matched, func(name string) bool {
		return excluded(exclude, name)
	})
	if len(kept) == 0 {
		return nil, NoMatchError{Patterns: include}
	}

	out := make([]string, 0, len(kept))
	for _, name := range kept {
		out = append(out, joinFn(name))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func excluded(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ReadFile reads a path previously returned by Resolve.
func (r Resolver) ReadFile(p string) ([]byte, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}
	unjoin := r.unjoin
	if unjoin == nil {
		unjoin = func(p string) (string, error) { return p, nil }
	}
	name, err := unjoin(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("fileset: read %s: %w", p, err)
	}
	return data, nil
}
