// Package pipeline orchestrates an export run: load the configuration, parse
// the model documents, resolve member names for the run, render the full and
// declaration variants and write them out.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/electwix/ts-catalyst/internal/cache"
	"github.com/electwix/ts-catalyst/internal/codegen"
	"github.com/electwix/ts-catalyst/internal/codegen/render"
	"github.com/electwix/ts-catalyst/internal/config"
	"github.com/electwix/ts-catalyst/internal/diagnostics"
	"github.com/electwix/ts-catalyst/internal/fileset"
	"github.com/electwix/ts-catalyst/internal/logging"
	"github.com/electwix/ts-catalyst/internal/model"
	"github.com/electwix/ts-catalyst/internal/naming"
)

// DefaultConfigPath is used when RunOptions.ConfigPath is empty.
const DefaultConfigPath = "ts-catalyst.toml"

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	FSResolver func(string) (fileset.Resolver, error)
	Logger     logging.Logger
	Writer     Writer
	Generator  codegen.Generator // injectable generator
	Hooks      Hooks
	// Documents caches parsed models by path and content hash across runs.
	// The entry for a path is evicted once its content changes.
	Documents cache.Cache[*model.Document]
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Reader is implemented by writers that can read back what they store.
// Unchanged files are only skipped for such writers; any other Writer
// receives every file.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Pipeline orchestrates configuration loading, model parsing, and code generation.
type Pipeline struct {
	Env Environment

	mu   sync.Mutex
	keys map[string]string // model path -> Documents key of its last content
}

// Summary captures generated files and diagnostics collected during a run.
type Summary struct {
	RunID       uuid.UUID
	Documents   []*model.Document
	Files       []codegen.File
	Written     []string
	Unchanged   []string
	Diagnostics []diagnostics.Diagnostic
}

// RunOptions configures a pipeline execution.
type RunOptions struct {
	ConfigPath   string
	OutOverride  string
	DryRun       bool
	StrictConfig bool
	// Modes replaces the configured output selection when non-empty.
	Modes []render.Mode
}

// DiagnosticsError indicates that errors were reported via diagnostics.
type DiagnosticsError struct {
	Diagnostic diagnostics.Diagnostic
	Cause      error
}

func (e *DiagnosticsError) Error() string {
	return e.Diagnostic.String()
}

func (e *DiagnosticsError) Unwrap() error {
	return e.Cause
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".ts-catalyst-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// run holds the state of one Run call.
type run struct {
	diags *diagnostics.Collection
	log   logging.Logger
}

func (r *run) fail(d diagnostics.Diagnostic, cause error) error {
	r.diags.Add(d)
	return &DiagnosticsError{Diagnostic: d, Cause: cause}
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (summary Summary, err error) {
	logger := p.Env.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &run{diags: diagnostics.NewCollection(), log: logger}
	hooks := p.Env.Hooks

	defer func() {
		summary.Diagnostics = r.diags.All()
	}()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return summary, r.fail(configError(configPath, fmt.Sprintf("resolve config path: %v", err)), err)
	}

	baseDir := filepath.Dir(absConfigPath)
	resolverFn := p.Env.FSResolver
	if resolverFn == nil {
		resolverFn = fileset.NewOSResolver
	}

	resolver, err := resolverFn(baseDir)
	if err != nil {
		return summary, r.fail(configError(absConfigPath, fmt.Sprintf("resolve filesystem: %v", err)), err)
	}

	loadResult, err := config.Load(absConfigPath, config.LoadOptions{Strict: opts.StrictConfig, Resolver: &resolver})
	if err != nil {
		return summary, r.fail(configError("", err.Error()), err)
	}
	for _, warning := range loadResult.Warnings {
		r.diags.Add(diagnostics.Warning(strings.TrimPrefix(warning, absConfigPath+": ")).
			At(absConfigPath, 0, 0).
			WithCode(diagnostics.ErrConfigUnknownKey).
			WithSource("config").
			Build())
		r.log.Warn("config warning", "message", warning)
	}

	plan := loadResult.Plan
	if opts.OutOverride != "" {
		override := opts.OutOverride
		if !filepath.IsAbs(override) {
			override = filepath.Join(baseDir, override)
		}
		plan.Out = filepath.Clean(override)
	}
	if len(opts.Modes) > 0 {
		plan.Modes = opts.Modes
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if hooks.BeforeParse != nil {
		if err := hooks.BeforeParse(ctx, plan.Models); err != nil {
			return summary, fmt.Errorf("before parse hook: %w", err)
		}
	}

	docs, err := p.parseModels(ctx, r, resolver, plan.Models)
	if err != nil {
		return summary, err
	}
	summary.Documents = docs

	if hooks.AfterParse != nil {
		if err := hooks.AfterParse(ctx, docs); err != nil {
			return summary, fmt.Errorf("after parse hook: %w", err)
		}
	}

	exportCtx := naming.NewExportContext(plan.Naming)
	summary.RunID = exportCtx.RunID
	r.log = logging.ForRun(r.log, exportCtx.RunID)
	r.log.Info("export started",
		"models", len(docs),
		"out", plan.Out,
		"camel_case_methods", plan.Naming.CamelCaseMethods,
		"camel_case_properties", plan.Naming.CamelCaseProperties,
		"overrides", len(plan.Overrides),
	)

	if hooks.BeforeRender != nil {
		if err := hooks.BeforeRender(ctx, exportCtx); err != nil {
			return summary, fmt.Errorf("before render hook: %w", err)
		}
	}

	generator := p.Env.Generator
	if generator == nil {
		generator = codegen.New(codegen.Options{Modes: plan.Modes, Tab: plan.Indent})
	}

	generated, err := generator.Generate(ctx, docs, naming.Resolver{Context: exportCtx, Overrides: plan.Overrides})
	if err != nil {
		if errors.Is(err, naming.ErrInvalidIdentifier) {
			return summary, r.fail(diagnostics.Error(err.Error()).
				WithCode(diagnostics.ErrNamingInvalidIdentifier).
				WithSource("naming").
				Build(), err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}
		return summary, fmt.Errorf("code generation: %w", err)
	}

	files := make([]codegen.File, 0, len(generated))
	for _, file := range generated {
		dest, err := outputPath(plan.Out, file.Path)
		if err != nil {
			return summary, fmt.Errorf("code generation: %w", err)
		}
		files = append(files, codegen.File{Path: dest, Content: file.Content})
	}
	summary.Files = files

	if hooks.AfterRender != nil {
		if err := hooks.AfterRender(ctx, files); err != nil {
			return summary, fmt.Errorf("after render hook: %w", err)
		}
	}

	if opts.DryRun {
		r.log.Info("dry run complete", "files", len(files))
		return summary, nil
	}

	if hooks.BeforeWrite != nil {
		if err := hooks.BeforeWrite(ctx, files); err != nil {
			return summary, fmt.Errorf("before write hook: %w", err)
		}
	}
	if hooks.AfterWrite != nil {
		defer func() {
			summary.Diagnostics = r.diags.All()
			if hookErr := hooks.AfterWrite(ctx, summary); hookErr != nil && err == nil {
				err = fmt.Errorf("after write hook: %w", hookErr)
			}
		}()
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}
	reader, _ := writer.(Reader)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		same, cmpErr := fileMatches(reader, file.Path, file.Content)
		if cmpErr != nil {
			return summary, &WriteError{Path: file.Path, Err: cmpErr}
		}
		if same {
			summary.Unchanged = append(summary.Unchanged, file.Path)
			r.log.Debug("file unchanged", "path", file.Path)
			continue
		}
		if err := writer.WriteFile(file.Path, file.Content); err != nil {
			return summary, &WriteError{Path: file.Path, Err: err}
		}
		summary.Written = append(summary.Written, file.Path)
		r.log.Debug("file written", "path", file.Path, "bytes", len(file.Content))
	}

	r.log.Info("export finished", "written", len(summary.Written), "unchanged", len(summary.Unchanged))
	return summary, nil
}

// parseModels parses every model path, reporting all parse failures before
// giving up.
func (p *Pipeline) parseModels(ctx context.Context, r *run, resolver fileset.Resolver, paths []string) ([]*model.Document, error) {
	docs := make([]*model.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contents, err := resolver.ReadFile(path)
		if err != nil {
			r.diags.Add(diagnostics.Error(fmt.Sprintf("read model: %v", err)).
				At(path, 0, 0).
				WithCode(diagnostics.ErrModelRead).
				WithSource("model").
				Build())
			continue
		}

		key := cache.ComputeKeyWithPrefix(path, contents)
		if p.Env.Documents != nil {
			p.evictStale(path, key)
			if doc, ok := p.Env.Documents.Get(key); ok {
				r.log.Debug("model cached", "path", path)
				docs = append(docs, doc)
				continue
			}
		}

		doc, err := model.Parse(path, contents)
		if err != nil {
			r.diags.Add(modelDiagnostic(path, contents, err))
			continue
		}
		if p.Env.Documents != nil {
			p.Env.Documents.Set(key, doc, 0)
		}
		r.log.Debug("model parsed", "path", path, "module", doc.Module, "types", len(doc.Types()))
		docs = append(docs, doc)
	}

	if first, ok := r.diags.FirstError(); ok {
		return nil, &DiagnosticsError{Diagnostic: first}
	}
	return docs, nil
}

// evictStale drops the cached document of path when its content hashed to
// a different key on an earlier run.
func (p *Pipeline) evictStale(path, key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keys == nil {
		p.keys = make(map[string]string)
	}
	if prev, ok := p.keys[path]; ok && prev != key {
		p.Env.Documents.Delete(prev)
	}
	p.keys[path] = key
}

func modelDiagnostic(path string, contents []byte, err error) diagnostics.Diagnostic {
	var pe *model.ParseError
	if !errors.As(err, &pe) {
		return diagnostics.Error(err.Error()).At(path, 0, 0).WithCode(diagnostics.ErrModelParse).WithSource("model").Build()
	}
	code := diagnostics.ErrModelInvalid
	if pe.Line == 0 {
		code = diagnostics.ErrModelParse
	}
	return diagnostics.Error(pe.Message).
		At(path, pe.Line, pe.Column).
		WithCode(code).
		WithSource("model").
		WithContext(diagnostics.Excerpt(contents, pe.Line, pe.Column)).
		Build()
}

// configError reports a configuration failure. Errors from config.Load
// already carry the file path, so path is empty for those.
func configError(path, message string) diagnostics.Diagnostic {
	return diagnostics.Error(message).
		At(path, 0, 0).
		WithCode(diagnostics.ErrConfigInvalid).
		WithSource("config").
		Build()
}

// outputPath joins name below out, rejecting names that would leave it.
func outputPath(out, name string) (string, error) {
	dest := filepath.Join(out, filepath.FromSlash(name))
	rel, err := filepath.Rel(out, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("generated file %s is outside %s", name, out)
	}
	return dest, nil
}

// fileMatches reports whether r already holds content at path. A nil r
// never matches.
func fileMatches(r Reader, path string, content []byte) (bool, error) {
	if r == nil {
		return false, nil
	}
	existing, err := r.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
