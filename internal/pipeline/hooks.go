package pipeline

import (
	"context"

	"github.com/electwix/ts-catalyst/internal/codegen"
	"github.com/electwix/ts-catalyst/internal/model"
	"github.com/electwix/ts-catalyst/internal/naming"
)

// Hooks provides extension points in the pipeline execution.
// Each hook is called at a specific stage and can modify behavior or perform side effects.
type Hooks struct {
	// BeforeParse is called with the resolved model paths.
	// Return an error to abort the pipeline.
	BeforeParse func(ctx context.Context, modelPaths []string) error

	// AfterParse is called after every model document parsed cleanly.
	AfterParse func(ctx context.Context, docs []*model.Document) error

	// BeforeRender is called with the export context created for the run.
	// Hooks may inspect the run id and global policy but must not replace it.
	BeforeRender func(ctx context.Context, export *naming.ExportContext) error

	// AfterRender is called with the rendered files, already joined to the
	// output directory.
	AfterRender func(ctx context.Context, files []codegen.File) error

	// BeforeWrite is called before writing files. It is skipped on dry runs.
	BeforeWrite func(ctx context.Context, files []codegen.File) error

	// AfterWrite is called once writing stops, whether or not it succeeded.
	AfterWrite func(ctx context.Context, summary Summary) error
}

// Chain combines two Hooks, calling h's hooks first, then other's hooks.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeParse:  chainHook(h.BeforeParse, other.BeforeParse),
		AfterParse:   chainHook(h.AfterParse, other.AfterParse),
		BeforeRender: chainHook(h.BeforeRender, other.BeforeRender),
		AfterRender:  chainHook(h.AfterRender, other.AfterRender),
		BeforeWrite:  chainHook(h.BeforeWrite, other.BeforeWrite),
		AfterWrite:   chainHook(h.AfterWrite, other.AfterWrite),
	}
}

func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}
