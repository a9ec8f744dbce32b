// Package main implements the ts-catalyst CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/electwix/ts-catalyst/internal/cache"
	"github.com/electwix/ts-catalyst/internal/cli"
	"github.com/electwix/ts-catalyst/internal/diagnostics"
	"github.com/electwix/ts-catalyst/internal/fileset"
	"github.com/electwix/ts-catalyst/internal/logging"
	"github.com/electwix/ts-catalyst/internal/model"
	"github.com/electwix/ts-catalyst/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one export and returns the process exit code: 1 for usage,
// configuration and model errors, 2 when writing output failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		JSON:    opts.LogJSON,
		Writer:  stderr,
	})

	env := pipeline.Environment{
		Logger:     logging.NewSlogAdapter(logger),
		FSResolver: fileset.NewOSResolver,
		Writer:     pipeline.NewOSWriter(),
		Documents:  cache.NewMemory[*model.Document](),
	}

	pipe := pipeline.Pipeline{Env: env}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:   opts.ConfigPath,
		OutOverride:  opts.Out,
		DryRun:       opts.DryRun,
		StrictConfig: opts.StrictConfig,
		Modes:        opts.Modes,
	})

	printDiagnostics(stderr, summary.Diagnostics)

	if runErr != nil {
		var diagErr *pipeline.DiagnosticsError
		if !errors.As(runErr, &diagErr) {
			_, _ = fmt.Fprintln(stderr, runErr.Error())
		}
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return 2
		}
		return 1
	}

	if opts.DryRun {
		for _, file := range summary.Files {
			_, _ = fmt.Fprintln(stdout, file.Path)
		}
	}
	return 0
}

func printDiagnostics(w io.Writer, diags []diagnostics.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	c := diagnostics.NewCollection()
	for _, d := range diags {
		c.Add(d)
	}
	c.SortByLocation()
	f := diagnostics.Formatter{ShowContext: true}
	_ = f.WriteAll(w, c)
	f.PrintSummary(w, c)
}
