// Package cli parses the ts-catalyst command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/electwix/ts-catalyst/internal/codegen/render"
)

// Options holds the parsed command line.
type Options struct {
	ConfigPath   string
	Out          string
	DryRun       bool
	StrictConfig bool
	Verbose      bool
	LogJSON      bool
	// Modes is empty when the configured output selection applies.
	Modes []render.Mode
	Args  []string
}

// Parse parses args, excluding the program name.
func Parse(args []string) (Options, error) {
	const defaultConfig = "ts-catalyst.toml"

	opts := Options{
		ConfigPath: defaultConfig,
	}
	var mode string

	fs := flag.NewFlagSet("ts-catalyst", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.Out, "out", "", "Override output directory; relative paths are resolved against the config directory")
	fs.StringVar(&mode, "mode", "", "Output variants to render: all, full or declarations (default from config)")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Render files without writing them")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")
	fs.BoolVar(&opts.LogJSON, "log-json", false, "Emit logs as JSON lines")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}

	modes, err := parseModes(mode)
	if err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}
	opts.Modes = modes
	opts.Args = fs.Args()
	return opts, nil
}

func parseModes(s string) ([]render.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "all", "both":
		return []render.Mode{render.ModeFull, render.ModeDeclarationOnly}, nil
	}
	m, err := render.ParseMode(s)
	if err != nil {
		return nil, errors.New("invalid value for -mode: " + err.Error())
	}
	return []render.Mode{m}, nil
}

// Usage renders the flag defaults of fs.
func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
