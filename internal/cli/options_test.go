package cli

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electwix/ts-catalyst/internal/codegen/render"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "ts-catalyst.toml", opts.ConfigPath)
	assert.Empty(t, opts.Out)
	assert.False(t, opts.DryRun)
	assert.False(t, opts.StrictConfig)
	assert.False(t, opts.Verbose)
	assert.False(t, opts.LogJSON)
	assert.Nil(t, opts.Modes)
	assert.Empty(t, opts.Args)
}

func TestParseOverrides(t *testing.T) {
	args := []string{
		"--config", "project.toml",
		"--out", "types",
		"--dry-run",
		"--strict-config",
		"--mode", "declarations",
		"--log-json",
		"-v",
		"extra",
	}

	opts, err := Parse(args)
	require.NoError(t, err)

	assert.Equal(t, "project.toml", opts.ConfigPath)
	assert.Equal(t, "types", opts.Out)
	assert.True(t, opts.DryRun)
	assert.True(t, opts.StrictConfig)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.LogJSON)
	assert.Equal(t, []render.Mode{render.ModeDeclarationOnly}, opts.Modes)
	assert.Equal(t, []string{"extra"}, opts.Args)
}

func TestParseModes(t *testing.T) {
	tests := []struct {
		in   string
		want []render.Mode
	}{
		{in: "all", want: []render.Mode{render.ModeFull, render.ModeDeclarationOnly}},
		{in: "full", want: []render.Mode{render.ModeFull}},
		{in: "d.ts", want: []render.Mode{render.ModeDeclarationOnly}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			opts, err := Parse([]string{"-c", "x.toml", "-mode", tt.in})
			require.NoError(t, err)
			assert.Equal(t, "x.toml", opts.ConfigPath)
			assert.Equal(t, tt.want, opts.Modes)
		})
	}

	_, err := Parse([]string{"-mode", "html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for -mode")
	assert.Contains(t, err.Error(), "Usage of ts-catalyst")
}

func TestParseInvalidFlag(t *testing.T) {
	_, err := Parse([]string{"--unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Usage of ts-catalyst")
	assert.False(t, errors.Is(err, flag.ErrHelp), "error unexpectedly wraps flag.ErrHelp")
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
	assert.True(t, strings.Contains(err.Error(), "-strict-config"))
}

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("ts-catalyst", flag.ContinueOnError)
	fs.String("flag", "value", "test flag")

	usage := Usage(fs)
	assert.Contains(t, usage, "Usage of ts-catalyst:")
	assert.Contains(t, usage, "-flag")
	assert.Empty(t, Usage(nil))
}
