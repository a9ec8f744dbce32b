package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDryRun(t *testing.T) {
	configPath := prepareCmdFixtures(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", configPath, "--dry-run"}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}

	gen := filepath.Join(filepath.Dir(configPath), "gen")
	for _, name := range []string{"user.ts", "user.d.ts"} {
		if !strings.Contains(stdout.String(), filepath.Join(gen, name)) {
			t.Fatalf("stdout %q missing generated file %q", stdout.String(), name)
		}
	}
	if _, err := os.Stat(gen); !os.IsNotExist(err) {
		t.Fatalf("dry run created output directory: %v", err)
	}
}

func TestRunWritesFiles(t *testing.T) {
	configPath := prepareCmdFixtures(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"-c", configPath, "-mode", "declarations"}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}

	gen := filepath.Join(filepath.Dir(configPath), "gen")
	data, err := os.ReadFile(filepath.Join(gen, "user.d.ts"))
	if err != nil {
		t.Fatalf("read declarations: %v", err)
	}
	want := "export class User {\n    userName: string;\n    greet(): string {\n        return `hi ${this.UserName}`;\n    }\n}\n"
	if string(data) != want {
		t.Fatalf("user.d.ts = %q, want %q", data, want)
	}
	if _, err := os.Stat(filepath.Join(gen, "user.ts")); !os.IsNotExist(err) {
		t.Fatalf("full output written despite -mode declarations")
	}
}

func TestRunReportsModelErrors(t *testing.T) {
	configPath := prepareCmdFixtures(t)
	bad := filepath.Join(filepath.Dir(configPath), "models", "bad.yaml")
	if err := os.WriteFile(bad, []byte("classes:\n  - name: Bad\n    fields:\n      - name: x\n"), 0o600); err != nil {
		t.Fatalf("write bad model: %v", err)
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", configPath}, stdout, stderr)
	if exitCode != 1 {
		t.Fatalf("exit code = %d, want 1", exitCode)
	}
	out := stderr.String()
	if !strings.Contains(out, "bad.yaml:4:") || !strings.Contains(out, "[E103]") {
		t.Fatalf("stderr %q missing located diagnostic", out)
	}
	if !strings.Contains(out, "1 error(s), 0 warning(s)") {
		t.Fatalf("stderr %q missing summary", out)
	}
}

func TestRunUsageErrors(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	if code := run(context.Background(), []string{"--bogus"}, stdout, stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage of ts-catalyst") {
		t.Fatalf("stderr %q missing usage", stderr.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"-h"}, stdout, stderr); code != 0 {
		t.Fatalf("help exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "-dry-run") {
		t.Fatalf("help output %q missing flags", stdout.String())
	}
}

func TestRunWriteFailure(t *testing.T) {
	configPath := prepareCmdFixtures(t)
	// A regular file where the output directory should be makes every write fail.
	if err := os.WriteFile(filepath.Join(filepath.Dir(configPath), "gen"), nil, 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	stderr := &bytes.Buffer{}
	if code := run(context.Background(), []string{"--config", configPath}, io.Discard, stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2; stderr=%q", code, stderr.String())
	}
}

func prepareCmdFixtures(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	copyTree(t, dst, "testdata")
	return filepath.Join(dst, "ts-catalyst.toml")
}

func copyTree(t *testing.T, dst, src string) {
	t.Helper()
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("ReadDir %q: %v", src, err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				t.Fatalf("MkdirAll %q: %v", dstPath, err)
			}
			copyTree(t, dstPath, srcPath)
			continue
		}
		copyFile(t, dstPath, srcPath)
	}
}

func copyFile(t *testing.T, dst, src string) {
	t.Helper()
	in, err := os.Open(src)
	if err != nil {
		t.Fatalf("open %q: %v", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("create %q: %v", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		t.Fatalf("copy %q -> %q: %v", src, dst, err)
	}
}
