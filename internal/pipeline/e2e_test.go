package pipeline

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/ts-catalyst/internal/codegen"
)

var update = flag.Bool("update", false, "update golden files")

func TestE2E(t *testing.T) {
	e2eDir := filepath.Join("testdata", "e2e")
	entries, err := os.ReadDir(e2eDir)
	if err != nil {
		t.Fatalf("failed to read e2e directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			runE2ETestCase(t, filepath.Join(e2eDir, entry.Name()))
		})
	}
}

func runE2ETestCase(t *testing.T, caseDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	copyDir(t, tmpDir, caseDir)

	writer := &MemoryWriter{}
	p := Pipeline{Env: Environment{Writer: writer}}
	summary, err := p.Run(context.Background(), RunOptions{
		ConfigPath: filepath.Join(tmpDir, DefaultConfigPath),
	})
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}
	for _, d := range summary.Diagnostics {
		t.Logf("diagnostic: %v", d)
		if d.IsError() {
			t.Fatalf("encountered errors during pipeline run")
		}
	}

	goldenDir := filepath.Join(caseDir, "golden")
	if *update {
		updateGoldenFiles(t, filepath.Join(tmpDir, "gen"), goldenDir, summary.Files)
		return
	}

	want := readGoldenFiles(t, goldenDir)
	got := make(map[string]string, len(summary.Files))
	for _, file := range summary.Files {
		rel := relToOut(t, filepath.Join(tmpDir, "gen"), file.Path)
		got[rel] = string(file.Content)
		if written, ok := writer.GetFile(file.Path); !ok || string(written) != string(file.Content) {
			t.Errorf("%s was not written as rendered", rel)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("generated files mismatch (-want +got):\n%s", diff)
	}
}

func relToOut(t *testing.T, out, path string) string {
	t.Helper()
	rel, err := filepath.Rel(out, path)
	if err != nil {
		t.Fatalf("failed to get relative path: %v", err)
	}
	if strings.HasPrefix(rel, "..") {
		t.Fatalf("generated path outside output dir: %s", path)
	}
	return filepath.ToSlash(rel)
}

func readGoldenFiles(t *testing.T, goldenDir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(goldenDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(goldenDir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("read golden files: %v", err)
	}
	return files
}

func updateGoldenFiles(t *testing.T, out, goldenDir string, files []codegen.File) {
	t.Helper()
	if err := os.RemoveAll(goldenDir); err != nil {
		t.Fatalf("clear golden dir: %v", err)
	}
	for _, file := range files {
		dest := filepath.Join(goldenDir, filepath.FromSlash(relToOut(t, out, file.Path)))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(dest, file.Content, 0o600); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
}

// copyDir copies the case inputs into dst, leaving out the golden files.
func copyDir(t *testing.T, dst, src string) {
	t.Helper()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "golden" {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dst, rel), data, 0o600)
	})
	if err != nil {
		t.Fatalf("copy fixtures: %v", err)
	}
}
