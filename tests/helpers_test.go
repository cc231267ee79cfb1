package tests_test

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mamaar/drupalrefactor/pkg/refactor"
	"github.com/mamaar/drupalrefactor/pkg/registry"
	"github.com/mamaar/drupalrefactor/pkg/types"
)

var update = flag.Bool("update", false, "update golden files")

// copyFixture copies a fixture directory to a temp dir, skipping .golden files.
func copyFixture(t *testing.T, fixtureDir string) string {
	t.Helper()
	src := filepath.Join("testdata", fixtureDir)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if strings.HasSuffix(path, ".golden") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		t.Fatalf("copyFixture(%s): %v", fixtureDir, err)
	}
	return dst
}

// testLogger returns a logger that discards everything.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadIndex indexes the service declaration files under dir.
func loadIndex(t *testing.T, dir string) *registry.Index {
	t.Helper()
	index, err := registry.Load(dir, testLogger())
	if err != nil {
		t.Fatalf("registry.Load(%s): %v", dir, err)
	}
	return index
}

// newEngine creates a refactoring engine backed by the given index.
func newEngine(t *testing.T, index *registry.Index) refactor.Engine {
	t.Helper()
	var reg types.ServiceRegistry
	if index != nil {
		reg = index
	}
	return refactor.CreateEngine(reg, testLogger())
}

// readFile reads a fixture file copied into the temp workspace.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

// applyEdits writes an edit list to disk through the serializer.
func applyEdits(t *testing.T, path string, edits []types.RefactoringEdit) {
	t.Helper()
	if err := refactor.NewSerializer(testLogger()).ApplyEdits(path, edits); err != nil {
		t.Fatalf("ApplyEdits(%s): %v", path, err)
	}
}

// compareGoldenFiles walks the fixture dir for *.golden files and compares them
// against actual output in tmpDir. If -update is set, writes actual output to golden files.
//
// When -update is set, it walks the source (non-golden) files in the fixture dir
// and creates/updates corresponding .golden files from the tmpDir output. This
// allows initial golden file generation when no .golden files exist yet.
func compareGoldenFiles(t *testing.T, fixtureDir, tmpDir string) {
	t.Helper()
	srcDir := filepath.Join("testdata", fixtureDir)

	if *update {
		// Walk source files and create golden files from actual output.
		err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasSuffix(path, ".golden") {
				return nil
			}
			rel, _ := filepath.Rel(srcDir, path)
			actualPath := filepath.Join(tmpDir, rel)
			actual, err := os.ReadFile(actualPath)
			if err != nil {
				return nil
			}
			// Normalize temp paths before writing golden files.
			normalized := normalizeTempPaths(string(actual), tmpDir)
			goldenPath := path + ".golden"
			if err := os.WriteFile(goldenPath, []byte(normalized), 0o644); err != nil {
				t.Errorf("failed to update golden file %s: %v", goldenPath, err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walking source files for update: %v", err)
		}
		return
	}

	// Normal mode: compare actual output against existing golden files.
	found := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".golden") {
			return nil
		}
		found++

		rel, _ := filepath.Rel(srcDir, path)
		actualRel := strings.TrimSuffix(rel, ".golden")
		actualPath := filepath.Join(tmpDir, actualRel)

		actual, err := os.ReadFile(actualPath)
		if err != nil {
			t.Errorf("cannot read actual file %s: %v", actualPath, err)
			return nil
		}

		golden, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("cannot read golden file %s: %v", path, err)
			return nil
		}

		// Normalize temp dir paths so golden files don't embed host-specific paths.
		actualStr := normalizeTempPaths(string(actual), tmpDir)
		goldenStr := normalizeTempPaths(string(golden), tmpDir)

		if actualStr != goldenStr {
			t.Errorf("mismatch for %s:\n%s", actualRel, unifiedDiff(goldenStr, actualStr))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking golden files: %v", err)
	}
	if found == 0 {
		t.Fatal("no golden files found")
	}
}

// normalizeTempPaths replaces occurrences of the temp directory path with a
// stable placeholder, so golden files don't depend on the host or
// run-specific paths.
func normalizeTempPaths(s, tmpDir string) string {
	if tmpDir != "" {
		s = strings.ReplaceAll(s, tmpDir, "$TMPDIR")
	}
	return s
}

// unifiedDiff produces a simple line-by-line diff between two strings.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := len(expectedLines)
	if len(actualLines) > maxLen {
		maxLen = len(actualLines)
	}

	for i := 0; i < maxLen; i++ {
		var eLine, aLine string
		haveE, haveA := i < len(expectedLines), i < len(actualLines)
		if haveE {
			eLine = expectedLines[i]
		}
		if haveA {
			aLine = actualLines[i]
		}

		if haveE && haveA && eLine == aLine {
			fmt.Fprintf(&buf, " %s\n", eLine)
		} else {
			if haveE {
				fmt.Fprintf(&buf, "-%s\n", eLine)
			}
			if haveA {
				fmt.Fprintf(&buf, "+%s\n", aLine)
			}
		}
	}
	return buf.String()
}
