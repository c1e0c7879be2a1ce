// Package filetest provides golden-file test helpers shared by the XML
// fixture tests: enumerate source files in a directory, and diff a run's
// output against the recorded expectation.
package filetest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var testUpdateAllTests = flag.Bool("test.update-all-tests", false, "If set, overwrites the golden files with the actual output.")

// SourceFiles returns the list of source files in dir with the given
// extension.
func SourceFiles(t *testing.T, dir, ext string) []os.FileInfo {
	t.Helper()

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]os.FileInfo, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() {
			continue
		}
		if ext != "" && filepath.Ext(dent.Name()) != ext {
			continue
		}
		fi, err := dent.Info()
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, fi)
	}
	return res
}

// DiffOutput validates that output matches the golden file recording the
// expected standard output for fi. With -test.update-all-tests, it
// overwrites the golden file instead.
func DiffOutput(t *testing.T, fi os.FileInfo, output, resultDir string) {
	t.Helper()
	DiffCustom(t, fi, "output", ".out.want", output, resultDir)
}

// DiffErrors validates that output matches the golden file recording the
// expected standard error for fi.
func DiffErrors(t *testing.T, fi os.FileInfo, output, resultDir string) {
	t.Helper()
	DiffCustom(t, fi, "errors", ".err.want", output, resultDir)
}

// DiffCustom is the general form of DiffOutput/DiffErrors for any other
// recorded output (e.g. an exit code rendered as text).
func DiffCustom(t *testing.T, fi os.FileInfo, label, ext, output, resultDir string) {
	t.Helper()

	goldFile := filepath.Join(resultDir, fi.Name()+ext)
	if *testUpdateAllTests {
		if err := os.WriteFile(goldFile, []byte(output), 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if testing.Verbose() {
		t.Logf("got %s:\n%s\n", label, output)
	}
	if patch := diff.Diff(want, output); patch != "" {
		if testing.Verbose() {
			t.Logf("want %s:\n%s\n", label, want)
		}
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
