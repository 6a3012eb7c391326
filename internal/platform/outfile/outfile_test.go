package outfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	mirror := filepath.Join(t.TempDir(), "mirror")

	path, mirrorErr, err := Writer{Dir: dir, MirrorDir: mirror}.Write("report.md", []byte("hello"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if mirrorErr != nil {
		t.Fatalf("Write() mirror error = %v", mirrorErr)
	}

	if path != filepath.Join(dir, "report.md") {
		t.Errorf("path = %q", path)
	}

	for _, p := range []string{path, filepath.Join(mirror, "report.md")} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", p, err)
		}

		if string(data) != "hello" {
			t.Errorf("%s = %q, want hello", p, data)
		}
	}
}

func TestWriter_MirrorFailureIsSoft(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	path, mirrorErr, err := Writer{Dir: t.TempDir(), MirrorDir: filepath.Join(blocker, "sub")}.Write("a.csv", []byte("a"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if path == "" {
		t.Error("primary path should be returned")
	}

	if mirrorErr == nil {
		t.Error("expected mirror error when mirror dir is under a file")
	}
}
