package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePlainText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	content := "Experienced Go developer.\nKubernetes, gRPC, PostgreSQL."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	text, err := File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != content {
		t.Fatalf("expected %q, got %q", content, text)
	}
}

func TestFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := File(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBytesEmptyDocument(t *testing.T) {
	t.Parallel()

	text, err := Bytes(".txt", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestBytesUnsupportedType(t *testing.T) {
	t.Parallel()

	_, err := Bytes(".odt", []byte("whatever"))
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !strings.Contains(err.Error(), ".odt") {
		t.Fatalf("expected extension in error, got %v", err)
	}
}
