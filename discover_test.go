package pagelens

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCompanionPDFSameName(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "report.json"))
	touch(t, filepath.Join(dir, "report.pdf"))
	touch(t, filepath.Join(dir, "other.pdf"))

	got := CompanionPDF(filepath.Join(dir, "report.json"))
	if got != filepath.Join(dir, "report.pdf") {
		t.Errorf("CompanionPDF = %q, want same-named pdf", got)
	}
}

func TestCompanionPDFSolePDF(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "analysis.json"))
	touch(t, filepath.Join(dir, "scan.pdf"))

	got := CompanionPDF(filepath.Join(dir, "analysis.json"))
	if got != filepath.Join(dir, "scan.pdf") {
		t.Errorf("CompanionPDF = %q, want sole pdf", got)
	}
}

func TestCompanionPDFAmbiguous(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "analysis.json"))
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "b.pdf"))

	if got := CompanionPDF(filepath.Join(dir, "analysis.json")); got != "" {
		t.Errorf("CompanionPDF = %q, want empty for ambiguous directory", got)
	}
}

func TestCompanionPDFNone(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "analysis.json"))

	if got := CompanionPDF(filepath.Join(dir, "analysis.json")); got != "" {
		t.Errorf("CompanionPDF = %q, want empty", got)
	}
}
