package input

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFilePlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cipher.txt")
	if err := os.WriteFile(path, []byte("  WKH TXLFN\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Text != "WKH TXLFN" {
		t.Fatalf("unexpected text %q", got.Text)
	}

	noExt := filepath.Join(dir, "cipher")
	if err := os.WriteFile(noExt, []byte("abc"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := Read(noExt); err != nil || got.Text != "abc" {
		t.Fatalf("unexpected result %q, %v", got.Text, err)
	}
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte(" \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadFileDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.docx")
	writeDOCX(t, path, `<w:document><w:body><w:p><w:r><w:t>Ju bumgz</w:t></w:r></w:p><w:p><w:r><w:t>ubcfb</w:t><w:tab/><w:t>dqofn</w:t></w:r></w:p></w:body></w:document>`)
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read docx: %v", err)
	}
	if got.Text != "Ju bumgz\nubcfb dqofn" {
		t.Fatalf("unexpected text %q", got.Text)
	}
}

func TestReadFileDOCXWithoutDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	if _, err := Read(path); err == nil || !strings.Contains(err.Error(), documentPart) {
		t.Fatalf("expected missing part error, got %v", err)
	}
}

func TestReadFileInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestExtractPagesCountsFailures(t *testing.T) {
	text, skipped, err := extractPages(3, func(i int) (string, error) {
		if i == 2 {
			return "", errors.New("bad content stream")
		}
		return fmt.Sprintf("page %d", i), nil
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "page 1\npage 3" || skipped != 1 {
		t.Fatalf("unexpected result %q, %d skipped", text, skipped)
	}
}

func TestExtractPagesRecoversPanic(t *testing.T) {
	text, _, err := extractPages(2, func(i int) (string, error) {
		if i == 2 {
			panic("malformed object")
		}
		return "page 1", nil
	})
	if err == nil || !strings.Contains(err.Error(), "malformed object") {
		t.Fatalf("expected recovered error, got %v", err)
	}
	if text != "" {
		t.Fatalf("expected no text after panic, got %q", text)
	}
}

func TestReadReportsNoSkippedPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cipher.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if doc.Text != "abc" || doc.SkippedPages != 0 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestReadStdin(t *testing.T) {
	got, err := ReadStdin(strings.NewReader("hello\n"))
	if err != nil || got != "hello" {
		t.Fatalf("unexpected result %q, %v", got, err)
	}
	if _, err := ReadStdin(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func writeDOCX(t *testing.T, path, body string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create(documentPart)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` + body)); err != nil {
		t.Fatalf("write xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}
