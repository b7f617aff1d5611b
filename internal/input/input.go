// Package input extracts text from files and standard input.
package input

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmpty is returned when a source yields no text.
var ErrEmpty = errors.New("no text found")

const documentPart = "word/document.xml"

// Document is the text extracted from a file.
type Document struct {
	Text string
	// SkippedPages counts PDF pages whose text could not be extracted.
	SkippedPages int
}

// Read extracts a plain, PDF or DOCX file. Files without a known extension
// are read as plain text.
func Read(path string) (Document, error) {
	var (
		text    string
		skipped int
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, skipped, err = readPDF(path)
	case ".docx":
		text, err = readDOCX(path)
	default:
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := Document{Text: strings.TrimSpace(text), SkippedPages: skipped}
	if doc.Text == "" {
		return doc, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return doc, nil
}

// ReadStdin reads all of r as text.
func ReadStdin(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

var errNullPage = errors.New("missing page object")

func readPDF(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return extractPages(r.NumPage(), func(i int) (string, error) {
		p := r.Page(i)
		if p.V.IsNull() {
			return "", errNullPage
		}
		return p.GetPlainText(nil)
	})
}

// extractPages joins the text of pages 1..n. Pages that fail are counted and
// skipped. The pdf reader panics on malformed objects, so panics become
// errors.
func extractPages(n int, page func(int) (string, error)) (text string, skipped int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, skipped = "", 0
			err = fmt.Errorf("failed to extract pdf text: %v", r)
		}
	}()

	var pages []string
	for i := 1; i <= n; i++ {
		content, err := page(i)
		if err != nil {
			skipped++
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), skipped, nil
}

func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
		}
		defer func() {
			_ = rc.Close()
		}()
		return documentText(rc)
	}
	return "", fmt.Errorf("%s not found", documentPart)
}

// documentText collects the w:t runs of a WordprocessingML body, one line
// per paragraph.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inRun := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode %s: %w", documentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inRun = true
			case "p":
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
			case "tab":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inRun = false
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
