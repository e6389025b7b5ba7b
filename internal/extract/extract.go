// Package extract converts resume documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// File reads the document at path and extracts its text based on the file
// extension. Supported formats: PDF, DOCX and plain text.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return Bytes(filepath.Ext(path), data)
}

// Bytes extracts text from an in-memory document. Sections the underlying
// parser cannot handle contribute nothing rather than failing the whole
// extraction, so callers must tolerate partial or empty results.
func Bytes(ext string, data []byte) (string, error) {
	switch strings.ToLower(ext) {
	case ".txt", "":
		return string(data), nil
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Unparseable pages yield empty text, not an error.
		text, _ := page.GetPlainText(nil)
		builder.WriteString(text)
	}
	return builder.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
