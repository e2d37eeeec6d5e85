// Package docparse extracts plain text from uploaded resumes.
package docparse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdfx "github.com/ledongthuc/pdf"
)

// maxPages caps PDF extraction; resumes past this are truncated, not failed.
const maxPages = 20

// Parse reads a PDF or TXT resume and returns its text. A missing or
// unsupported file is an ordinary error for the caller to report, never a
// reason to stop a run.
func Parse(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no resume file provided")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return parsePDF(path)
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read resume: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("resume must be PDF or TXT format: %s", filepath.Base(path))
	}
}

func parsePDF(path string) (string, error) {
	f, r, err := pdfx.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	if total > maxPages {
		total = maxPages
	}
	var out strings.Builder
	for page := 1; page <= total; page++ {
		p := r.Page(page)
		txt, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(txt); t != "" {
			out.WriteString(t)
			out.WriteString("\n\n")
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("pdf contained no extractable text")
	}
	return text, nil
}
