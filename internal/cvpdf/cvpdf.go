// Package cvpdf renders a generated CV into a PDF document.
package cvpdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"
)

// Renderer writes CV PDFs under Dir on Fs.
type Renderer struct {
	Fs  afero.Fs
	Dir string
}

func NewRenderer(fs afero.Fs, dir string) (*Renderer, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cv dir: %w", err)
	}
	return &Renderer{Fs: fs, Dir: dir}, nil
}

// Render lays the CV text out as a PDF and returns the written path.
// Lines wrapped in **...** become section headers, leading "-"/"•" become
// bullet lines, everything else is body text.
func (r *Renderer) Render(threadID, content string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case isHeader(trimmed):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.CellFormat(0, 8, tr(strings.Trim(trimmed, "*")), "", 1, "L", false, 0, "")
			pdf.SetDrawColor(120, 120, 120)
			x, y := pdf.GetX(), pdf.GetY()
			pdf.Line(x, y, 195, y)
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "• "):
			pdf.SetFont("Helvetica", "", 10)
			body := strings.TrimSpace(trimmed[strings.IndexAny(trimmed, " "):])
			pdf.SetX(20)
			pdf.MultiCell(0, 5, tr("- "+body), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(trimmed), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	name := fmt.Sprintf("cv_%s_%d.pdf", threadID, time.Now().Unix())
	path := filepath.Join(r.Dir, name)
	if err := afero.WriteFile(r.Fs, path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write cv pdf: %w", err)
	}
	return path, nil
}

func isHeader(line string) bool {
	return strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4
}
