package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/benvon/roda-da-vida/internal/models"
)

const (
	pageMargin   = 20.0
	chartMM      = 100.0
	lineHeight   = 5.0
	pageBottom   = 280.0
	notesBreakY  = 250.0
	goalsBreakY  = 240.0
	goalBreakY   = 270.0
	reportTitle  = "Minha Roda da Vida"
	scoresTitle  = "Pontuação por Área"
	notesTitle   = "Suas Notas"
	aiTitle      = "Análise da IA"
	goalsTitle   = "Metas SMART Prioritárias"
	chartImageID = "wheel-chart"
)

// FileName returns the download name for a record, e.g.
// roda-da-vida-09-12-2025 às 14-38.pdf
func FileName(r models.AnalysisRecord) string {
	date := strings.NewReplacer("/", "-", ":", "-").Replace(r.FormattedDate)
	return "roda-da-vida-" + date + ".pdf"
}

// Categories returns the plotting order of a record. Records made before
// categories were stored fall back to their sorted score keys.
func Categories(r models.AnalysisRecord) []string {
	if len(r.Categories) > 0 {
		return append([]string(nil), r.Categories...)
	}
	out := make([]string, 0, len(r.Scores))
	for k := range r.Scores {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CleanMarkdown strips the markup the model tends to emit so the text reads
// well in a plain PDF.
func CleanMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "##", "")
	return strings.ReplaceAll(s, "*", "•")
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *writer) newPage() {
	w.pdf.AddPage()
	w.y = pageMargin
}

func (w *writer) font(style string, size float64, r, g, b int) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(r, g, b)
}

func (w *writer) text(x float64, s string) {
	w.pdf.Text(x, w.y, w.tr(s))
}

// wrap breaks s into lines no wider than width in the current font.
// Widths are measured on the cp1252 form the core fonts are drawn with.
func (w *writer) wrap(s string, width float64) []string {
	var lines []string
	for _, raw := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			next := line + " " + word
			if w.pdf.GetStringWidth(w.tr(next)) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = next
		}
		lines = append(lines, line)
	}
	return lines
}

// paragraph writes s wrapped to width and leaves y below the last line.
// Lines that would run off the page continue on a fresh one.
func (w *writer) paragraph(s string, width float64) {
	for _, line := range w.wrap(s, width) {
		if w.y > pageBottom {
			w.newPage()
		}
		w.text(pageMargin, line)
		w.y += lineHeight
	}
}

// ExportPDF writes an A4 report for r. chartPNG is embedded when non-empty.
func ExportPDF(out io.Writer, r models.AnalysisRecord, chartPNG []byte) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(reportTitle, true)
	pageW, _ := pdf.GetPageSize()

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.newPage()

	w.font("", 22, 40, 50, 70)
	w.text(pageMargin, reportTitle)
	w.y += 10

	w.font("", 12, 100, 100, 100)
	w.text(pageMargin, fmt.Sprintf("Análise de %s (%s)", r.FormattedDate, r.Mode.Label()))
	w.y += 15

	if len(chartPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(chartImageID, opts, bytes.NewReader(chartPNG))
		pdf.ImageOptions(chartImageID, (pageW-chartMM)/2, w.y, chartMM, chartMM, false, opts, 0, "")
		w.y += chartMM + 10
	}

	w.font("", 14, 0, 0, 0)
	w.text(pageMargin, scoresTitle)
	w.y += 10

	w.font("", 10, 0, 0, 0)
	categories := Categories(r)
	col2 := pageW/2 + 10
	for i, c := range categories {
		x := pageMargin
		if i%2 == 1 {
			x = col2
		}
		w.text(x, fmt.Sprintf("%s: %d/10", c, r.Scores[c]))
		if i%2 == 1 {
			w.y += 8
		}
	}
	if len(categories)%2 != 0 {
		w.y += 8
	}
	w.y += 10

	textWidth := pageW - 2*pageMargin
	if strings.TrimSpace(r.UserNotes) != "" {
		w.font("", 14, 0, 0, 0)
		w.text(pageMargin, notesTitle)
		w.y += 8
		w.font("", 10, 60, 60, 60)
		w.paragraph(r.UserNotes, textWidth)
		w.y += 15
	}

	if w.y > notesBreakY {
		w.newPage()
	}

	w.font("", 14, 0, 0, 0)
	w.text(pageMargin, aiTitle)
	w.y += 8
	w.font("", 10, 40, 40, 40)
	w.paragraph(CleanMarkdown(r.AIResponse), textWidth)
	w.y += 15

	if len(r.SmartGoals) > 0 {
		if w.y > goalsBreakY {
			w.newPage()
		}
		w.font("", 14, 0, 0, 0)
		w.text(pageMargin, goalsTitle)
		w.y += 10

		for _, g := range r.SmartGoals {
			if w.y > goalBreakY {
				w.newPage()
			}
			w.font("B", 11, 79, 70, 229)
			w.text(pageMargin, g.Area)
			w.y += 5
			w.font("", 10, 60, 60, 60)
			w.paragraph(g.Goal, textWidth)
			w.y += 6
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// Export renders the chart for r and writes the full report
func Export(out io.Writer, r models.AnalysisRecord) error {
	chart, err := RenderChart(Categories(r), r.Scores)
	if err != nil {
		return err
	}
	return ExportPDF(out, r, chart)
}
