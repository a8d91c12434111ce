package report

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/benvon/roda-da-vida/internal/models"
)

func sampleRecord() models.AnalysisRecord {
	return models.AnalysisRecord{
		ID:            "rec-1",
		Timestamp:     time.Date(2025, 12, 9, 17, 38, 0, 0, time.UTC),
		FormattedDate: "09/12/2025 às 14:38",
		Mode:          models.ModeStandard,
		Categories:    []string{"Saúde", "Carreira", "Finanças", "Relacionamentos", "Lazer"},
		Scores: map[string]int{
			"Saúde": 2, "Carreira": 5, "Finanças": 5, "Relacionamentos": 5, "Lazer": 5,
		},
		UserNotes:    "Dormindo pouco.\nMuito trabalho.",
		AIResponse:   "## Resumo\n**Saúde** precisa de atenção.\n* Durma mais",
		AverageScore: 4.4,
		SmartGoals: []models.SmartGoal{
			{Area: "Saúde", Goal: "Dormir 7 horas por noite durante as próximas 4 semanas."},
		},
	}
}

func TestRenderChart(t *testing.T) {
	t.Parallel()

	r := sampleRecord()
	data, err := RenderChart(r.Categories, r.Scores)
	if err != nil {
		t.Fatalf("RenderChart() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != ChartSize || b.Dy() != ChartSize {
		t.Errorf("chart bounds = %v, want %dx%d", b, ChartSize, ChartSize)
	}
}

func TestRenderChartNoCategories(t *testing.T) {
	t.Parallel()

	if _, err := RenderChart(nil, nil); err != ErrNoCategories {
		t.Errorf("RenderChart(nil) error = %v, want %v", err, ErrNoCategories)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.AnalysisRecord)
	}{
		{name: "full record", mutate: func(*models.AnalysisRecord) {}},
		{name: "no notes or goals", mutate: func(r *models.AnalysisRecord) {
			r.UserNotes = ""
			r.SmartGoals = nil
		}},
		{name: "legacy record without categories", mutate: func(r *models.AnalysisRecord) {
			r.Categories = nil
		}},
		{name: "long narrative spills onto new pages", mutate: func(r *models.AnalysisRecord) {
			r.AIResponse = strings.Repeat("Uma frase longa sobre equilíbrio e propósito. ", 400)
			r.SmartGoals = append(r.SmartGoals, r.SmartGoals[0], r.SmartGoals[0])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := sampleRecord()
			tt.mutate(&r)

			var buf bytes.Buffer
			if err := Export(&buf, r); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
				t.Errorf("output does not start with %%PDF")
			}
		})
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	got := FileName(sampleRecord())
	want := "roda-da-vida-09-12-2025 às 14-38.pdf"
	if got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	r := sampleRecord()
	r.Categories = nil
	got := Categories(r)
	want := []string{"Carreira", "Finanças", "Lazer", "Relacionamentos", "Saúde"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestCleanMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "**bold** text", want: "bold text"},
		{in: "## Title", want: " Title"},
		{in: "* item", want: "• item"},
		{in: "plain", want: "plain"},
	}
	for _, tt := range tests {
		if got := CleanMarkdown(tt.in); got != tt.want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChartLabel(t *testing.T) {
	t.Parallel()

	if got := chartLabel("Desenvolvimento Pessoal"); got != "Desenvolvime..." {
		t.Errorf("chartLabel() = %q", got)
	}
	if got := chartLabel("Saúde"); got != "Saúde" {
		t.Errorf("chartLabel() = %q", got)
	}
}
