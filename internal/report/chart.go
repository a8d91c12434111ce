// Package report renders a history record as a radar chart and a PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// ChartSize is the side of the rendered chart in pixels
const ChartSize = 800

// ErrNoCategories is returned when there is nothing to plot
var ErrNoCategories = errors.New("no categories to plot")

var (
	gridColor   = color.NRGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	labelColor  = color.NRGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}
	strokeColor = color.NRGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff}
	fillColor   = color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0x60}
)

var (
	fontOnce sync.Once
	fontErr  error
	labelTTF *truetype.Font
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		labelTTF, fontErr = truetype.Parse(gobold.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", fontErr)
	}
	return truetype.NewFace(labelTTF, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// chartLabel shortens long custom names the way the web chart does
func chartLabel(label string) string {
	r := []rune(label)
	if len(r) > 15 {
		return string(r[:12]) + "..."
	}
	return label
}

// RenderChart draws the wheel as a radar chart on a white square PNG.
// Scores are clamped to the 0..10 axis; the first category points up and
// the rest follow clockwise.
func RenderChart(categories []string, scores map[string]int) ([]byte, error) {
	n := len(categories)
	if n == 0 {
		return nil, ErrNoCategories
	}
	face, err := labelFace(20)
	if err != nil {
		return nil, err
	}

	const size = float64(ChartSize)
	cx, cy := size/2, size/2
	radius := size * 0.3

	dc := gg.NewContext(ChartSize, ChartSize)
	dc.SetColor(color.White)
	dc.Clear()

	point := func(i int, value float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		r := radius * value / 10
		return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
	}

	// Grid
	dc.SetColor(gridColor)
	dc.SetLineWidth(2)
	dc.SetDash(8, 8)
	for level := 2; level <= 10; level += 2 {
		for i := 0; i < n; i++ {
			x, y := point(i, float64(level))
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}
	for i := 0; i < n; i++ {
		x, y := point(i, 10)
		dc.DrawLine(cx, cy, x, y)
		dc.Stroke()
	}
	dc.SetDash()

	// Scores
	for i, c := range categories {
		v := float64(scores[c])
		v = math.Max(0, math.Min(10, v))
		x, y := point(i, v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(fillColor)
	dc.FillPreserve()
	dc.SetColor(strokeColor)
	dc.SetLineWidth(6)
	dc.Stroke()

	// Labels
	dc.SetFontFace(face)
	dc.SetColor(labelColor)
	for i, c := range categories {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		lx := cx + (radius+30)*math.Cos(angle)
		ly := cy + (radius+30)*math.Sin(angle)
		ax := 0.5 - 0.5*math.Cos(angle)
		ay := 0.5 - 0.5*math.Sin(angle)
		dc.DrawStringWrapped(chartLabel(c), lx, ly, ax, ay, 180, 1.2, gg.AlignCenter)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
