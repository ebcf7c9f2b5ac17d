package layout

import (
	"strconv"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/kuponqurban/kupon/internal/text"
)

// Singleton PDF instance for text measurement using go-pdf/fpdf metrics
var (
	measureOnce sync.Once
	measurePDF  *fpdf.Fpdf
	measureMu   sync.Mutex
)

func initMeasurePDF() {
	measurePDF = fpdf.New("P", "pt", "", "")
	measurePDF.SetFont("Helvetica", "", 12)
}

// measureTextWidth returns the width in points of text set in core Helvetica.
func measureTextWidth(text string, fontSizePt float64, bold bool) float64 {
	if text == "" || fontSizePt <= 0 {
		return 0
	}
	measureOnce.Do(initMeasurePDF)
	measureMu.Lock()
	defer measureMu.Unlock()
	style := ""
	if bold {
		style = "B"
	}
	measurePDF.SetFont("Helvetica", style, fontSizePt)
	return measurePDF.GetStringWidth(text)
}

// Cell box model in points, mirroring the coupon card drawn by the renderers.
const (
	CellPaddingPt     = 9
	CellBorderPt      = 1.5
	DividerGapPt      = 6
	NumberBoxHeightPt = 22.5
	NumberFontPt      = 30
	FooterMinHeightPt = 45
	CodeGapPt         = 6
	MinCellWidthPt    = 120
	MaxCellWidthPt    = 240
	LineHeight        = 1.3

	// CSS pixels are 1/96 inch regardless of screen density.
	ptPerCSSPx = 0.75
)

// CellContent is what a single coupon cell has to show.
type CellContent struct {
	Title      string
	Subtitle   string
	FooterText string
	Number     int
	CodeSizePx int
}

// MetricMeasurer estimates the footprint of a rendered coupon from font
// metrics. It stands in for a live measurement when no browser is around.
type MetricMeasurer struct {
	DPI           float64
	TitleFontPx   float64
	ContentFontPx float64
}

// NewMetricMeasurer creates a measurer with the default typography.
func NewMetricMeasurer(dpi float64) *MetricMeasurer {
	return &MetricMeasurer{DPI: dpi, TitleFontPx: 14, ContentFontPx: 12}
}

// Measure returns the estimated cell size in pixels at the measurer's DPI.
func (m *MetricMeasurer) Measure(c CellContent) CellSize {
	titlePt := m.TitleFontPx * ptPerCSSPx
	contentPt := m.ContentFontPx * ptPerCSSPx
	subtitlePt := contentPt * 0.85

	inner := 2 * (CellPaddingPt + CellBorderPt)
	wrapAt := MaxCellWidthPt - inner
	widest := MinCellWidthPt - inner
	block := func(s string, pt float64, bold bool) float64 {
		w, h := text.Measure(s, wrapAt, pt*LineHeight, func(s string) float64 {
			return measureTextWidth(s, pt, bold)
		})
		widest = max(widest, w)
		return h
	}

	height := block(c.Title, titlePt, true)
	height += block(c.Subtitle, subtitlePt, false)
	height += 2 * DividerGapPt
	height += NumberBoxHeightPt
	height += 2 * DividerGapPt
	widest = max(widest, measureTextWidth(strconv.Itoa(c.Number), NumberFontPt, true))

	footer := block(c.FooterText, contentPt, false)
	if c.CodeSizePx > 0 {
		codePt := float64(c.CodeSizePx) * ptPerCSSPx
		widest = max(widest, codePt)
		footer += CodeGapPt + codePt
	}
	height += max(footer, FooterMinHeightPt)

	widthPt := widest + inner
	heightPt := height + inner
	return CellSize{
		WidthPx:  ptToPx(widthPt, m.DPI),
		HeightPx: ptToPx(heightPt, m.DPI),
	}
}

func ptToPx(pt, dpi float64) float64 {
	return pt * dpi / 72
}
