package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuponqurban/kupon/internal/errs"
)

func a4Options() Options {
	return NewEngine().Options()
}

func TestCompute_DeclaredGrid(t *testing.T) {
	l, err := Compute(a4Options(), nil)
	require.NoError(t, err)

	assert.Equal(t, 210.0, l.PaperWidthMm)
	assert.Equal(t, 297.0, l.PaperHeightMm)
	assert.Equal(t, 190.0, l.UsableWidthMm)
	assert.Equal(t, 277.0, l.UsableHeightMm)
	assert.Equal(t, 2, l.Columns)
	assert.Equal(t, 4, l.Rows)
	assert.Equal(t, 8, l.ItemsPerPage)
	assert.Equal(t, StrategyDeclared, l.Strategy)
	assert.InDelta(t, 95.0, l.CellWidthMm, 1e-9)
	assert.InDelta(t, 69.25, l.CellHeightMm, 1e-9)
}

func TestCompute_Landscape(t *testing.T) {
	for _, p := range PaperSizes() {
		t.Run(string(p), func(t *testing.T) {
			o := a4Options()
			o.Paper = p
			portrait, err := Compute(o, nil)
			require.NoError(t, err)

			o.Orientation = Landscape
			landscape, err := Compute(o, nil)
			require.NoError(t, err)

			assert.Equal(t, portrait.PaperHeightMm, landscape.PaperWidthMm)
			assert.Equal(t, portrait.PaperWidthMm, landscape.PaperHeightMm)
		})
	}

	o := a4Options()
	o.Orientation = Landscape
	l, err := Compute(o, nil)
	require.NoError(t, err)
	assert.Equal(t, 297.0, l.PaperWidthMm)
	assert.Equal(t, 210.0, l.PaperHeightMm)
}

func TestCompute_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"unknown paper", func(o *Options) { o.Paper = "B5" }},
		{"unknown orientation", func(o *Options) { o.Orientation = "diagonal" }},
		{"margins eat width", func(o *Options) { o.Margins.Left, o.Margins.Right = 105, 105 }},
		{"margins eat height", func(o *Options) { o.Margins.Top = 300 }},
		{"negative margin", func(o *Options) { o.Margins.Bottom = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := a4Options()
			tt.mutate(&o)
			_, err := Compute(o, nil)
			assert.ErrorIs(t, err, errs.ErrInvalidConfiguration)
		})
	}
}

func TestCompute_ClampsDegenerateGrid(t *testing.T) {
	o := a4Options()
	o.Columns = 0
	o.Rows = -3
	l, err := Compute(o, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Columns)
	assert.Equal(t, 1, l.Rows)
	assert.Equal(t, 1, l.ItemsPerPage)
}

func TestCompute_MeasuredCell(t *testing.T) {
	o := a4Options()

	t.Run("measurement overrides declared grid", func(t *testing.T) {
		// 190mm x 277mm at 96 dpi is about 718 x 1047 px.
		l, err := Compute(o, &CellSize{WidthPx: 300, HeightPx: 250})
		require.NoError(t, err)
		assert.Equal(t, StrategyMeasured, l.Strategy)
		assert.Equal(t, 2, l.Columns)
		assert.Equal(t, 4, l.Rows)
		assert.Equal(t, 8, l.ItemsPerPage)

		l, err = Compute(o, &CellSize{WidthPx: 200, HeightPx: 150})
		require.NoError(t, err)
		assert.Equal(t, 3, l.Columns)
		assert.Equal(t, 6, l.Rows)
		assert.Equal(t, 18, l.ItemsPerPage)
	})

	t.Run("cell larger than the page", func(t *testing.T) {
		l, err := Compute(o, &CellSize{WidthPx: 5000, HeightPx: 5000})
		require.NoError(t, err)
		assert.Equal(t, 1, l.ItemsPerPage)
	})

	unavailable := map[string]struct {
		cell CellSize
		dpi  float64
	}{
		"zero width":   {CellSize{WidthPx: 0, HeightPx: 250}, 96},
		"zero height":  {CellSize{WidthPx: 300, HeightPx: 0}, 96},
		"negative":     {CellSize{WidthPx: -300, HeightPx: 250}, 96},
		"nan":          {CellSize{WidthPx: math.NaN(), HeightPx: 250}, 96},
		"infinite":     {CellSize{WidthPx: math.Inf(1), HeightPx: 250}, 96},
		"zero dpi":     {CellSize{WidthPx: 300, HeightPx: 250}, 0},
		"negative dpi": {CellSize{WidthPx: 300, HeightPx: 250}, -96},
		"infinite dpi": {CellSize{WidthPx: 300, HeightPx: 250}, math.Inf(1)},
	}
	for name, tc := range unavailable {
		t.Run("falls back on "+name, func(t *testing.T) {
			oo := o
			oo.DPI = tc.dpi
			cell := tc.cell
			l, err := Compute(oo, &cell)
			require.NoError(t, err)
			assert.Equal(t, StrategyDeclared, l.Strategy)
			assert.Equal(t, 8, l.ItemsPerPage)
		})
	}
}

func TestGridFromMeasurement(t *testing.T) {
	cols, rows := GridFromMeasurement(1000, 800, CellSize{WidthPx: 300, HeightPx: 250})
	assert.Equal(t, 3, cols)
	assert.Equal(t, 3, rows)

	cols, rows = GridFromMeasurement(100, 100, CellSize{WidthPx: 300, HeightPx: 250})
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)

	cols, rows = GridFromMeasurement(1000, 800, CellSize{})
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 96.0, MmToPx(25.4, 96), 1e-9)
	assert.InDelta(t, 25.4, PxToMm(96, 96), 1e-9)
	assert.Equal(t, 0.0, PxToMm(96, 0))
	assert.InDelta(t, 72.0, MmToPt(25.4), 1e-9)
	assert.InDelta(t, 210.0, PxToMm(MmToPx(210, 300), 300), 1e-9)
}

func TestParsePaperSizeAndOrientation(t *testing.T) {
	p, err := ParsePaperSize("letter")
	require.NoError(t, err)
	assert.Equal(t, PaperLetter, p)

	_, err = ParsePaperSize("tabloid")
	assert.ErrorIs(t, err, errs.ErrInvalidConfiguration)

	o, err := ParseOrientation("L")
	require.NoError(t, err)
	assert.Equal(t, Landscape, o)
	assert.Equal(t, "L", o.Code())

	_, err = ParseOrientation("sideways")
	assert.ErrorIs(t, err, errs.ErrInvalidConfiguration)
}

func TestMetricMeasurer(t *testing.T) {
	m := NewMetricMeasurer(96)
	content := CellContent{
		Title:      "KUPON QURBAN",
		Subtitle:   "Idul Adha 1446 H",
		FooterText: "Masjid Al-Iman",
		Number:     1,
		CodeSizePx: 100,
	}
	withCode := m.Measure(content)
	require.True(t, withCode.Valid())
	assert.GreaterOrEqual(t, withCode.WidthPx, 100.0)

	content.CodeSizePx = 0
	noCode := m.Measure(content)
	assert.Less(t, noCode.HeightPx, withCode.HeightPx)

	content.Title = "A MUCH LONGER COUPON TITLE THAN USUAL FOR THIS EVENT"
	wide := m.Measure(content)
	assert.Greater(t, wide.WidthPx, noCode.WidthPx)
	assert.LessOrEqual(t, wide.WidthPx, ptToPx(MaxCellWidthPt, 96), "long titles wrap")
	assert.Greater(t, wide.HeightPx, noCode.HeightPx)

	hiDPI := NewMetricMeasurer(192).Measure(content)
	assert.InDelta(t, 2*wide.WidthPx, hiDPI.WidthPx, 1e-6)
}
