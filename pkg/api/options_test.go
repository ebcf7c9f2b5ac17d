package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/style"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 10, o.Count)
	assert.Equal(t, 1, o.StartingNumber)
	assert.Equal(t, "KUPON QURBAN", o.Title)
	assert.Equal(t, "Idul Adha 1446 H", o.Subtitle)
	assert.Equal(t, "Masjid Al-Iman", o.FooterText)
	assert.True(t, o.ShowCode)
	assert.Equal(t, "QURBAN", o.CodePrefix)
	assert.Equal(t, "-", o.CodeSeparator)
	assert.Equal(t, 100, o.CodeSizePx)
	assert.Equal(t, coupon.RecoveryMedium, o.CodeLevel)
	assert.Equal(t, layout.PaperA4, o.PaperSize)
	assert.Equal(t, layout.Portrait, o.Orientation)
	assert.Equal(t, 10.0, o.MarginLeft)
	assert.Equal(t, 2, o.Columns)
	assert.Equal(t, 4, o.Rows)
	assert.Equal(t, style.Monochrome, o.ColorMode)
	assert.Equal(t, 96.0, o.DPI)

	_, err := o.Validate()
	require.NoError(t, err)
}

func TestOptions_Validate(t *testing.T) {
	t.Run("normalizes enumerations", func(t *testing.T) {
		o := DefaultOptions()
		o.PaperSize = "letter"
		o.Orientation = "L"
		o.CodeLevel = "h"
		o.ColorMode = "color"
		o.BorderStyle = ""
		got, err := o.Validate()
		require.NoError(t, err)
		assert.Equal(t, layout.PaperLetter, got.PaperSize)
		assert.Equal(t, layout.Landscape, got.Orientation)
		assert.Equal(t, coupon.RecoveryHigh, got.CodeLevel)
		assert.Equal(t, style.Colored, got.ColorMode)
		assert.Equal(t, style.BorderSolid, got.BorderStyle)
	})

	cases := map[string]Option{
		"negative count":  WithCount(-1),
		"unknown paper":   WithPaperSize("B5"),
		"bad orientation": WithOrientation("sideways"),
		"bad level":       WithCodeLevel("X"),
		"bad color mode":  WithColorMode("rainbow"),
		"bad border":      WithBorderStyle("dotted"),
		"huge margins":    WithMargins(150, 10, 150, 10),
		"negative margin": WithMargins(-1, 10, 10, 10),
		"negative font":   WithFontSizes(-1, 12),
	}
	for name, opt := range cases {
		t.Run(name, func(t *testing.T) {
			o := DefaultOptions()
			opt(&o)
			_, err := o.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestOptions_Parts(t *testing.T) {
	o := DefaultOptions()
	for _, opt := range []Option{
		WithCount(3),
		WithStartingNumber(40),
		WithContent("A", "B", "C"),
		WithCode("X", "/"),
		WithGrid(3, 5),
		WithMargins(1, 2, 3, 4),
		WithFontSizes(16, 10),
		WithColorMode(style.Colored),
	} {
		opt(&o)
	}

	c := o.CouponOptions()
	assert.Equal(t, 3, c.Count)
	assert.Equal(t, 40, c.StartingNumber)
	assert.Equal(t, "C", c.FooterText)
	assert.Equal(t, "/", c.CodeSeparator)

	l := o.LayoutOptions()
	assert.Equal(t, layout.Margins{Top: 1, Right: 2, Bottom: 3, Left: 4}, l.Margins)
	assert.Equal(t, 3, l.Columns)
	assert.Equal(t, 5, l.Rows)

	s := o.Style()
	assert.Equal(t, 16.0, s.TitleFontPx)
	assert.Equal(t, 10.0, s.ContentFontPx)
	assert.Equal(t, style.Colored, s.ColorMode)
	assert.Equal(t, style.DefaultAccent, s.Accent)
}

func TestDecodeOptions(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		o, err := DecodeOptions(strings.NewReader(`
count: 25
startingNumber: 100
paperSize: A5
orientation: landscape
columns: 3
rows: 2
colorMode: colored
marginTop: 5
`))
		require.NoError(t, err)
		assert.Equal(t, 25, o.Count)
		assert.Equal(t, 100, o.StartingNumber)
		assert.Equal(t, layout.PaperA5, o.PaperSize)
		assert.Equal(t, layout.Landscape, o.Orientation)
		assert.Equal(t, 5.0, o.MarginTop)
		assert.Equal(t, 10.0, o.MarginLeft, "unset keys keep defaults")
		assert.Equal(t, "KUPON QURBAN", o.Title)
	})

	t.Run("empty document", func(t *testing.T) {
		o, err := DecodeOptions(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions(), o)
	})

	for name, doc := range map[string]string{
		"non-integer count": "count: 2.5\n",
		"text count":        "count: many\n",
		"unknown key":       "colour: red\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeOptions(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kupon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 7\n"), 0o644))
	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 7, o.Count)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestApplyEnv(t *testing.T) {
	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	o, err := applyEnv(DefaultOptions(), env(map[string]string{
		"KUPON_COUNT":       "12",
		"KUPON_START":       "5",
		"KUPON_PAPER":       "Legal",
		"KUPON_MARGIN":      "7.5",
		"KUPON_SHOW_CODE":   "false",
		"KUPON_TITLE":       "KUPON",
		"KUPON_COLOR_MODE":  "colored",
		"KUPON_CONCURRENCY": "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, 12, o.Count)
	assert.Equal(t, 5, o.StartingNumber)
	assert.Equal(t, layout.PaperSize("Legal"), o.PaperSize)
	assert.Equal(t, 7.5, o.MarginTop)
	assert.Equal(t, 7.5, o.MarginRight)
	assert.False(t, o.ShowCode)
	assert.Equal(t, "KUPON", o.Title)
	assert.Equal(t, 2, o.Concurrency)
	assert.Equal(t, 4, o.Rows, "unset variables keep the value")

	for name, m := range map[string]map[string]string{
		"non-integer count": {"KUPON_COUNT": "2.5"},
		"bad margin":        {"KUPON_MARGIN": "wide"},
		"bad bool":          {"KUPON_DEBUG": "maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := applyEnv(DefaultOptions(), env(m))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestApplyEnv_Process(t *testing.T) {
	t.Setenv("KUPON_ROWS", "6")
	o, err := ApplyEnv(DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, o.Rows)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KUPON_COLUMNS=5\n"), 0o644))
	t.Setenv("KUPON_COLUMNS", "1")

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))
	o, err := ApplyEnv(DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, o.Columns)
}

func TestParseFormatAndMeasureMode(t *testing.T) {
	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	m, err := ParseMeasureMode("metrics")
	require.NoError(t, err)
	assert.Equal(t, MeasureMetrics, m)
	_, err = ParseMeasureMode("ruler")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
