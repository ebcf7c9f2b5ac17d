package layout

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/kuponqurban/kupon/internal/errs"
)

// Margins represents page margins in millimeters
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// CellSize is the on-screen footprint of one rendered coupon cell in pixels.
type CellSize struct {
	WidthPx  float64
	HeightPx float64
}

// Valid reports whether the measurement can drive the measured-cell strategy.
func (c CellSize) Valid() bool {
	return finitePositive(c.WidthPx) && finitePositive(c.HeightPx)
}

// Strategy tells which input decided the grid.
type Strategy string

const (
	StrategyDeclared Strategy = "declared"
	StrategyMeasured Strategy = "measured"
)

// Options represents options for the layout engine
type Options struct {
	Paper       PaperSize
	Orientation Orientation
	Margins     Margins

	// Declared grid, always available as the fallback.
	Columns int
	Rows    int

	// DPI converts millimeters to pixels for the measured-cell strategy.
	DPI float64
}

// Layout is the derived geometry of every page in a run.
type Layout struct {
	PaperWidthMm   float64
	PaperHeightMm  float64
	UsableWidthMm  float64
	UsableHeightMm float64
	Margins        Margins

	ItemsPerPage int
	Columns      int
	Rows         int

	CellWidthMm  float64
	CellHeightMm float64

	Strategy Strategy
}

// Engine handles the layout process
type Engine struct {
	options Options
	Logger  *slog.Logger
}

// NewEngine creates a new layout engine
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			Paper:       PaperA4,
			Orientation: Portrait,
			Margins:     Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
			Columns:     2,
			Rows:        4,
			DPI:         CSSPixelsPerInch,
		},
	}
}

// SetOptions sets the options for the layout engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current engine options.
func (e *Engine) Options() Options {
	return e.options
}

// Compute derives the page layout. A valid measured cell overrides the
// declared grid; a missing or degenerate one falls back to it.
func (e *Engine) Compute(measured *CellSize) (Layout, error) {
	o := e.options
	paper, err := PaperDimensions(o.Paper, o.Orientation)
	if err != nil {
		return Layout{}, err
	}

	m := o.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return Layout{}, fmt.Errorf("%w: negative margin %+v", errs.ErrInvalidConfiguration, m)
	}
	usableW := paper.Width - m.Left - m.Right
	usableH := paper.Height - m.Top - m.Bottom
	if usableW <= 0 || usableH <= 0 {
		return Layout{}, fmt.Errorf("%w: no usable area after margins (%.1fmm x %.1fmm)",
			errs.ErrInvalidConfiguration, usableW, usableH)
	}

	l := Layout{
		PaperWidthMm:   paper.Width,
		PaperHeightMm:  paper.Height,
		UsableWidthMm:  usableW,
		UsableHeightMm: usableH,
		Margins:        m,
		Strategy:       StrategyDeclared,
		Columns:        max(1, o.Columns),
		Rows:           max(1, o.Rows),
	}

	if measured != nil && measured.Valid() && finitePositive(o.DPI) {
		l.Columns, l.Rows = GridFromMeasurement(MmToPx(usableW, o.DPI), MmToPx(usableH, o.DPI), *measured)
		l.Strategy = StrategyMeasured
	} else if measured != nil {
		e.logger().Debug("cell measurement unavailable, using declared grid",
			"width_px", measured.WidthPx, "height_px", measured.HeightPx, "dpi", o.DPI)
	}

	l.ItemsPerPage = l.Columns * l.Rows
	l.CellWidthMm = usableW / float64(l.Columns)
	l.CellHeightMm = usableH / float64(l.Rows)
	return l, nil
}

// Compute is a convenience wrapper around a one-off Engine.
func Compute(options Options, measured *CellSize) (Layout, error) {
	e := NewEngine()
	e.SetOptions(options)
	return e.Compute(measured)
}

// GridFromMeasurement returns how many measured cells fit the usable area,
// never less than one per axis.
func GridFromMeasurement(usableWidthPx, usableHeightPx float64, cell CellSize) (columns, rows int) {
	columns, rows = 1, 1
	if !cell.Valid() {
		return columns, rows
	}
	if c := math.Floor(usableWidthPx / cell.WidthPx); c > 1 {
		columns = int(c)
	}
	if r := math.Floor(usableHeightPx / cell.HeightPx); r > 1 {
		rows = int(r)
	}
	return columns, rows
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
