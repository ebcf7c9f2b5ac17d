package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kuponqurban/kupon/internal/atomicfile"
	"github.com/kuponqurban/kupon/internal/capture"
	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/pagination"
	"github.com/kuponqurban/kupon/internal/qr"
	"github.com/kuponqurban/kupon/internal/render/html"
	"github.com/kuponqurban/kupon/internal/render/pdf"
	"github.com/kuponqurban/kupon/internal/res"
)

// Format selects an export route.
type Format string

const (
	// FormatPDF draws vector coupons directly into a PDF
	FormatPDF Format = "pdf"
	// FormatHTML writes the printable HTML preview
	FormatHTML Format = "html"
	// FormatCapture screenshots each preview page and assembles them into a PDF
	FormatCapture Format = "capture"
	// FormatPrint prints the preview with the browser's PDF backend
	FormatPrint Format = "print"
)

// ParseFormat accepts pdf, html, capture and print.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatHTML, FormatCapture, FormatPrint:
		return f, nil
	case "":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", errs.ErrInvalidConfiguration, s)
}

// MeasureMode selects where a cell measurement comes from.
type MeasureMode string

const (
	// MeasureNone uses the declared grid
	MeasureNone MeasureMode = "none"
	// MeasureMetrics estimates the cell from font metrics
	MeasureMetrics MeasureMode = "metrics"
	// MeasureBrowser lays out a probe coupon in headless Chrome
	MeasureBrowser MeasureMode = "browser"
)

// ParseMeasureMode accepts none, metrics and browser.
func ParseMeasureMode(s string) (MeasureMode, error) {
	switch m := MeasureMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MeasureNone, MeasureMetrics, MeasureBrowser:
		return m, nil
	case "":
		return MeasureNone, nil
	}
	return "", fmt.Errorf("%w: unknown measure mode %q", errs.ErrInvalidConfiguration, s)
}

// Run is the committed result of one generation: the coupons and their
// pages under one layout. A Run is never modified after it is returned.
type Run struct {
	ID      uuid.UUID
	Seq     uint64
	Options Options
	Items   []coupon.Item
	Layout  layout.Layout
	Pages   []*pagination.Page

	logo *res.Image
}

// PageCount returns the number of pages in the run
func (r *Run) PageCount() int {
	return len(r.Pages)
}

// Generator is the main API for producing coupon sheets
type Generator struct {
	options Options
	encoder coupon.Encoder
	browser *capture.Browser
	logger  *slog.Logger
}

// New creates a new generator with default options
func New() *Generator {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new generator with the specified options
func NewWithOptions(options Options, opts ...Option) *Generator {
	for _, opt := range opts {
		opt(&options)
	}
	return &Generator{
		options: options,
		encoder: qr.NewEncoder(),
	}
}

// Options returns a copy of the generator's options
func (g *Generator) Options() Options {
	return g.options
}

func (g *Generator) clone(options Options) *Generator {
	c := *g
	c.options = options
	return &c
}

// WithOptions returns a new generator with the specified options
func (g *Generator) WithOptions(options Options) *Generator {
	return g.clone(options)
}

// WithOption returns a new generator with the specified options applied
func (g *Generator) WithOption(opts ...Option) *Generator {
	newOptions := g.options
	newOptions.ResourcePaths = append([]string(nil), g.options.ResourcePaths...)
	for _, opt := range opts {
		opt(&newOptions)
	}
	return g.clone(newOptions)
}

// WithEncoder returns a new generator drawing codes with enc. A nil
// encoder leaves every coupon without a code.
func (g *Generator) WithEncoder(enc coupon.Encoder) *Generator {
	c := g.clone(g.options)
	c.encoder = enc
	return c
}

// WithBrowser returns a new generator using b for capture, print and
// browser measurement.
func (g *Generator) WithBrowser(b *capture.Browser) *Generator {
	c := g.clone(g.options)
	c.browser = b
	return c
}

// WithLogger returns a new generator logging to l
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	c := g.clone(g.options)
	c.logger = l
	return c
}

// SetCount sets the number of coupons
func (g *Generator) SetCount(count int) *Generator {
	return g.WithOption(WithCount(count))
}

// SetPaperSize sets the paper size
func (g *Generator) SetPaperSize(size layout.PaperSize) *Generator {
	return g.WithOption(WithPaperSize(size))
}

// SetOrientation sets the page orientation
func (g *Generator) SetOrientation(orientation layout.Orientation) *Generator {
	return g.WithOption(WithOrientation(orientation))
}

// SetMargins sets the page margins
func (g *Generator) SetMargins(top, right, bottom, left float64) *Generator {
	return g.WithOption(WithMargins(top, right, bottom, left))
}

// SetGrid sets the declared grid
func (g *Generator) SetGrid(columns, rows int) *Generator {
	return g.WithOption(WithGrid(columns, rows))
}

// SetDPI sets the DPI
func (g *Generator) SetDPI(dpi float64) *Generator {
	return g.WithOption(WithDPI(dpi))
}

// SetDebug sets the debug mode
func (g *Generator) SetDebug(debug bool) *Generator {
	return g.WithOption(WithDebug(debug))
}

// Layout computes the page layout of the current options without
// generating any coupon.
func (g *Generator) Layout() (layout.Layout, error) {
	o, err := g.options.Validate()
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Compute(o.LayoutOptions(), nil)
}

// Generate builds the coupons and paginates them. The cell measurement is
// taken according to mode; a failed measurement falls back to the declared
// grid.
func (g *Generator) Generate(ctx context.Context, mode MeasureMode) (*Run, error) {
	o, err := g.options.Validate()
	if err != nil {
		return nil, err
	}
	measured, err := g.measure(ctx, o, mode)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, o, 0, measured)
}

func (g *Generator) generate(ctx context.Context, o Options, seq uint64, measured *layout.CellSize) (*Run, error) {
	gen := coupon.NewGenerator(o.CouponOptions(), g.encoder)
	gen.Logger = g.logger
	items, err := gen.Generate(ctx)
	if err != nil {
		return nil, err
	}

	run, err := g.paginate(o, seq, items, measured)
	if err != nil {
		return nil, err
	}
	run.logo = g.loadLogo(ctx, o)
	g.log().DebugContext(ctx, "generated run",
		"run", run.ID, "coupons", len(items), "pages", len(run.Pages),
		"columns", run.Layout.Columns, "rows", run.Layout.Rows, "strategy", run.Layout.Strategy)
	return run, nil
}

// paginate lays out already generated coupons into a new Run.
func (g *Generator) paginate(o Options, seq uint64, items []coupon.Item, measured *layout.CellSize) (*Run, error) {
	le := layout.NewEngine()
	le.Logger = g.logger
	le.SetOptions(o.LayoutOptions())
	l, err := le.Compute(measured)
	if err != nil {
		return nil, err
	}
	pages, err := pagination.NewPaginator(l).Paginate(items)
	if err != nil {
		return nil, err
	}
	return &Run{
		ID:      uuid.New(),
		Seq:     seq,
		Options: o,
		Items:   items,
		Layout:  l,
		Pages:   pages,
	}, nil
}

func (g *Generator) measure(ctx context.Context, o Options, mode MeasureMode) (*layout.CellSize, error) {
	mode, err := ParseMeasureMode(string(mode))
	if err != nil {
		return nil, err
	}
	st := o.Style()
	content := layout.CellContent{
		Title:      o.Title,
		Subtitle:   o.Subtitle,
		FooterText: o.FooterText,
		Number:     o.StartingNumber + max(o.Count-1, 0),
	}
	if o.ShowCode {
		content.CodeSizePx = int(st.CodeDisplayPx)
	}

	switch mode {
	case MeasureMetrics:
		m := layout.NewMetricMeasurer(o.DPI)
		m.TitleFontPx = st.TitleFontPx
		m.ContentFontPx = st.ContentFontPx
		cell := m.Measure(content)
		return &cell, nil
	case MeasureBrowser:
		item := coupon.Item{Number: content.Number, Title: o.Title, Subtitle: o.Subtitle, FooterText: o.FooterText}
		if o.ShowCode && g.encoder != nil {
			payload := coupon.Payload(o.CodePrefix, o.CodeSeparator, content.Number)
			code, err := g.encoder.Encode(ctx, payload, o.CouponOptions().Code)
			if err != nil {
				g.log().WarnContext(ctx, "code generation failed, measuring coupon without code",
					"number", content.Number,
					"error", fmt.Errorf("%w: %s: %w", errs.ErrCodeGeneration, payload, err))
			} else {
				item.Code = code
			}
		}
		var buf bytes.Buffer
		if err := html.NewRenderer().RenderProbe(&buf, item, html.Options{Style: st}); err != nil {
			return nil, err
		}
		cell, err := capture.NewObserver(g.getBrowser()).MeasureCell(ctx, buf.String())
		if err != nil {
			g.log().WarnContext(ctx, "browser measurement failed, using declared grid", "error", err)
			return nil, nil
		}
		return &cell, nil
	}
	return nil, nil
}

func (g *Generator) loadLogo(ctx context.Context, o Options) *res.Image {
	if o.LogoPath == "" {
		return nil
	}
	loader := res.NewLoader("")
	for _, p := range o.ResourcePaths {
		loader.AddSearchPath(p)
	}
	logo, err := loader.Load(ctx, o.LogoPath)
	if err != nil {
		g.log().WarnContext(ctx, "logo unavailable, coupons drawn without it", "logo", o.LogoPath, "error", err)
		return nil
	}
	return logo
}

// Convert generates coupons and writes them as a vector PDF to output
func (g *Generator) Convert(ctx context.Context, output io.Writer) error {
	run, err := g.Generate(ctx, MeasureNone)
	if err != nil {
		return err
	}
	return g.Export(ctx, run, FormatPDF, output, false)
}

// ConvertToFile generates coupons and writes a vector PDF to outputPath
func (g *Generator) ConvertToFile(ctx context.Context, outputPath string) error {
	run, err := g.Generate(ctx, MeasureNone)
	if err != nil {
		return err
	}
	return g.pdfRenderer(run).RenderToFile(run.Pages, run.Layout, outputPath, g.renderOptions(run))
}

// ConvertBytes generates coupons and returns the vector PDF bytes
func (g *Generator) ConvertBytes(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Convert(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes run in the given format. dark selects the preview theme and
// only affects the HTML based routes.
func (g *Generator) Export(ctx context.Context, run *Run, format Format, w io.Writer, dark bool) error {
	if run == nil {
		return fmt.Errorf("%w: no run to export", errs.ErrInvalidArgument)
	}
	switch format {
	case FormatPDF, "":
		return g.pdfRenderer(run).Render(run.Pages, run.Layout, w, g.renderOptions(run))
	case FormatHTML:
		return html.NewRenderer().Render(w, run.Pages, run.Layout, g.htmlOptions(run, dark))
	case FormatCapture:
		doc, err := html.NewRenderer().RenderString(run.Pages, run.Layout, g.htmlOptions(run, false))
		if err != nil {
			return err
		}
		images, err := capture.NewCapturer(g.getBrowser()).CapturePages(ctx, doc, run.Layout)
		if err != nil {
			return err
		}
		return pdf.NewAssembler().Assemble(images, run.Layout, w, g.renderOptions(run))
	case FormatPrint:
		doc, err := html.NewRenderer().RenderString(run.Pages, run.Layout, g.htmlOptions(run, false))
		if err != nil {
			return err
		}
		data, err := capture.NewPrinter(g.getBrowser()).PrintPDF(ctx, doc, run.Layout)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: failed to write PDF: %w", errs.ErrExport, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown format %q", errs.ErrInvalidArgument, format)
}

// ExportToFile writes run to path in the given format. The document is
// written to a temporary file first and renamed into place, so a failed
// export leaves no partial file behind.
func (g *Generator) ExportToFile(ctx context.Context, run *Run, format Format, path string, dark bool) error {
	if run == nil {
		return fmt.Errorf("%w: no run to export", errs.ErrInvalidArgument)
	}
	err := atomicfile.Write(path, func(w io.Writer) error {
		return g.Export(ctx, run, format, w, dark)
	})
	if err != nil && !errors.Is(err, errs.ErrExport) && !errors.Is(err, errs.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", errs.ErrExport, err)
	}
	return err
}

func (g *Generator) pdfRenderer(run *Run) *pdf.Renderer {
	r := pdf.NewRenderer()
	r.Logger = g.logger
	r.Debug = run.Options.Debug
	r.DebugDrawBoxes = run.Options.DebugDrawBoxes
	r.Logo = run.logo
	return r
}

func (g *Generator) renderOptions(run *Run) pdf.RenderOptions {
	return pdf.RenderOptions{
		Title:    run.Options.DocTitle,
		Author:   run.Options.Author,
		Subject:  run.Options.Subject,
		Keywords: run.Options.Keywords,
		Creator:  "kupon",
		Producer: "kupon",
		Style:    run.Options.Style(),
	}
}

func (g *Generator) htmlOptions(run *Run, dark bool) html.Options {
	return html.Options{
		Title: run.Options.DocTitle,
		Style: run.Options.Style(),
		Dark:  dark,
		Logo:  run.logo,
	}
}

func (g *Generator) getBrowser() *capture.Browser {
	if g.browser != nil {
		return g.browser
	}
	b := capture.NewBrowser()
	b.Logger = g.logger
	return b
}

func (g *Generator) log() *slog.Logger {
	if g.logger == nil {
		return slog.Default()
	}
	return g.logger
}
