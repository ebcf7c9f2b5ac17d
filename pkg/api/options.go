package api

import (
	"fmt"

	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/style"
)

// Options represents the full configuration of a coupon run
type Options struct {
	// Numbering
	Count          int `yaml:"count"`
	StartingNumber int `yaml:"startingNumber"`

	// Coupon content
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`
	FooterText string `yaml:"footerText"`

	// Code symbol
	ShowCode          bool                 `yaml:"showCode"`
	CodePrefix        string               `yaml:"codePrefix"`
	CodeSeparator     string               `yaml:"codeSeparator"`
	CodeSizePx        int                  `yaml:"codeSize"`
	CodeLevel         coupon.RecoveryLevel `yaml:"codeLevel"`
	CodeMarginModules int                  `yaml:"codeMargin"`

	// Paper and grid
	PaperSize    layout.PaperSize   `yaml:"paperSize"`
	Orientation  layout.Orientation `yaml:"orientation"`
	MarginTop    float64            `yaml:"marginTop"`
	MarginRight  float64            `yaml:"marginRight"`
	MarginBottom float64            `yaml:"marginBottom"`
	MarginLeft   float64            `yaml:"marginLeft"`
	Columns      int                `yaml:"columns"`
	Rows         int                `yaml:"rows"`

	// Card look
	ColorMode       style.ColorMode   `yaml:"colorMode"`
	BorderStyle     style.BorderStyle `yaml:"borderStyle"`
	Accent          string            `yaml:"accent"`
	TitleFontSize   float64           `yaml:"titleFontSize"`
	ContentFontSize float64           `yaml:"contentFontSize"`
	LogoPath        string            `yaml:"logo"`
	ResourcePaths   []string          `yaml:"resourcePaths"`

	// Rendering options
	DPI   float64 `yaml:"dpi"`
	Debug bool    `yaml:"debug"`
	// When true, outline every grid slot in the vector PDF
	DebugDrawBoxes bool `yaml:"debugDrawBoxes"`
	// Concurrency bounds the code symbols generated at once
	Concurrency int `yaml:"concurrency"`

	// Document metadata
	DocTitle string `yaml:"docTitle"`
	Author   string `yaml:"author"`
	Subject  string `yaml:"subject"`
	Keywords string `yaml:"keywords"`
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	c := coupon.DefaultOptions()
	l := layout.NewEngine().Options()
	s := style.Default()
	return Options{
		Count:          c.Count,
		StartingNumber: c.StartingNumber,

		Title:      c.Title,
		Subtitle:   c.Subtitle,
		FooterText: c.FooterText,

		ShowCode:          c.ShowCode,
		CodePrefix:        c.CodePrefix,
		CodeSeparator:     c.CodeSeparator,
		CodeSizePx:        c.Code.SizePx,
		CodeLevel:         c.Code.Level,
		CodeMarginModules: c.Code.MarginModules,

		// A4 portrait, 10mm margins, 2 x 4 grid
		PaperSize:    l.Paper,
		Orientation:  l.Orientation,
		MarginTop:    l.Margins.Top,
		MarginRight:  l.Margins.Right,
		MarginBottom: l.Margins.Bottom,
		MarginLeft:   l.Margins.Left,
		Columns:      l.Columns,
		Rows:         l.Rows,

		ColorMode:       s.ColorMode,
		BorderStyle:     s.BorderStyle,
		Accent:          s.Accent,
		TitleFontSize:   s.TitleFontPx,
		ContentFontSize: s.ContentFontPx,
		ResourcePaths:   []string{},

		DPI:         l.DPI,
		Concurrency: c.Concurrency,

		DocTitle: "Kupon",
	}
}

// Validate normalizes the enumerations and rejects configurations that
// cannot produce a run. It returns the normalized copy.
func (o Options) Validate() (Options, error) {
	var err error
	if o.PaperSize, err = layout.ParsePaperSize(string(o.PaperSize)); err != nil {
		return o, err
	}
	if o.Orientation, err = layout.ParseOrientation(string(o.Orientation)); err != nil {
		return o, err
	}
	if o.CodeLevel, err = coupon.ParseRecoveryLevel(string(o.CodeLevel)); err != nil {
		return o, err
	}
	if o.ColorMode, err = style.ParseColorMode(string(o.ColorMode)); err != nil {
		return o, err
	}
	if o.BorderStyle, err = style.ParseBorderStyle(string(o.BorderStyle)); err != nil {
		return o, err
	}
	if o.TitleFontSize < 0 || o.ContentFontSize < 0 {
		return o, fmt.Errorf("%w: negative font size", errs.ErrInvalidConfiguration)
	}
	if o.CodeMarginModules < 0 {
		return o, fmt.Errorf("%w: negative code margin %d", errs.ErrInvalidConfiguration, o.CodeMarginModules)
	}
	if err := o.CouponOptions().Validate(); err != nil {
		return o, err
	}
	// Paper, margins and usable area are checked by the layout itself.
	if _, err := layout.Compute(o.LayoutOptions(), nil); err != nil {
		return o, err
	}
	return o, nil
}

// CouponOptions returns the numbering and content part of the options.
func (o Options) CouponOptions() coupon.Options {
	return coupon.Options{
		Count:          o.Count,
		StartingNumber: o.StartingNumber,
		Title:          o.Title,
		Subtitle:       o.Subtitle,
		FooterText:     o.FooterText,
		ShowCode:       o.ShowCode,
		CodePrefix:     o.CodePrefix,
		CodeSeparator:  o.CodeSeparator,
		Code: coupon.CodeOptions{
			SizePx:        o.CodeSizePx,
			Level:         o.CodeLevel,
			MarginModules: o.CodeMarginModules,
		},
		Concurrency: o.Concurrency,
	}
}

// LayoutOptions returns the paper and grid part of the options.
func (o Options) LayoutOptions() layout.Options {
	return layout.Options{
		Paper:       o.PaperSize,
		Orientation: o.Orientation,
		Margins: layout.Margins{
			Top:    o.MarginTop,
			Right:  o.MarginRight,
			Bottom: o.MarginBottom,
			Left:   o.MarginLeft,
		},
		Columns: o.Columns,
		Rows:    o.Rows,
		DPI:     o.DPI,
	}
}

// Style returns the card look of the options.
func (o Options) Style() style.Style {
	s := style.Default()
	s.ColorMode = o.ColorMode
	s.BorderStyle = o.BorderStyle
	if o.Accent != "" {
		s.Accent = o.Accent
	}
	if o.TitleFontSize > 0 {
		s.TitleFontPx = o.TitleFontSize
	}
	if o.ContentFontSize > 0 {
		s.ContentFontPx = o.ContentFontSize
	}
	if o.CodeSizePx > 0 {
		s.CodeDisplayPx = float64(o.CodeSizePx)
	}
	return s
}

// WithCount sets the number of coupons
func WithCount(count int) Option {
	return func(o *Options) {
		o.Count = count
	}
}

// WithStartingNumber sets the first coupon number
func WithStartingNumber(n int) Option {
	return func(o *Options) {
		o.StartingNumber = n
	}
}

// WithContent sets the texts printed on every coupon
func WithContent(title, subtitle, footer string) Option {
	return func(o *Options) {
		o.Title = title
		o.Subtitle = subtitle
		o.FooterText = footer
	}
}

// WithCode enables code symbols with the given payload prefix and separator
func WithCode(prefix, separator string) Option {
	return func(o *Options) {
		o.ShowCode = true
		o.CodePrefix = prefix
		o.CodeSeparator = separator
	}
}

// WithoutCode disables code symbols
func WithoutCode() Option {
	return func(o *Options) {
		o.ShowCode = false
	}
}

// WithCodeLevel sets the code error correction level
func WithCodeLevel(level coupon.RecoveryLevel) Option {
	return func(o *Options) {
		o.CodeLevel = level
	}
}

// WithPaperSize sets the paper size
func WithPaperSize(size layout.PaperSize) Option {
	return func(o *Options) {
		o.PaperSize = size
	}
}

// WithOrientation sets the page orientation
func WithOrientation(orientation layout.Orientation) Option {
	return func(o *Options) {
		o.Orientation = orientation
	}
}

// WithMargins sets the page margins in millimeters
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithGrid sets the declared columns and rows
func WithGrid(columns, rows int) Option {
	return func(o *Options) {
		o.Columns = columns
		o.Rows = rows
	}
}

// WithColorMode sets the card color mode
func WithColorMode(mode style.ColorMode) Option {
	return func(o *Options) {
		o.ColorMode = mode
	}
}

// WithBorderStyle sets the card outline
func WithBorderStyle(border style.BorderStyle) Option {
	return func(o *Options) {
		o.BorderStyle = border
	}
}

// WithFontSizes sets the title and content font sizes in pixels
func WithFontSizes(title, content float64) Option {
	return func(o *Options) {
		o.TitleFontSize = title
		o.ContentFontSize = content
	}
}

// WithLogo sets the logo drawn behind coupon numbers
func WithLogo(path string) Option {
	return func(o *Options) {
		o.LogoPath = path
	}
}

// WithResourcePath adds a path to search for the logo
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithDPI sets the DPI
func WithDPI(dpi float64) Option {
	return func(o *Options) {
		o.DPI = dpi
	}
}

// WithConcurrency bounds concurrent code generation
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.DocTitle = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}
