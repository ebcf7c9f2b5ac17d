// Package kupon generates printable sheets of numbered coupons.
package kupon

import (
	"github.com/kuponqurban/kupon/internal/coupon"
	"github.com/kuponqurban/kupon/internal/layout"
	"github.com/kuponqurban/kupon/internal/style"
	"github.com/kuponqurban/kupon/pkg/api"
)

type Generator = api.Generator
type Session = api.Session
type Run = api.Run
type Options = api.Options
type Option = api.Option
type Format = api.Format
type MeasureMode = api.MeasureMode
type PaperSize = layout.PaperSize
type Orientation = layout.Orientation
type CellSize = layout.CellSize
type ColorMode = style.ColorMode
type BorderStyle = style.BorderStyle
type RecoveryLevel = coupon.RecoveryLevel

func New() *Generator                                           { return api.New() }
func NewWithOptions(options Options, opts ...Option) *Generator { return api.NewWithOptions(options, opts...) }
func NewSession(g *Generator) *Session                          { return api.NewSession(g) }
func DefaultOptions() Options                                   { return api.DefaultOptions() }

var (
	LoadOptions      = api.LoadOptions
	ApplyEnv         = api.ApplyEnv
	LoadEnvFiles     = api.LoadEnvFiles
	ParseFormat      = api.ParseFormat
	ParseMeasureMode = api.ParseMeasureMode

	WithCount          = api.WithCount
	WithStartingNumber = api.WithStartingNumber
	WithContent        = api.WithContent
	WithCode           = api.WithCode
	WithoutCode        = api.WithoutCode
	WithCodeLevel      = api.WithCodeLevel
	WithPaperSize      = api.WithPaperSize
	WithOrientation    = api.WithOrientation
	WithMargins        = api.WithMargins
	WithGrid           = api.WithGrid
	WithColorMode      = api.WithColorMode
	WithBorderStyle    = api.WithBorderStyle
	WithFontSizes      = api.WithFontSizes
	WithLogo           = api.WithLogo
	WithResourcePath   = api.WithResourcePath
	WithDPI            = api.WithDPI
	WithConcurrency    = api.WithConcurrency
	WithDebug          = api.WithDebug
	WithTitle          = api.WithTitle
	WithAuthor         = api.WithAuthor
	WithSubject        = api.WithSubject
	WithKeywords       = api.WithKeywords
)

var (
	ErrInvalidConfiguration = api.ErrInvalidConfiguration
	ErrInvalidArgument      = api.ErrInvalidArgument
	ErrCodeGeneration       = api.ErrCodeGeneration
	ErrExport               = api.ErrExport
	ErrStaleRun             = api.ErrStaleRun
)

const (
	PaperA4     = layout.PaperA4
	PaperA5     = layout.PaperA5
	PaperLetter = layout.PaperLetter
	PaperLegal  = layout.PaperLegal

	Portrait  = layout.Portrait
	Landscape = layout.Landscape

	Monochrome   = style.Monochrome
	Colored      = style.Colored
	BorderSolid  = style.BorderSolid
	BorderDashed = style.BorderDashed

	FormatPDF     = api.FormatPDF
	FormatHTML    = api.FormatHTML
	FormatCapture = api.FormatCapture
	FormatPrint   = api.FormatPrint

	MeasureNone    = api.MeasureNone
	MeasureMetrics = api.MeasureMetrics
	MeasureBrowser = api.MeasureBrowser
)
