package layout

import (
	"fmt"
	"strings"

	"github.com/kuponqurban/kupon/internal/errs"
)

// PaperSize names one of the supported sheet formats.
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperA5     PaperSize = "A5"
	PaperLetter PaperSize = "Letter"
	PaperLegal  PaperSize = "Legal"
)

// Orientation represents page orientation
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Dimensions is a width and height in millimeters.
type Dimensions struct {
	Width  float64
	Height float64
}

// Portrait sheet sizes in millimeters
var paperSizes = map[PaperSize]Dimensions{
	PaperA4:     {Width: 210, Height: 297},
	PaperA5:     {Width: 148, Height: 210},
	PaperLetter: {Width: 215.9, Height: 279.4},
	PaperLegal:  {Width: 215.9, Height: 355.6},
}

// PaperSizes lists the supported formats in a stable order.
func PaperSizes() []PaperSize {
	return []PaperSize{PaperA4, PaperA5, PaperLetter, PaperLegal}
}

// ParsePaperSize accepts the paper names case-insensitively.
func ParsePaperSize(s string) (PaperSize, error) {
	for _, p := range PaperSizes() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown paper size %q", errs.ErrInvalidConfiguration, s)
}

// ParseOrientation accepts "portrait" and "landscape" (also "P" and "L").
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "p", "":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	}
	return "", fmt.Errorf("%w: unknown orientation %q", errs.ErrInvalidConfiguration, s)
}

// PaperDimensions returns the sheet size for the given orientation.
// Landscape swaps the portrait axes.
func PaperDimensions(size PaperSize, orientation Orientation) (Dimensions, error) {
	d, ok := paperSizes[size]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: unknown paper size %q", errs.ErrInvalidConfiguration, size)
	}
	switch orientation {
	case Landscape:
		d.Width, d.Height = d.Height, d.Width
	case Portrait, "":
	default:
		return Dimensions{}, fmt.Errorf("%w: unknown orientation %q", errs.ErrInvalidConfiguration, orientation)
	}
	return d, nil
}

// Code returns the single letter orientation code used by PDF writers.
func (o Orientation) Code() string {
	if o == Landscape {
		return "L"
	}
	return "P"
}

const mmPerInch = 25.4

// CSSPixelsPerInch is the reference density of a CSS pixel.
const CSSPixelsPerInch = 96.0

// MmToPx converts a physical length to pixels at the given sampling density.
func MmToPx(mm, dpi float64) float64 {
	return mm * dpi / mmPerInch
}

// PxToMm converts pixels at the given sampling density back to millimeters.
// A non-positive density yields zero.
func PxToMm(px, dpi float64) float64 {
	if dpi <= 0 {
		return 0
	}
	return px * mmPerInch / dpi
}

// MmToPt converts millimeters to PDF points (1/72 inch).
func MmToPt(mm float64) float64 {
	return mm * 72 / mmPerInch
}
