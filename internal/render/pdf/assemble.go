package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"

	"codeberg.org/go-pdf/fpdf"

	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
)

// Rect is a placement on the page in millimeters.
type Rect struct {
	X, Y, W, H float64
}

// FitRect scales an image of imgW x imgH pixels to the largest size that
// fits the page while keeping its aspect ratio, centered on the page.
func FitRect(imgW, imgH int, pageW, pageH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{W: pageW, H: pageH}
	}
	aspect := float64(imgW) / float64(imgH)
	w := pageW
	h := w / aspect
	if h > pageH {
		h = pageH
		w = h * aspect
	}
	return Rect{X: (pageW - w) / 2, Y: (pageH - h) / 2, W: w, H: h}
}

// Assembler composes captured page images into a PDF, one image per page.
type Assembler struct{}

// NewAssembler creates a new assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble places every PNG on its own page sized to the layout's paper.
// Any undecodable image fails the whole document.
func (a *Assembler) Assemble(images [][]byte, l layout.Layout, w io.Writer, options RenderOptions) error {
	if len(images) == 0 {
		return fmt.Errorf("%w: no page images to assemble", errs.ErrExport)
	}
	pdf := newDocument(l, options)

	for i, data := range images {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%w: page %d: failed to decode captured image: %w", errs.ErrExport, i+1, err)
		}
		if format != "png" {
			return fmt.Errorf("%w: page %d: captured image is %s, want png", errs.ErrExport, i+1, format)
		}

		name := "page-" + strconv.Itoa(i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

		pdf.AddPage()
		pw, ph := pdf.GetPageSize()
		rect := FitRect(cfg.Width, cfg.Height, pw, ph)
		pdf.ImageOptions(name, rect.X, rect.Y, rect.W, rect.H, false, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: failed to assemble PDF: %w", errs.ErrExport, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: failed to write PDF: %w", errs.ErrExport, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: failed to write PDF: %w", errs.ErrExport, err)
	}
	return nil
}

// AssembleToFile assembles into outputPath without leaving partial files.
func (a *Assembler) AssembleToFile(images [][]byte, l layout.Layout, outputPath string, options RenderOptions) error {
	return writeFileAtomic(outputPath, func(w io.Writer) error {
		return a.Assemble(images, l, w, options)
	})
}
