package capture

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/kuponqurban/kupon/internal/errs"
	"github.com/kuponqurban/kupon/internal/layout"
	preview "github.com/kuponqurban/kupon/internal/render/html"
)

// DefaultScale is the device scale used for page bitmaps.
const DefaultScale = 2.0

const countPagesJS = `document.querySelectorAll('section[id^="page-"]').length`

// Capturer screenshots every page of a preview document.
type Capturer struct {
	*Browser
	// Scale multiplies the CSS pixel size of each captured page.
	Scale float64
}

// NewCapturer creates a capturer at DefaultScale
func NewCapturer(b *Browser) *Capturer {
	return &Capturer{Browser: b, Scale: DefaultScale}
}

// CapturePages returns one PNG per page sheet, in page order.
func (c *Capturer) CapturePages(ctx context.Context, doc string, l layout.Layout) ([][]byte, error) {
	scale := c.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	w, h := paperViewport(l)

	var images [][]byte
	err := c.run(ctx, w, h,
		setContent(doc),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var n int
			if err := chromedp.Evaluate(countPagesJS, &n).Do(ctx); err != nil {
				return fmt.Errorf("failed to count pages: %w", err)
			}
			c.logger().DebugContext(ctx, "capturing pages", "pages", n, "scale", scale)

			images = make([][]byte, 0, n)
			for i := 0; i < n; i++ {
				var buf []byte
				if err := chromedp.ScreenshotScale("#"+preview.PageID(i), scale, &buf, chromedp.ByQuery).Do(ctx); err != nil {
					return fmt.Errorf("page %d: %w", i+1, err)
				}
				images = append(images, buf)
			}
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to capture pages: %w", errs.ErrExport, err)
	}
	return images, nil
}

// Printer prints a preview document through the browser's own PDF backend.
type Printer struct {
	*Browser
}

// NewPrinter creates a new printer
func NewPrinter(b *Browser) *Printer {
	return &Printer{Browser: b}
}

// PrintPDF prints doc on paper of the layout's size with no extra margins.
func (p *Printer) PrintPDF(ctx context.Context, doc string, l layout.Layout) ([]byte, error) {
	w, h := paperViewport(l)

	var buf []byte
	err := p.run(ctx, w, h,
		setContent(doc),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(l.PaperWidthMm / 25.4).
				WithPaperHeight(l.PaperHeightMm / 25.4).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to print PDF: %w", errs.ErrExport, err)
	}
	return buf, nil
}
