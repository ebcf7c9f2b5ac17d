package capture

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/kuponqurban/kupon/internal/layout"
	preview "github.com/kuponqurban/kupon/internal/render/html"
)

// measureViewport is large enough that a probe coupon is never squeezed.
const measureViewport = 2000

const cellRectJS = `(function() {
	const el = document.querySelector(%q);
	if (!el) { return {width: 0, height: 0}; }
	const r = el.getBoundingClientRect();
	return {width: r.width, height: r.height};
})()`

const screenDPIJS = `(function() {
	const probe = document.createElement('div');
	probe.style.cssText = 'width:1in;height:1in;position:absolute;left:-100in;';
	document.body.appendChild(probe);
	const dpi = probe.offsetWidth * (window.devicePixelRatio || 1);
	document.body.removeChild(probe);
	return dpi;
})()`

type rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Observer reports sizes of laid-out content in a real browser.
type Observer struct {
	*Browser
}

// NewObserver creates a new observer
func NewObserver(b *Browser) *Observer {
	return &Observer{Browser: b}
}

// MeasureCell lays out doc, normally a probe document, and returns the size
// of its first coupon. A document without coupons yields a zero size, which
// the layout engine treats as no measurement.
func (o *Observer) MeasureCell(ctx context.Context, doc string) (layout.CellSize, error) {
	var r rect
	err := o.run(ctx, measureViewport, measureViewport,
		setContent(doc),
		chromedp.Evaluate(fmt.Sprintf(cellRectJS, preview.CellSelector), &r),
	)
	if err != nil {
		return layout.CellSize{}, fmt.Errorf("failed to measure cell: %w", err)
	}
	o.logger().DebugContext(ctx, "measured cell", "width_px", r.Width, "height_px", r.Height)
	return layout.CellSize{WidthPx: r.Width, HeightPx: r.Height}, nil
}

// ScreenDPI returns the device pixels covered by one CSS inch.
func (o *Observer) ScreenDPI(ctx context.Context) (float64, error) {
	var dpi float64
	err := o.run(ctx, measureViewport, measureViewport,
		setContent("<!DOCTYPE html><html><body></body></html>"),
		chromedp.Evaluate(screenDPIJS, &dpi),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to probe screen DPI: %w", err)
	}
	if dpi <= 0 {
		return layout.CSSPixelsPerInch, nil
	}
	return dpi, nil
}
