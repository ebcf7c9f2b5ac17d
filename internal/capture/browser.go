// Package capture drives a headless Chrome to measure, screenshot and print
// the HTML preview.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/kuponqurban/kupon/internal/layout"
)

// DefaultTimeout bounds one browser session.
const DefaultTimeout = 60 * time.Second

// DetectChromePath finds a Chrome or Chromium executable. CHROME_PATH wins
// when it points at an existing file; an empty result lets chromedp search
// on its own.
func DetectChromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Browser starts a fresh headless browser for every session.
type Browser struct {
	ExecPath string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewBrowser creates a browser using the detected executable
func NewBrowser() *Browser {
	return &Browser{ExecPath: DetectChromePath(), Timeout: DefaultTimeout}
}

// run allocates a browser tab sized to the viewport and executes actions in it.
func (b *Browser) run(ctx context.Context, width, height int64, actions ...chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("hide-scrollbars", true),
	)
	if b.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.ExecPath))
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(b.logf))
	defer cancelTab()

	b.logger().DebugContext(ctx, "starting browser", "exec", b.ExecPath, "viewport_width", width, "viewport_height", height)
	all := append([]chromedp.Action{
		chromedp.EmulateViewport(width, height),
		chromedp.Navigate("about:blank"),
	}, actions...)
	return chromedp.Run(tabCtx, all...)
}

func (b *Browser) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Browser) logf(format string, args ...any) {
	b.logger().Debug(fmt.Sprintf(format, args...))
}

// setContent replaces the blank page with the given document and waits for it.
func setContent(doc string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
}

// paperViewport returns the paper size in CSS pixels.
func paperViewport(l layout.Layout) (int64, int64) {
	w := int64(math.Ceil(layout.MmToPx(l.PaperWidthMm, layout.CSSPixelsPerInch)))
	h := int64(math.Ceil(layout.MmToPx(l.PaperHeightMm, layout.CSSPixelsPerInch)))
	return max(w, 1), max(h, 1)
}
