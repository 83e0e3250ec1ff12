package rendering

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultPrintTimeout bounds one headless print.
const DefaultPrintTimeout = 30 * time.Second

// Printer turns an HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePrinter prints HTML through headless Chrome. Requires Chrome/Chromium to be installed.
type ChromePrinter struct {
	// ExecPath overrides Chrome discovery when set.
	ExecPath string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// ChromeAvailable reports whether a Chrome or Chromium binary can be found on PATH.
func ChromeAvailable() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// PrintPDF loads html into a blank page and prints it on Letter paper.
func (c *ChromePrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("headless print failed: %w", err)
	}

	logger.Debug("printed PDF", zap.Int("bytes", len(pdf)), zap.Duration("elapsed", time.Since(start)))
	return pdf, nil
}

// RenderPDF draws a laid-out document as a print PDF: the same HTML as the preview, without
// highlights, printed by p.
func RenderPDF(ctx context.Context, doc *Document, p Printer) ([]byte, error) {
	html, err := RenderHTML(doc, HTMLOptions{})
	if err != nil {
		return nil, err
	}
	pdf, err := p.PrintPDF(ctx, html)
	if err != nil {
		return nil, &RenderError{Kind: KindPDF, Message: "failed to print PDF", Cause: err}
	}
	return pdf, nil
}
