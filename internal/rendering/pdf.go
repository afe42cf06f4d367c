package rendering

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultPDFTimeout bounds a single PDF conversion.
const DefaultPDFTimeout = 30 * time.Second

// PrintPDF loads a rendered HTML file in headless Chrome and returns it printed as PDF.
// Requires Chrome/Chromium to be installed on the system.
func PrintPDF(ctx context.Context, htmlPath string, timeout time.Duration, logger *zap.Logger) ([]byte, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, &RenderError{Message: "failed to resolve HTML path", Cause: err}
	}
	logger.Debug("starting headless browser", zap.String("html", abs))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: fmt.Sprintf("PDF conversion failed for %s", htmlPath), Cause: err}
	}

	logger.Debug("PDF printed", zap.Int("bytes", len(pdf)))
	return pdf, nil
}
