package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

// A4 in inches.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

type chromeRenderer struct {
	chromePath string
	timeout    time.Duration
	logger     logger.Logger
}

func NewChromeRenderer(cfg config.Config, log logger.Logger) service.Renderer {
	timeout := cfg.Render.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chromeRenderer{chromePath: cfg.Render.ChromePath, timeout: timeout, logger: log}
}

func (r *chromeRenderer) RenderHTML(_ context.Context, cv *disclosure.PublicCV) ([]byte, error) {
	out, err := renderHTML(cv)
	if err != nil {
		return nil, apperror.NewInternal("failed to render cv template", err)
	}
	return out, nil
}

// RenderPDF loads the HTML into a fresh headless Chrome and prints it.
func (r *chromeRenderer) RenderPDF(ctx context.Context, cv *disclosure.PublicCV) ([]byte, error) {
	html, err := r.RenderHTML(ctx, cv)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	runCtx, cancelRun := context.WithTimeout(taskCtx, r.timeout)
	defer cancelRun()

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to print %q to pdf", cv.Title), err)
	}

	r.logger.Debug("Rendered PDF", zap.Int("bytes", len(pdf)), zap.Duration("took", time.Since(start)))
	return pdf, nil
}
