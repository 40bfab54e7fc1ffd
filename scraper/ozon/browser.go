package ozon

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"ozon-radar/models"
	"ozon-radar/services"
	"ozon-radar/utils"
)

// BrowserCapture renders a marketplace search page in headless Chrome and
// returns its markup for the card extractor.
type BrowserCapture struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// NewBrowserCapture creates a capture using chromeBin (CHROME_BIN), or a
// discovered Chrome/Chromium binary when it is empty.
func NewBrowserCapture(chromeBin string, retries int, logger *utils.Logger) *BrowserCapture {
	if chromeBin == "" {
		chromeBin = lookupChrome(chromeCandidates)
	}
	return &BrowserCapture{
		chromeBin: chromeBin,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: retries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// CaptureSearch loads the search results for keyword and returns the page HTML.
func (b *BrowserCapture) CaptureSearch(ctx context.Context, keyword string) (string, error) {
	target := services.SearchURL(keyword)
	b.logger.Info("[browser] Capturing %s (browser binary: %q)", target, b.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if b.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(b.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var markup string
	err := b.retry.Do(browserCtx, "capture-search", func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(ctx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		err := chromedp.Run(tabCtx,
			chromedp.Navigate(target),
			chromedp.Sleep(5*time.Second),
			// Scroll so lazily rendered tiles are in the DOM
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
		)
		if err != nil {
			return fmt.Errorf("chromedp capture: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", models.Wrap(models.KindSourceUnavailable, err, "browser capture")
	}

	b.logger.Info("[browser] Captured %d bytes of markup", len(markup))
	return markup, nil
}

// chromeCandidates are tried in order when no binary is configured. Bare
// names are resolved on PATH, absolute paths are checked in place.
var chromeCandidates = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"/snap/bin/chromium",
	"/opt/google/chrome/google-chrome",
}

// lookupChrome returns the first executable candidate, or "" to let chromedp
// fall back to its own discovery.
func lookupChrome(candidates []string) string {
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}
