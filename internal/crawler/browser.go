package crawler

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders the page in headless Chrome and returns the
// resulting DOM. Use it when the listing is filled in by scripts.
type BrowserFetcher struct {
	UserAgent string
	Timeout   time.Duration
	// WaitSelector is awaited before the DOM is captured.
	WaitSelector string
}

func NewBrowserFetcher(userAgent string, timeout time.Duration, waitSelector string) *BrowserFetcher {
	return &BrowserFetcher{UserAgent: userAgent, Timeout: timeout, WaitSelector: waitSelector}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.Timeout)
	defer cancelTimeout()

	waitFor := f.WaitSelector
	if waitFor == "" {
		waitFor = "body"
	}

	var markup string
	err := chromedp.Run(browserCtx,
		emulation.SetUserAgentOverride(f.UserAgent),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady(waitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	return []byte(markup), nil
}
