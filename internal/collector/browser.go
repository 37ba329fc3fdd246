package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher loads the page in headless Chrome so that the
// script-rendered statistics table is present in the returned markup.
type BrowserFetcher struct {
	URL      string
	WaitFor  string // CSS selector that must render before the page counts as loaded
	Timeout  time.Duration
	Headless bool
}

// NewBrowserFetcher creates a headless fetcher that waits for waitFor
// to appear in the DOM before serializing it.
func NewBrowserFetcher(pageURL, waitFor string) *BrowserFetcher {
	return &BrowserFetcher{
		URL:      pageURL,
		WaitFor:  waitFor,
		Timeout:  60 * time.Second,
		Headless: true,
	}
}

func (f *BrowserFetcher) Name() string { return "browser" }

func (f *BrowserFetcher) FetchPage(ctx context.Context) (string, error) {
	l := launcher.New().Headless(f.Headless).NoSandbox(true)
	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("%w: launch browser: %v", ErrFetch, err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("%w: connect browser: %v", ErrFetch, err)
	}
	defer browser.Close()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := browser.Context(runCtx).Page(proto.TargetCreateTarget{URL: f.URL})
	if err != nil {
		return "", fmt.Errorf("%w: open page: %v", ErrFetch, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: wait load: %v", ErrFetch, err)
	}
	if f.WaitFor != "" {
		if _, err := page.Element(f.WaitFor); err != nil {
			return "", fmt.Errorf("%w: wait for %q: %v", ErrFetch, f.WaitFor, err)
		}
	}

	markup, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: serialize page: %v", ErrFetch, err)
	}
	return markup, nil
}
