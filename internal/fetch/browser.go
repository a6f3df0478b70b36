package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/sync/semaphore"
)

// Browser is the dynamic fetch strategy. One headless Chromium process is
// shared, but every WithSession call gets its own page: session state
// (cookies, selected city, current URL) is never shared between adapters.
// Concurrent sessions are capped because each one is resource-heavy.
type Browser struct {
	mu      sync.Mutex
	browser *rod.Browser
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewBrowser(maxSessions int64, waitTimeout time.Duration) *Browser {
	return &Browser{
		sem:     semaphore.NewWeighted(maxSessions),
		timeout: waitTimeout,
	}
}

// WithSession opens a page at url, hands it to fn, and closes it on every
// exit path, including panics and timeouts. The browser process is launched
// on first use so the service can serve reads without Chromium installed.
func (b *Browser) WithSession(ctx context.Context, url string, fn func(Session) error) error {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer b.sem.Release(1)

	browser, err := b.connect()
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return &Error{URL: url, Err: err}
	}

	return fn(&rodSession{page: page, timeout: b.timeout})
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	b.browser = browser

	return browser, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	b.browser = nil

	return err
}
