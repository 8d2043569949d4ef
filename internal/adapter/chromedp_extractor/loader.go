package chromedp_extractor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/extraction-service/internal/repository"
	"go.uber.org/zap"
)

// Page is a rendered document.
type Page struct {
	URL          string
	HTML         string
	StatusCode   int
	ResponseTime time.Duration
}

// PageLoader renders a URL and returns its final DOM.
type PageLoader interface {
	Load(ctx context.Context, url string) (*Page, error)
}

// ChromedpLoader renders pages as tabs of one shared headless Chrome.
type ChromedpLoader struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	slots       chan struct{}
	logger      *zap.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewChromedpLoader prepares the allocator. Chrome itself starts on the first Load.
func NewChromedpLoader(maxConcurrency int, pageLoadTimeout time.Duration, userAgent string, logger *zap.Logger) *ChromedpLoader {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpLoader{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     pageLoadTimeout,
		slots:       make(chan struct{}, maxConcurrency),
		logger:      logger,
	}
}

// Load navigates to url and returns the outer HTML once the body is ready.
func (l *ChromedpLoader) Load(ctx context.Context, url string) (*Page, error) {
	select {
	case l.slots <- struct{}{}:
		defer func() { <-l.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	browserCtx, err := l.browser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	taskCtx, cancel := context.WithTimeout(tabCtx, l.timeout)
	defer cancel()

	var status atomic.Int64
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			// Redirect chains report several documents; keep the last one.
			status.Store(e.Response.Status)
		}
	})

	var html string
	start := time.Now()
	err = chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrPageTimeout, url, l.timeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	code := int(status.Load())
	if err := checkStatus(code); err != nil {
		return nil, err
	}

	l.logger.Debug("page rendered", zap.String("url", url), zap.Int("status", code), zap.Duration("elapsed", elapsed))
	return &Page{URL: url, HTML: html, StatusCode: code, ResponseTime: elapsed}, nil
}

// Close shuts the browser down.
func (l *ChromedpLoader) Close() {
	l.mu.Lock()
	if l.browserCancel != nil {
		l.browserCancel()
	}
	l.mu.Unlock()
	l.allocCancel()
}

func (l *ChromedpLoader) browser() (context.Context, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browserCtx != nil && l.browserCtx.Err() == nil {
		return l.browserCtx, nil
	}

	ctx, cancel := chromedp.NewContext(l.allocCtx, chromedp.WithLogf(l.logger.Sugar().Debugf))
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	l.browserCtx, l.browserCancel = ctx, cancel
	return ctx, nil
}

func checkStatus(code int) error {
	switch {
	case code == 401 || code == 403:
		return fmt.Errorf("%w: received status code %d", repository.ErrContentRestricted, code)
	case code >= 400:
		return fmt.Errorf("%w: received status code %d", repository.ErrNavigationFailed, code)
	}
	return nil
}
