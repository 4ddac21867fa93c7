package scraper

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	defaultTimeout        = 10 * time.Second
	defaultBrowserTimeout = 30 * time.Second
	acceptEncoding        = "gzip"
	maxBodySize           = 10 << 20
)

// Fetcher returns the HTML of a listing page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError wraps a failed page fetch.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// HTTPFetcher downloads pages with a browser-like User-Agent.
type HTTPFetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

func NewHTTPFetcher(userAgent string, logger *zap.Logger) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPFetcher{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		UserAgent:  userAgent,
		logger:     logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "building request", Cause: err}
	}
	req = f.setHeaders(req)

	f.logger.Debug("make request", zap.String("url", url))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Message: fmt.Sprintf("bad status: %s", resp.Status)}
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &FetchError{URL: url, Message: "opening gzip body", Cause: err}
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Message: "reading body", Cause: err}
	}

	return data, nil
}

func (f *HTTPFetcher) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	return req
}

// BrowserFetcher renders pages in headless Chrome. Listing pages that build
// their cards with JavaScript need it. Chrome or Chromium must be installed.
type BrowserFetcher struct {
	Timeout   time.Duration
	UserAgent string
	logger    *zap.Logger
}

func NewBrowserFetcher(userAgent string, logger *zap.Logger) *BrowserFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BrowserFetcher{Timeout: defaultBrowserTimeout, UserAgent: userAgent, logger: logger}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.logger.Debug("render page in headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "browser rendering failed", Cause: err}
	}

	f.logger.Debug("page rendered", zap.String("url", url), zap.Int("bytes", len(html)))

	return []byte(html), nil
}
