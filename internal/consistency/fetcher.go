package consistency

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/logging"
)

const (
	RequestTimeout   = 30 * time.Second
	RetryCount       = 3
	RetryWaitTime    = 200 * time.Millisecond
	RetryWaitTimeMax = 3 * time.Second
)

// Fetcher reads a canonical term table.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches canonical sources over HTTP with retries.
type HTTPFetcher struct {
	http *resty.Client
	log  *zap.Logger
}

// NewHTTPFetcher creates a fetcher with the default timeout and retry policy.
func NewHTTPFetcher(log *zap.Logger) *HTTPFetcher {
	f := &HTTPFetcher{http: resty.New(), log: logging.OrNop(log)}
	f.http.SetHeader("User-Agent", "vocabpack")
	f.http.SetTimeout(RequestTimeout)
	f.http.SetRetryCount(RetryCount)
	f.http.SetRetryWaitTime(RetryWaitTime)
	f.http.SetRetryMaxWaitTime(RetryWaitTimeMax)
	f.http.AddRetryCondition(func(response *resty.Response, err error) bool {
		if response == nil {
			return err != nil
		}
		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	})
	f.http.AddRetryHook(func(response *resty.Response, err error) {
		if response != nil && response.Request != nil {
			f.log.Warn("retrying canonical fetch",
				zap.String("url", response.Request.URL), zap.Int("status", response.StatusCode()))
		}
	})
	return f
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode())
	}
	f.log.Debug("fetched canonical source", zap.String("url", url), zap.Int("bytes", len(resp.Body())))
	return resp.Body(), nil
}
