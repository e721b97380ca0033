package client

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type leveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

// re-writes HTTP client DEBUG to INFO level (this is where retry is logged)
func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

// Generates an HTTP client with decent defaults for a batch CLI tool talking to a PDS.
//
// The returned client has the stdlib [http.Client] interface, with Hashicorp retryablehttp logic internally. It retries connection errors, 5xx status (except 501), and 429 responses. For 429 responses, the atproto "ratelimit-reset" header is respected (up to the max wait), falling back to 'Retry-After' and then exponential backoff. Once retries are exhausted the final HTTP response is returned as-is, so the API error body can be parsed.
//
// Each attempt is traced with otelhttp. If logger is nil, [slog.Default] is used.
func RobustHTTPClient(logger *slog.Logger) *http.Client {
	if logger == nil {
		logger = slog.Default()
	}
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = otelhttp.NewTransport(cleanhttp.DefaultPooledTransport())
	retryClient.RetryMax = 4
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Backoff = RatelimitBackoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{logger.With("component", "http")})
	client := retryClient.StandardClient()
	client.Timeout = 60 * time.Second
	return client
}

// Backoff policy which waits until the "ratelimit-reset" time on 429 responses, bounded by max.
func RatelimitBackoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if n, err := strconv.ParseInt(resp.Header.Get("ratelimit-reset"), 10, 64); err == nil {
			wait := time.Until(time.Unix(n, 0))
			if wait > max {
				return max
			}
			if wait > 0 {
				return wait
			}
		}
	}
	return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
}
