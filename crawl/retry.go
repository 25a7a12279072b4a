package crawl

import (
	"context"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// retryBaseDelay is the unit of the linearly increasing backoff between
// fetch attempts: 0.8s, 1.6s, 2.4s, ...
const retryBaseDelay = 800 * time.Millisecond

// LinearRetryDelays returns the backoff delays for a fetch performed with
// the given total attempt count. attempts <= 1 means no retries.
func LinearRetryDelays(attempts int) []time.Duration {
	if attempts <= 1 {
		return nil
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = time.Duration(i+1) * retryBaseDelay
	}
	return delays
}

// FetchWithRetryDelays attempts to fetch a URL, retrying once per entry in
// delays with the corresponding wait before each retry. The logger function,
// if provided, is called for each retry attempt. The context cancels the
// backoff sleep; the last fetch error is returned once all attempts are
// exhausted.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
