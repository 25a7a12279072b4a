package bookfetch

import "context"

// Fetcher retrieves decoded page markup from URLs.
// Implementations own header construction and charset decoding.
type Fetcher interface {
	// Fetch retrieves the markup at url, decoded to UTF-8.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Limiter paces requests to the origin between page fetches.
type Limiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
