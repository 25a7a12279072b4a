// Package crawl walks a book page by page. Each page's markup is fetched,
// run through the extractor, and mined for the link to the next page; the
// crawl is strictly sequential because the next URL is only known once the
// current page has been parsed.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/bookfetch"
)

// DefaultMaxPages is the safety cap on pages fetched in one run.
const DefaultMaxPages = 10000

// ProgressEvent reports the state of the crawl after each extracted page.
type ProgressEvent struct {
	// Ref is the page just extracted.
	Ref bookfetch.PageRef

	// Fetched is the number of pages extracted so far, including Ref.
	Fetched int

	// EstimatedTotal is the current estimate of the run's total page
	// count, derived from in-volume links. Zero means unknown.
	EstimatedTotal int
}

// ProgressFunc is called after each page is extracted.
type ProgressFunc func(ProgressEvent)

// Result holds the outcome of a completed crawl.
type Result struct {
	// Pages are the extracted pages in visit order. The order is the
	// book's reading order and must not be re-sorted.
	Pages []bookfetch.Page

	// Capped reports that the run stopped at the max-page safety cap
	// rather than at the end of the document.
	Capped bool
}

// Crawler fetches a book starting from one page URL and following the
// reader's internal next-page links until none remain. All fields except
// Fetcher and Extractor are optional.
type Crawler struct {
	Fetcher   bookfetch.Fetcher
	Extractor bookfetch.Extractor

	// Limiter paces requests between pages. Nil disables pacing.
	Limiter bookfetch.Limiter

	// MaxPages caps the number of pages fetched. Defaults to
	// DefaultMaxPages when zero or negative.
	MaxPages int

	// RetryDelays are the backoff waits between fetch attempts.
	// Nil disables retries.
	RetryDelays []time.Duration

	// RetryLog, if set, is called for each retry attempt.
	RetryLog LogFunc

	// Progress, if set, is called after each extracted page.
	Progress ProgressFunc
}

// Crawl runs the full page loop. It fails fatally on the first page whose
// fetch exhausts its retries or whose reading region is missing: page order
// matters, and a silently skipped page would corrupt the assembled book.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*Result, error) {
	currentURL, err := bookfetch.CanonicalURL(startURL)
	if err != nil {
		return nil, err
	}
	startRef, err := bookfetch.ParsePageRef(currentURL)
	if err != nil {
		return nil, err
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var (
		pages          []bookfetch.Page
		estimatedTotal int // 0 = unknown
		visited        = make(map[bookfetch.PageRef]bool)
	)

	// capped stays true only if the loop exhausts its budget with a next
	// page still pending; every normal stop clears it.
	capped := true
	for n := 0; n < maxPages; n++ {
		ref, err := bookfetch.ParsePageRef(currentURL)
		if err != nil {
			return nil, err
		}
		if visited[ref] {
			capped = false
			break
		}
		visited[ref] = true

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		html, err := FetchWithRetryDelays(ctx, currentURL, c.Fetcher.Fetch, c.RetryLog, c.RetryDelays)
		if err != nil {
			return nil, bookfetch.Errorf(bookfetch.EUNAVAILABLE, "failed to fetch %s: %v", currentURL, err)
		}

		extracted, err := c.Extractor.Extract(html)
		if err != nil {
			return nil, err
		}
		if !extracted.FoundReader {
			return nil, bookfetch.Errorf(bookfetch.ENOTFOUND, "reader element not found in: %s", currentURL)
		}

		pages = append(pages, bookfetch.Page{Ref: ref, Text: extracted.Text})

		// The estimate only makes sense while still inside the starting
		// volume; once contradicted by the actual page count it is
		// discarded as unreliable.
		if last, ok := bookfetch.LastPageInVolume(currentURL, ref, extracted.Hrefs); ok &&
			ref.Volume == startRef.Volume && last >= startRef.Page {
			estimatedTotal = last - startRef.Page + 1
		}
		if estimatedTotal > 0 && len(pages) > estimatedTotal {
			estimatedTotal = 0
		}

		if c.Progress != nil {
			c.Progress(ProgressEvent{
				Ref:            ref,
				Fetched:        len(pages),
				EstimatedTotal: estimatedTotal,
			})
		}

		nextURL, ok := bookfetch.NextPageURL(currentURL, ref, extracted.Hrefs)
		if !ok {
			capped = false
			break
		}
		nextRef, err := bookfetch.ParsePageRef(nextURL)
		if err != nil {
			return nil, err
		}
		if visited[nextRef] {
			capped = false
			break
		}
		currentURL = nextURL
	}

	return &Result{
		Pages:  pages,
		Capped: capped,
	}, nil
}
