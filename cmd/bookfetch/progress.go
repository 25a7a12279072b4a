package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/bookfetch/crawl"
)

// progressBarWidth is the number of cells in the rendered bar.
const progressBarWidth = 30

// progressPrinter renders a single-line progress bar on stderr, redrawn in
// place with a carriage return after every extracted page.
type progressPrinter struct {
	w        io.Writer
	maxPages int
	active   bool
}

// handle renders the bar for one crawl progress event. The displayed total
// is the page estimate when known, bounded by the max-page cap.
func (p *progressPrinter) handle(e crawl.ProgressEvent) {
	total := p.maxPages
	if e.EstimatedTotal > 0 && e.EstimatedTotal < total {
		total = e.EstimatedTotal
	}
	if total < 1 {
		total = 1
	}

	ratio := float64(e.Fetched) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(progressBarWidth * ratio)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled)

	fmt.Fprintf(p.w, "\r[%s] %6.2f%% %d/%d pages | volume %d page %d",
		bar, ratio*100, e.Fetched, total, e.Ref.Volume, e.Ref.Page)
	p.active = true
}

// finish terminates the progress line so later output starts on its own line.
func (p *progressPrinter) finish() {
	if p.active {
		fmt.Fprintln(p.w)
		p.active = false
	}
}
