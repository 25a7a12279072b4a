package bookfetch

// ExtractResult holds everything recovered from one page's markup in a
// single pass.
type ExtractResult struct {
	// Text is the normalized reader text with leading and trailing
	// newlines stripped.
	Text string

	// Hrefs lists every hyperlink target seen anywhere on the page, in
	// document order, including links inside suppressed regions.
	// Pagination discovery is page-wide.
	Hrefs []string

	// FoundReader reports whether the reading region was ever entered.
	// False means the page structure is unsupported.
	FoundReader bool
}

// Extractor converts one page's markup into normalized reader text.
type Extractor interface {
	// Extract processes raw markup and returns the reader text together
	// with the page-wide hyperlink list.
	Extract(html string) (*ExtractResult, error)
}
