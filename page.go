package bookfetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// pagePathRE matches reader page paths ending in /<book_id>/<volume>/<page>.
var pagePathRE = regexp.MustCompile(`/(\d+)/(\d+)/(\d+)/?$`)

// PageRef identifies one page of one book volume. It is a value type:
// equality and map-key semantics compare all three fields.
type PageRef struct {
	BookID int
	Volume int
	Page   int
}

// String returns a compact human-readable form used in progress output.
func (r PageRef) String() string {
	return fmt.Sprintf("%d/%d/%d", r.BookID, r.Volume, r.Page)
}

// Less reports whether r precedes other in reading order within the same
// book: volume first, then page.
func (r PageRef) Less(other PageRef) bool {
	if r.Volume != other.Volume {
		return r.Volume < other.Volume
	}
	return r.Page < other.Page
}

// Page pairs a page identity with its extracted text.
type Page struct {
	Ref  PageRef
	Text string
}

// ParsePageRef derives a PageRef from a reader page URL. The URL path must
// end in three slash-separated non-negative integers in book/volume/page
// order; anything else returns EINVALID.
func ParsePageRef(rawURL string) (PageRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PageRef{}, Errorf(EINVALID, "URL must end with /<book_id>/<volume>/<page>, got: %s", rawURL)
	}
	m := pagePathRE.FindStringSubmatch(u.Path)
	if m == nil {
		return PageRef{}, Errorf(EINVALID, "URL must end with /<book_id>/<volume>/<page>, got: %s", rawURL)
	}
	book, _ := strconv.Atoi(m[1])
	volume, _ := strconv.Atoi(m[2])
	page, _ := strconv.Atoi(m[3])
	return PageRef{BookID: book, Volume: volume, Page: page}, nil
}

// CanonicalURL normalizes a URL for comparison and deduplication: the query
// string and fragment are dropped and a single trailing slash is trimmed
// from the path (an empty path becomes "/"). The operation is idempotent.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL: %s", rawURL)
	}
	path := u.Path
	for len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if path == "" {
		path = "/"
	}
	canonical := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   path,
	}
	return canonical.String(), nil
}
