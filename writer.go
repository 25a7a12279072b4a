package bookfetch

import (
	"context"
	"strings"
)

// PageSeparator is the literal line placed between consecutive pages in the
// assembled output.
const PageSeparator = "PAGE_SEPARATOR"

// JoinPages assembles the final book text from pages in visit order.
func JoinPages(pages []Page) string {
	if len(pages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}

	return strings.Join(parts, "\n"+PageSeparator+"\n")
}

// BookWriter persists the assembled book text.
// Implementations must not leave partial output behind on failure.
type BookWriter interface {
	WriteBook(ctx context.Context, pages []Page) error
}
