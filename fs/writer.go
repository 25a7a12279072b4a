// Package fs provides file-based output for assembled book text.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/bookfetch"
)

// Ensure Writer implements bookfetch.BookWriter at compile time.
var _ bookfetch.BookWriter = (*Writer)(nil)

// Writer writes the assembled book text to a single UTF-8 file with atomic
// semantics: the text is staged to a temporary file in the destination
// directory and renamed into place, so a failed run never leaves a
// truncated output file behind.
type Writer struct {
	path string
}

// NewWriter creates a Writer that writes to the given file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteBook joins the pages in visit order and writes the result once.
func (w *Writer) WriteBook(ctx context.Context, pages []bookfetch.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := normalizeNewlines(bookfetch.JoinPages(pages))

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp*")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// normalizeNewlines rewrites carriage-return line endings, which can
// survive extraction inside preformatted blocks, to bare newlines.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
