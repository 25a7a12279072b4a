package mock

import (
	"context"

	"github.com/fwojciec/bookfetch"
)

var _ bookfetch.BookWriter = (*BookWriter)(nil)

// BookWriter is a mock implementation of bookfetch.BookWriter.
type BookWriter struct {
	WriteBookFn func(ctx context.Context, pages []bookfetch.Page) error
}

func (w *BookWriter) WriteBook(ctx context.Context, pages []bookfetch.Page) error {
	return w.WriteBookFn(ctx, pages)
}
