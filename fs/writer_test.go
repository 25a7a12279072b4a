package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/bookfetch"
	"github.com/fwojciec/bookfetch/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteBook(t *testing.T) {
	t.Parallel()

	t.Run("joins pages with the separator line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book_text.txt")
		writer := fs.NewWriter(path)

		pages := []bookfetch.Page{
			{Ref: bookfetch.PageRef{BookID: 7, Volume: 1, Page: 0}, Text: "first"},
			{Ref: bookfetch.PageRef{BookID: 7, Volume: 1, Page: 1}, Text: "second"},
		}
		require.NoError(t, writer.WriteBook(context.Background(), pages))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first\nPAGE_SEPARATOR\nsecond", string(content))
	})

	t.Run("writes an empty file for an empty run", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book_text.txt")
		writer := fs.NewWriter(path)

		require.NoError(t, writer.WriteBook(context.Background(), nil))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, string(content))
	})

	t.Run("normalizes carriage returns", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book_text.txt")
		writer := fs.NewWriter(path)

		pages := []bookfetch.Page{{Text: "a\r\nb\rc"}}
		require.NoError(t, writer.WriteBook(context.Background(), pages))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a\nb\nc", string(content))
	})

	t.Run("overwrites an existing file atomically", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "book_text.txt")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

		writer := fs.NewWriter(path)
		require.NoError(t, writer.WriteBook(context.Background(), []bookfetch.Page{{Text: "fresh"}}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(content))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writer := fs.NewWriter(filepath.Join(dir, "book_text.txt"))
		require.NoError(t, writer.WriteBook(context.Background(), []bookfetch.Page{{Text: "x"}}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "book_text.txt", entries[0].Name())
	})

	t.Run("fails for a missing destination directory", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewWriter(filepath.Join(t.TempDir(), "missing", "book_text.txt"))
		err := writer.WriteBook(context.Background(), []bookfetch.Page{{Text: "x"}})
		require.Error(t, err)
	})
}
