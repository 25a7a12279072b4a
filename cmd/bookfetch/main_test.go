package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/bookfetch"
	"github.com/fwojciec/bookfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, m *Main, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := m.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_ArgumentValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing start URL", nil},
		{"unknown flag", []string{"--bogus", "https://lib.example.com/1/1/0"}},
		{"max-pages below one", []string{"--max-pages", "0", "https://lib.example.com/1/1/0"}},
		{"retries below one", []string{"--retries", "0", "https://lib.example.com/1/1/0"}},
		{"zero timeout", []string{"--timeout", "0", "https://lib.example.com/1/1/0"}},
		{"negative delay", []string{"--delay", "-1", "https://lib.example.com/1/1/0"}},
		{"URL without page shape", []string{"https://lib.example.com/about"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runMain(t, NewMain(), tt.args...)

			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	page := func(body, next string) string {
		markup := `<td class="book-page-show"><p>` + body + `</p></td>`
		if next != "" {
			markup += `<a href="` + next + `">next</a>`
		}
		return markup
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/15050/1/0":
			fmt.Fprint(w, page("first", "/15050/1/1"))
		case "/15050/1/1":
			fmt.Fprint(w, page("second", "/15050/1/2"))
		case "/15050/1/2":
			fmt.Fprint(w, page("third", ""))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Run("extracts all pages and writes the output file", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "book_text.txt")
		code, stdout, _ := runMain(t, NewMain(),
			server.URL+"/15050/1/0", "-o", output, "--quiet")

		require.Equal(t, exitOK, code)
		assert.Contains(t, stdout, "Done. Pages extracted: 3")
		assert.Contains(t, stdout, output)

		content, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "first\nPAGE_SEPARATOR\nsecond\nPAGE_SEPARATOR\nthird", string(content))
	})

	t.Run("renders progress and reports the max-pages stop", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "book_text.txt")
		code, _, stderr := runMain(t, NewMain(),
			server.URL+"/15050/1/0", "-o", output, "--max-pages", "2")

		require.Equal(t, exitOK, code)
		assert.Contains(t, stderr, "volume 1 page 1")
		assert.Contains(t, stderr, "Stopped at --max-pages (2).")

		content, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "first\nPAGE_SEPARATOR\nsecond", string(content))
	})

	t.Run("fails with exit code 1 when a page has no reading region", func(t *testing.T) {
		t.Parallel()

		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<td class="other">nope</td>`)
		}))
		defer bad.Close()

		output := filepath.Join(t.TempDir(), "book_text.txt")
		code, _, stderr := runMain(t, NewMain(),
			bad.URL+"/15050/1/0", "-o", output, "--quiet")

		assert.Equal(t, exitFailure, code)
		assert.Contains(t, stderr, "reader element not found")
		assert.NoFileExists(t, output)
	})
}

func TestRun_TransportFailure(t *testing.T) {
	t.Parallel()

	t.Run("retries transient failures before giving up", func(t *testing.T) {
		t.Parallel()

		calls := 0
		m := &Main{
			NewFetcher: func(timeout time.Duration) bookfetch.Fetcher {
				return &mock.Fetcher{
					FetchFn: func(ctx context.Context, url string) (string, error) {
						calls++
						return "", fmt.Errorf("connection refused")
					},
				}
			},
		}

		output := filepath.Join(t.TempDir(), "book_text.txt")
		code, _, stderr := runMain(t, m,
			"https://lib.example.com/15050/1/0", "-o", output, "--quiet", "--retries", "1")

		assert.Equal(t, exitFailure, code)
		assert.Equal(t, 1, calls)
		assert.Contains(t, stderr, "failed to fetch")
	})
}

func TestRun_WriteFailure(t *testing.T) {
	t.Parallel()

	t.Run("fails with exit code 1 when the output cannot be written", func(t *testing.T) {
		t.Parallel()

		var written []bookfetch.Page
		m := &Main{
			NewFetcher: func(timeout time.Duration) bookfetch.Fetcher {
				return &mock.Fetcher{
					FetchFn: func(ctx context.Context, url string) (string, error) {
						return `<td class="book-page-show"><p>only</p></td>`, nil
					},
				}
			},
			NewWriter: func(path string) bookfetch.BookWriter {
				return &mock.BookWriter{
					WriteBookFn: func(ctx context.Context, pages []bookfetch.Page) error {
						written = pages
						return fmt.Errorf("disk full")
					},
				}
			},
		}

		code, _, stderr := runMain(t, m,
			"https://lib.example.com/15050/1/0", "--quiet")

		assert.Equal(t, exitFailure, code)
		assert.Contains(t, stderr, "disk full")
		require.Len(t, written, 1)
		assert.Equal(t, "only", written[0].Text)
	})
}
