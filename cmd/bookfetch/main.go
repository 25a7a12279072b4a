// Command bookfetch downloads the full text of a book from a paginated
// reader site, following the reader's internal next-page links, and writes
// the joined page texts to a single UTF-8 file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/bookfetch"
	"github.com/fwojciec/bookfetch/crawl"
	"github.com/fwojciec/bookfetch/fs"
	"github.com/fwojciec/bookfetch/html"
	bookfetchhttp "github.com/fwojciec/bookfetch/http"
	bookfetchslog "github.com/fwojciec/bookfetch/slog"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // crawl or write failed
	exitUsage   = 2 // invalid arguments
)

func main() {
	os.Exit(NewMain().Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Main represents the program. The constructor fields exist so tests can
// substitute the transport and the output sink.
type Main struct {
	// NewFetcher constructs the transport for a run.
	NewFetcher func(timeout time.Duration) bookfetch.Fetcher

	// NewWriter constructs the output sink for a run.
	NewWriter func(path string) bookfetch.BookWriter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewFetcher: func(timeout time.Duration) bookfetch.Fetcher {
			return bookfetchhttp.NewFetcher(bookfetchhttp.WithTimeout(timeout))
		},
		NewWriter: func(path string) bookfetch.BookWriter {
			return fs.NewWriter(path)
		},
	}
}

// Run executes the CLI with the given arguments and returns the process
// exit code.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bookfetch"),
		kong.Description("Extract full reader text from paginated book pages and follow internal page links automatically."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse(args)
		return exitOK
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if msg := cli.validate(); msg != "" {
		fmt.Fprintln(stderr, msg)
		return exitUsage
	}

	if _, err := bookfetch.ParsePageRef(cli.StartURL); err != nil {
		fmt.Fprintln(stderr, bookfetch.ErrorMessage(err))
		return exitUsage
	}

	timeout := time.Duration(cli.Timeout * float64(time.Second))
	fetcher := m.NewFetcher(timeout)
	defer fetcher.Close()

	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		fetcher = bookfetchslog.NewLoggingFetcher(fetcher, logger)
	}

	var progress *progressPrinter
	c := &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   html.NewExtractor(),
		Limiter:     crawl.NewDelayLimiter(time.Duration(cli.Delay * float64(time.Second))),
		MaxPages:    cli.MaxPages,
		RetryDelays: crawl.LinearRetryDelays(cli.Retries),
	}
	if !cli.Quiet {
		progress = &progressPrinter{w: stderr, maxPages: cli.MaxPages}
		c.Progress = progress.handle
	}

	result, err := c.Crawl(ctx, cli.StartURL)
	if progress != nil {
		progress.finish()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", bookfetch.ErrorMessage(err))
		return exitFailure
	}

	if result.Capped && !cli.Quiet {
		fmt.Fprintf(stderr, "Stopped at --max-pages (%d).\n", cli.MaxPages)
	}

	if err := m.NewWriter(cli.Output).WriteBook(ctx, result.Pages); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Done. Pages extracted: %d\n", len(result.Pages))
	fmt.Fprintf(stdout, "Output file: %s\n", cli.Output)
	return exitOK
}
