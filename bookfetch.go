// Package bookfetch extracts the full body text of paginated book-reader
// pages. Starting from one page URL it follows the reader's internal
// next-page links until the book is exhausted and joins the recovered
// per-page text into a single output file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, http/, fs/).
package bookfetch
