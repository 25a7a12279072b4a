// Package html implements bookfetch.Extractor over the golang.org/x/net/html
// tokenizer. The reader markup is irregular and style-driven, so extraction
// is a single forward pass over tag/text events with a handful of
// independent depth counters rather than a DOM traversal.
package html

import (
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/bookfetch"
	xhtml "golang.org/x/net/html"
)

// Marker classes and tag sets specific to the reader page structure.
const (
	readerClass          = "book-page-show"
	stickyMenuClass      = "sticky-menue"
	footnoteClass        = "footnote"
	footnoteAnchorMark   = "_ftn"
	headingMarker        = "##"
	footnoteSeparator    = "____________\n"
	specialHeadingClass  = "KalamateKhas"
	specialHeadingClass2 = "KalamateKhas2"
)

// blockEndTags are elements whose closing tag ends a text line.
var blockEndTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "section": true, "table": true, "tr": true, "ul": true,
}

// forcedBreakTags always produce a newline, even mid-line.
var forcedBreakTags = map[string]bool{"br": true, "hr": true}

// mutedTags have their entire subtree dropped from text output.
var mutedTags = map[string]bool{"script": true, "style": true, "noscript": true}

// whitespaceRE matches runs of whitespace including Unicode separators;
// the tokenizer turns &nbsp; into U+00A0, which must collapse like any
// other space.
var whitespaceRE = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)

// Ensure Extractor implements bookfetch.Extractor at compile time.
var _ bookfetch.Extractor = (*Extractor)(nil)

// Extractor extracts normalized reader text from raw page markup.
// It is stateless; each Extract call builds a fresh per-page pageState.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract tokenizes the markup and feeds every tag/text event through the
// per-page state machine. Self-closing tags behave as a start event
// immediately followed by the matching end event.
func (e *Extractor) Extract(html string) (*bookfetch.ExtractResult, error) {
	st := newPageState()
	z := xhtml.NewTokenizer(strings.NewReader(html))

	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, bookfetch.Errorf(bookfetch.EINTERNAL, "tokenizing markup: %v", err)
			}
			return &bookfetch.ExtractResult{
				Text:        st.text(),
				Hrefs:       st.hrefs,
				FoundReader: st.foundReader,
			}, nil
		case xhtml.StartTagToken:
			tag, a := tagAndAttrs(z)
			st.handleStart(tag, a)
		case xhtml.SelfClosingTagToken:
			tag, a := tagAndAttrs(z)
			st.handleStart(tag, a)
			st.handleEnd(tag)
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			st.handleEnd(string(name))
		case xhtml.TextToken:
			st.handleText(string(z.Text()))
		}
	}
}

// attrs holds the only attributes the state machine inspects.
type attrs struct {
	class string
	href  string
	name  string
}

func tagAndAttrs(z *xhtml.Tokenizer) (string, attrs) {
	name, hasAttr := z.TagName()
	var a attrs
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		switch string(key) {
		case "class":
			a.class = string(val)
		case "href":
			a.href = string(val)
		case "name":
			a.name = string(val)
		}
	}
	return string(name), a
}

// pageState is the per-page extraction state machine. Suppression and
// region tracking use independent integer counters because the markup nests
// arbitrarily deep; the counters are checked in fixed priority order on
// every tag event. All fields are discarded with the pageState once the
// page's text has been read out.
type pageState struct {
	hrefs       []string
	foundReader bool

	inReader      bool
	readerDepth   int // nesting of the reading-region tag itself
	stickyDepth   int // counts every tag nested under the navigation overlay
	mutedDepth    int // counts every tag nested under script/style/noscript
	footnoteDepth int

	// inFootnoteSection is sticky: once a horizontal rule or footnote
	// anchor is seen it stays set until the reading region closes.
	inFootnoteSection bool
	separatorEmitted  bool

	preDepth int
	parts    []string
}

func newPageState() *pageState {
	return &pageState{}
}

func (s *pageState) handleStart(tag string, a attrs) {
	// Hyperlink collection is page-wide and unconditional: pagination
	// needs links from outside the reading region and from suppressed
	// overlays alike.
	if tag == "a" && a.href != "" {
		s.hrefs = append(s.hrefs, a.href)
	}

	if !s.inReader {
		if tag == "td" && hasClass(a.class, readerClass) {
			s.foundReader = true
			s.inReader = true
			s.readerDepth = 1
		}
		return
	}

	if tag == "td" {
		s.readerDepth++
	}

	if s.stickyDepth > 0 {
		s.stickyDepth++
		return
	}
	if tag == "div" && hasClass(a.class, stickyMenuClass) {
		s.stickyDepth = 1
		return
	}

	if s.mutedDepth > 0 {
		s.mutedDepth++
		return
	}
	if mutedTags[tag] {
		s.mutedDepth = 1
		return
	}

	if isSpecialHeading(tag, a.class) {
		s.appendText(headingMarker)
	}

	if s.footnoteDepth > 0 {
		s.footnoteDepth++
	} else if hasClass(a.class, footnoteClass) {
		s.footnoteDepth = 1
		s.inFootnoteSection = true
	}

	if tag == "hr" {
		s.inFootnoteSection = true
	}

	if tag == "a" && s.isFootnoteAnchor(a) && !s.separatorEmitted {
		s.appendFootnoteSeparator()
		s.separatorEmitted = true
	}

	if tag == "pre" {
		s.preDepth++
	}

	if forcedBreakTags[tag] {
		s.appendNewline()
	}
}

func (s *pageState) handleEnd(tag string) {
	if !s.inReader {
		return
	}

	if s.stickyDepth > 0 {
		s.stickyDepth--
	} else if s.mutedDepth > 0 {
		s.mutedDepth--
	} else {
		if s.footnoteDepth > 0 {
			s.footnoteDepth--
		}
		if tag == "pre" && s.preDepth > 0 {
			s.preDepth--
		}
		if blockEndTags[tag] {
			s.appendNewline()
		}
	}

	if tag == "td" {
		s.readerDepth--
		if s.readerDepth <= 0 {
			s.inReader = false
			s.readerDepth = 0
			s.footnoteDepth = 0
			s.inFootnoteSection = false
			s.separatorEmitted = false
		}
	}
}

func (s *pageState) handleText(data string) {
	if !s.inReader || s.stickyDepth > 0 || s.mutedDepth > 0 {
		return
	}
	s.appendText(data)
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func isSpecialHeading(tag, classAttr string) bool {
	if tag == "span" && hasClass(classAttr, specialHeadingClass) {
		return true
	}
	if tag == "p" && (hasClass(classAttr, specialHeadingClass) || hasClass(classAttr, specialHeadingClass2)) {
		return true
	}
	return false
}

// isFootnoteAnchor reports whether an anchor returns from or points into the
// footnote apparatus. Only meaningful while footnote context is active.
func (s *pageState) isFootnoteAnchor(a attrs) bool {
	if s.footnoteDepth == 0 && !s.inFootnoteSection {
		return false
	}
	name := strings.ToLower(a.name)
	href := strings.ToLower(a.href)
	return strings.Contains(name, footnoteAnchorMark) || strings.Contains(href, footnoteAnchorMark)
}

// appendFootnoteSeparator inserts the one-time visual divider between body
// text and footnotes, on its own line.
func (s *pageState) appendFootnoteSeparator() {
	if len(s.parts) > 0 {
		last := strings.TrimRight(s.parts[len(s.parts)-1], " ")
		if last == "" {
			s.parts = s.parts[:len(s.parts)-1]
		} else {
			s.parts[len(s.parts)-1] = last
		}
	}

	if len(s.parts) > 0 && !strings.HasSuffix(s.parts[len(s.parts)-1], "\n") {
		s.parts = append(s.parts, "\n")
	}

	s.parts = append(s.parts, footnoteSeparator)
}

// appendText adds a text fragment, collapsing whitespace runs to a single
// space unless inside a preformatted element and trimming a leading space
// at line or space boundaries so separators never double up.
func (s *pageState) appendText(text string) {
	if text == "" {
		return
	}

	if s.preDepth == 0 {
		text = whitespaceRE.ReplaceAllString(text, " ")
	}
	if text == "" {
		return
	}

	if len(s.parts) > 0 {
		previous := s.parts[len(s.parts)-1]
		if strings.HasSuffix(previous, "\n") || strings.HasSuffix(previous, " ") {
			text = strings.TrimLeft(text, " ")
		}
	} else {
		text = strings.TrimLeft(text, " ")
	}

	if text != "" {
		s.parts = append(s.parts, text)
	}
}

// appendNewline ends the current line. Trailing spaces are trimmed first and
// the newline is only appended if the output does not already end in one, so
// neither repeated block closes nor break tags after a block close produce
// blank-line runs.
func (s *pageState) appendNewline() {
	if len(s.parts) == 0 {
		return
	}

	last := strings.TrimRight(s.parts[len(s.parts)-1], " ")
	if last == "" {
		s.parts = s.parts[:len(s.parts)-1]
		if len(s.parts) == 0 {
			return
		}
	} else {
		s.parts[len(s.parts)-1] = last
	}

	if !strings.HasSuffix(s.parts[len(s.parts)-1], "\n") {
		s.parts = append(s.parts, "\n")
	}
}

func (s *pageState) text() string {
	return strings.Trim(strings.Join(s.parts, ""), "\n")
}
