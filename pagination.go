package bookfetch

import "net/url"

// resolveCandidate resolves href against base, canonicalizes it, and derives
// a PageRef. The bool result is false for hrefs that do not lead to a page
// of any book (irrelevant links are expected and silently skipped).
func resolveCandidate(base *url.URL, href string) (string, PageRef, bool) {
	rel, err := url.Parse(href)
	if err != nil {
		return "", PageRef{}, false
	}
	joined, err := CanonicalURL(base.ResolveReference(rel).String())
	if err != nil {
		return "", PageRef{}, false
	}
	ref, err := ParsePageRef(joined)
	if err != nil {
		return "", PageRef{}, false
	}
	return joined, ref, true
}

// NextPageURL determines the URL of the page that follows current in reading
// order, given every href discovered on the current page. Candidates must
// belong to the same book and have a strictly greater (volume, page); among
// them the nearest one wins, keeping the first URL seen per (volume, page).
// The bool result is false when the current page has no forward link.
func NextPageURL(currentURL string, current PageRef, hrefs []string) (string, bool) {
	base, err := url.Parse(currentURL)
	if err != nil {
		return "", false
	}

	candidates := make(map[PageRef]string)
	for _, href := range hrefs {
		joined, ref, ok := resolveCandidate(base, href)
		if !ok {
			continue
		}
		if ref.BookID != current.BookID {
			continue
		}
		if !current.Less(ref) {
			continue
		}
		if _, seen := candidates[ref]; !seen {
			candidates[ref] = joined
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	var nearest PageRef
	first := true
	for ref := range candidates {
		if first || ref.Less(nearest) {
			nearest = ref
			first = false
		}
	}
	return candidates[nearest], true
}

// LastPageInVolume returns the highest page number linked from the current
// page within the current book and volume, never less than the current page.
// The bool result is false when no in-volume link exists (unknown).
func LastPageInVolume(currentURL string, current PageRef, hrefs []string) (int, bool) {
	base, err := url.Parse(currentURL)
	if err != nil {
		return 0, false
	}

	highest := current.Page
	found := false
	for _, href := range hrefs {
		_, ref, ok := resolveCandidate(base, href)
		if !ok {
			continue
		}
		if ref.BookID != current.BookID || ref.Volume != current.Volume {
			continue
		}
		found = true
		if ref.Page > highest {
			highest = ref.Page
		}
	}
	if !found {
		return 0, false
	}
	return highest, true
}
