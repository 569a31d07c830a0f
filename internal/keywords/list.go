// Package keywords defines the ordered keyword list convention and the
// frequency-based keyword extractor.
package keywords

// List is an ordered keyword list: index 0 is the brand name, index 1 the
// primary keyword, everything after that secondary keywords. A list shorter
// than 2 entries carries no usable keywords.
type List []string

// Brand returns the brand entry, or "" if absent.
func (l List) Brand() string {
	if len(l) > 0 {
		return l[0]
	}
	return ""
}

// Primary returns the primary keyword, or "" if absent.
func (l List) Primary() string {
	if len(l) > 1 {
		return l[1]
	}
	return ""
}

// Secondary returns the secondary keywords (may be empty).
func (l List) Secondary() []string {
	if len(l) > 2 {
		return l[2:]
	}
	return nil
}

// HasKeywords reports whether the list carries a usable primary keyword.
// Keyword-dependent scoring is skipped when this is false.
func (l List) HasKeywords() bool {
	return len(l) > 1
}
