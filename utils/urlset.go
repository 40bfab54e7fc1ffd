package utils

import (
	"net/url"
	"strings"
)

// URLSet tracks product URLs already seen in a batch. URLs are compared
// without query string or fragment, so tracking parameters do not create
// duplicates.
type URLSet struct {
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(rawURL string) bool {
	key := CanonicalURL(rawURL)
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the URL has already been added.
func (s *URLSet) Contains(rawURL string) bool {
	_, exists := s.seen[CanonicalURL(rawURL)]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	return len(s.seen)
}

// CanonicalURL drops the query string and fragment and any trailing slash.
func CanonicalURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			rawURL = rawURL[:i]
		}
		return strings.TrimRight(rawURL, "/")
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimRight(u.String(), "/")
}
