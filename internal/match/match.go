// Package match implements the listing location matching rules.
package match

import "strings"

// CityFilter keeps listings whose location mentions one of the
// configured city names.
type CityFilter struct {
	names []string
}

// NewCityFilter builds a filter from a set of city names. An empty set
// means no filtering.
func NewCityFilter(names []string) *CityFilter {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n != "" {
			lowered = append(lowered, n)
		}
	}
	return &CityFilter{names: lowered}
}

// Allow reports whether a listing with the given location passes.
// An empty location always passes: extraction is best-effort and a
// missing field must not drop the listing.
func (f *CityFilter) Allow(location string) bool {
	if len(f.names) == 0 || location == "" {
		return true
	}
	loc := strings.ToLower(location)
	for _, n := range f.names {
		if strings.Contains(loc, n) {
			return true
		}
	}
	return false
}
