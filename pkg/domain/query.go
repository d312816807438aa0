package domain

import (
	"sort"
	"strings"
)

type SortMode string

const (
	SortNewest    SortMode = "new"
	SortPriceAsc  SortMode = "low"
	SortPriceDesc SortMode = "high"
)

// ParseSortMode maps a raw sort parameter to a SortMode. Unknown values
// fall back to newest-first, matching the browse toolbar default.
func ParseSortMode(raw string) SortMode {
	switch SortMode(strings.TrimSpace(raw)) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortNewest
	}
}

// QueryParams drives QueryListings. Zero value means "everything,
// newest first".
type QueryParams struct {
	Search   string
	Category string
	Sort     SortMode
}

// QueryListings filters and sorts listings for the browse view. It never
// mutates its input and always returns a fresh slice.
//
// A listing passes when the normalized search text is empty or appears
// case-insensitively in its title, category, or location (missing location
// counts as empty), AND the category filter is unset or equals the
// listing's category exactly. The result is sorted by the requested mode;
// the sort is stable so listings with equal keys keep their input order.
func QueryListings(listings []Listing, params QueryParams) []Listing {
	q := strings.ToLower(strings.TrimSpace(params.Search))

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if !matchesSearch(l, q) {
			continue
		}
		if params.Category != "" && l.Category != params.Category {
			continue
		}
		out = append(out, l)
	}

	switch params.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedTime().After(out[j].PostedTime())
		})
	}
	return out
}

func matchesSearch(l Listing, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Category), q) ||
		strings.Contains(strings.ToLower(l.Location), q)
}

// LatestListings returns the n most recently posted listings.
func LatestListings(listings []Listing, n int) []Listing {
	out := QueryListings(listings, QueryParams{Sort: SortNewest})
	if n < 0 {
		n = 0
	}
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
