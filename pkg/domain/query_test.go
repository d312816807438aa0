package domain

import (
	"reflect"
	"testing"
)

func sampleListings() []Listing {
	return []Listing{
		{
			ID:         "1",
			Title:      "CSCI 135 Textbook",
			Price:      25,
			Category:   "Textbooks",
			Location:   "Hunter West",
			DatePosted: "2025-09-20T10:00:00.000Z",
		},
		{
			ID:         "2",
			Title:      "Dell XPS 13",
			Price:      350,
			Category:   "Electronics",
			Location:   "Upper East Side",
			DatePosted: "2025-09-27T18:30:00.000Z",
		},
		{
			ID:         "3",
			Title:      "Dorm Mini-Fridge",
			Price:      70,
			Category:   "Furniture",
			DatePosted: "2025-09-22T13:45:00.000Z",
		},
	}
}

func ids(listings []Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestEmptySearchAcceptsEverything(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{Search: "   "})
	if len(got) != 3 {
		t.Fatalf("empty search should accept all listings, got %d", len(got))
	}
}

func TestSearchMatchesTitleCaseInsensitive(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{Search: "BOOK"})
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("search 'BOOK' expected %v, got %v", want, ids(got))
	}
}

func TestSearchMatchesCategoryAndLocation(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{Search: "furni"})
	if want := []string{"3"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("category substring expected %v, got %v", want, ids(got))
	}
	got = QueryListings(sampleListings(), QueryParams{Search: "upper east"})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("location substring expected %v, got %v", want, ids(got))
	}
}

func TestMissingLocationNeverMatchesSearch(t *testing.T) {
	// Listing 3 has no location; a search that only resembles a location
	// must not match it.
	got := QueryListings(sampleListings(), QueryParams{Search: "side"})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestCategoryFilterIsExactAndCaseSensitive(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{Category: "Electronics"})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("category filter expected %v, got %v", want, ids(got))
	}
	if got := QueryListings(sampleListings(), QueryParams{Category: "electronics"}); len(got) != 0 {
		t.Fatalf("lowercased category must not match, got %v", ids(got))
	}
}

func TestUnrecognizedCategoryOnListingDoesNotCrash(t *testing.T) {
	listings := append(sampleListings(), Listing{ID: "4", Title: "Mystery Box", Category: "???", DatePosted: "2025-09-21T00:00:00Z"})
	got := QueryListings(listings, QueryParams{Category: "Textbooks"})
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestFiltersCombineWithAnd(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{Search: "dorm", Category: "Electronics"})
	if len(got) != 0 {
		t.Fatalf("text and category filters must both pass, got %v", ids(got))
	}
}

func TestSortByPrice(t *testing.T) {
	asc := QueryListings(sampleListings(), QueryParams{Sort: SortPriceAsc})
	if want := []string{"1", "3", "2"}; !reflect.DeepEqual(ids(asc), want) {
		t.Fatalf("price ascending expected %v, got %v", want, ids(asc))
	}
	desc := QueryListings(sampleListings(), QueryParams{Sort: SortPriceDesc})
	// With no price ties, descending is exactly the reverse of ascending.
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending order is not the reverse of ascending: %v vs %v", ids(asc), ids(desc))
		}
	}
}

func TestSortNewestFirstIsDefault(t *testing.T) {
	got := QueryListings(sampleListings(), QueryParams{})
	if want := []string{"2", "3", "1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("newest first expected %v, got %v", want, ids(got))
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	listings := []Listing{
		{ID: "a", Title: "Lamp", Price: 10, Category: "Furniture", DatePosted: "2025-09-01T00:00:00Z"},
		{ID: "b", Title: "Chair", Price: 10, Category: "Furniture", DatePosted: "2025-09-01T00:00:00Z"},
		{ID: "c", Title: "Desk", Price: 10, Category: "Furniture", DatePosted: "2025-09-01T00:00:00Z"},
	}
	for i := 0; i < 5; i++ {
		got := QueryListings(listings, QueryParams{Sort: SortPriceAsc})
		if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(got), want) {
			t.Fatalf("equal prices must keep input order, got %v", ids(got))
		}
		got = QueryListings(listings, QueryParams{Sort: SortNewest})
		if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(got), want) {
			t.Fatalf("equal timestamps must keep input order, got %v", ids(got))
		}
	}
}

func TestQueryIsIdempotentOnOwnOutput(t *testing.T) {
	params := QueryParams{Sort: SortNewest}
	first := QueryListings(sampleListings(), params)
	second := QueryListings(first, params)
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("re-querying sorted output changed order: %v vs %v", ids(first), ids(second))
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	input := sampleListings()
	before := ids(input)
	_ = QueryListings(input, QueryParams{Sort: SortPriceDesc})
	if !reflect.DeepEqual(ids(input), before) {
		t.Fatalf("input slice was reordered: %v", ids(input))
	}
}

func TestUnparseableDateSortsAsOldest(t *testing.T) {
	listings := []Listing{
		{ID: "bad", Title: "No date", Category: "Other", DatePosted: "sometime last week"},
		{ID: "ok", Title: "Dated", Category: "Other", DatePosted: "2025-09-25T08:10:00Z"},
	}
	got := QueryListings(listings, QueryParams{Sort: SortNewest})
	if want := []string{"ok", "bad"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("unparseable date should sort last, got %v", ids(got))
	}
}

func TestBrowseScenarios(t *testing.T) {
	listings := []Listing{
		{ID: "1", Title: "CSCI 135 Textbook", Category: "Textbooks", Price: 25, DatePosted: "2025-09-20T10:00:00Z"},
		{ID: "2", Title: "Dell XPS 13", Category: "Electronics", Price: 350, DatePosted: "2025-09-27T18:30:00Z"},
	}

	got := QueryListings(listings, QueryParams{Search: "book"})
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("search 'book' expected %v, got %v", want, ids(got))
	}

	got = QueryListings(listings, QueryParams{Category: "Electronics", Sort: SortPriceAsc})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("electronics low-to-high expected %v, got %v", want, ids(got))
	}
}

func TestLatestListings(t *testing.T) {
	got := LatestListings(sampleListings(), 2)
	if want := []string{"2", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("latest 2 expected %v, got %v", want, ids(got))
	}
	if got := LatestListings(sampleListings(), 10); len(got) != 3 {
		t.Fatalf("latest capped at input size, got %d", len(got))
	}
}

func TestParseSortMode(t *testing.T) {
	if got := ParseSortMode("low"); got != SortPriceAsc {
		t.Fatalf("expected low, got %q", got)
	}
	if got := ParseSortMode(""); got != SortNewest {
		t.Fatalf("empty sort should default to newest, got %q", got)
	}
	if got := ParseSortMode("bogus"); got != SortNewest {
		t.Fatalf("unknown sort should default to newest, got %q", got)
	}
}
