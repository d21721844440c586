package search

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/index"
	apperrors "github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/internal/indexing"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/services"
	"github.com/RapidRiverSoftware/jobs-api/store"
)

// stubResolver resolves organization references from a fixed table.
type stubResolver map[string]string

func (r stubResolver) ResolveOrganization(text string) (string, bool) {
	id, ok := r[strings.ToLower(text)]
	return id, ok
}

func fixtureOpenings() []model.PositionOpening {
	year := time.Now().UTC().Year()
	return []model.PositionOpening{
		{
			ID:               1,
			PositionTitle:    "Deputy Special Assistant to the Chief Nurse Practitioner",
			OrganizationID:   "AF09",
			OrganizationName: "Air Force Personnel Center",
			StartDate:        model.NewDate(year-1, time.January, 1),
			EndDate:          model.NewDate(year+1, time.December, 31),
			Minimum:          80000,
			Maximum:          100000,
			RateIntervalCode: "PA",
			Locations: []model.Location{
				{City: "Andrews AFB", State: "MD"},
				{City: "Pentagon Arlington", State: "VA"},
				{City: "Air Force Academy", State: "CO"},
			},
		},
		{
			ID:               2,
			PositionTitle:    "Physician Assistant",
			OrganizationID:   "VATA",
			OrganizationName: "Veterans Affairs, Veterans Health Administration",
			StartDate:        model.NewDate(year-1, time.June, 15),
			EndDate:          model.NewDate(year+1, time.June, 15),
			Minimum:          17,
			Maximum:          23,
			RateIntervalCode: "PH",
			Locations: []model.Location{
				{City: "Fulton", State: "MD"},
			},
		},
		{
			ID:               3,
			PositionTitle:    "Future Person",
			OrganizationID:   "FUTU",
			OrganizationName: "Future Administration",
			StartDate:        model.NewDate(year+1, time.February, 1),
			EndDate:          model.NewDate(year+2, time.February, 1),
			Locations: []model.Location{
				{City: "San Francisco", State: "CA"},
			},
		},
	}
}

func newTestSearchService(t *testing.T) *Service {
	t.Helper()
	settings := config.DefaultIndexSettings("test_openings")

	invIndex := &index.InvertedIndex{
		Index:    make(map[string]index.PostingList),
		Settings: &settings,
	}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.PositionOpening),
		ExternalIDtoInternalID: make(map[string]uint32),
	}

	indexer, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		t.Fatalf("Failed to create indexing service: %v", err)
	}
	if err := indexer.Import(fixtureOpenings()); err != nil {
		t.Fatalf("Failed to import fixtures: %v", err)
	}

	resolver := stubResolver{
		"air force": "AF09",
		"nsa":       "NS01",
	}
	service, err := NewService(invIndex, docStore, &settings, resolver)
	if err != nil {
		t.Fatalf("Failed to create search service: %v", err)
	}
	return service
}

func hitIDs(result services.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

func TestSearchForKeywordStemming(t *testing.T) {
	service := newTestSearchService(t)

	// "nursing" must reach the posting whose title says "Nurse".
	result, err := service.SearchFor(services.SearchOptions{Query: "nursing jobs"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Expected 1 hit, got %d (%v)", result.Total, hitIDs(result))
	}
	if result.Hits[0].ID != "1" {
		t.Errorf("Expected hit id 1, got %s", result.Hits[0].ID)
	}
}

func TestSearchForRelevanceOrder(t *testing.T) {
	service := newTestSearchService(t)

	// Keyword matching is an OR-union: the posting matching two of the three
	// stems outranks the posting matching one.
	result, err := service.SearchFor(services.SearchOptions{Query: "physician nursing practitioner"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("Expected 2 hits, got %d (%v)", result.Total, hitIDs(result))
	}
	if result.Hits[0].ID != "1" || result.Hits[1].ID != "2" {
		t.Errorf("Expected order [1 2], got %v", hitIDs(result))
	}
}

func TestSearchForLocationFilters(t *testing.T) {
	service := newTestSearchService(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"city and state", "jobs in arlington, va", []string{"1"}},
		{"city only", "jobs in arlington", []string{"1"}},
		{"city matches within multi-word name", "jobs in fulton, md", []string{"2"}},
		{"city and state must co-occur", "jobs in arlington, md", []string{}},
		{"state only, newest first", "jobs md", []string{"2", "1"}},
		{"full state name", "jobs in maryland", []string{"2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.SearchFor(services.SearchOptions{Query: tt.query})
			if err != nil {
				t.Fatalf("SearchFor(%q) failed: %v", tt.query, err)
			}
			got := hitIDs(result)
			if len(got) != len(tt.expected) {
				t.Fatalf("SearchFor(%q) returned %v, want %v", tt.query, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("SearchFor(%q) returned %v, want %v", tt.query, got, tt.expected)
				}
			}
		})
	}
}

func TestSearchForRecencyOrderWithoutKeywords(t *testing.T) {
	service := newTestSearchService(t)

	result, err := service.SearchFor(services.SearchOptions{})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	// The future posting is excluded; the rest come back newest id first.
	if result.Total != 2 {
		t.Fatalf("Expected 2 hits, got %d (%v)", result.Total, hitIDs(result))
	}
	if result.Hits[0].ID != "2" || result.Hits[1].ID != "1" {
		t.Errorf("Expected order [2 1], got %v", hitIDs(result))
	}
}

func TestSearchForNeverReturnsFuturePostings(t *testing.T) {
	service := newTestSearchService(t)

	// Even a keyword query aimed straight at the future posting finds nothing.
	result, err := service.SearchFor(services.SearchOptions{Query: "future person"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Future posting leaked into results: %v", hitIDs(result))
	}
}

func TestSearchForOrganizationPrefix(t *testing.T) {
	service := newTestSearchService(t)

	// The explicit parameter is a case-insensitive prefix: "va" covers "VATA".
	result, err := service.SearchFor(services.SearchOptions{OrganizationID: "va"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 || result.Hits[0].ID != "2" {
		t.Errorf("Expected only hit 2, got %v", hitIDs(result))
	}
}

func TestSearchForImplicitOrganization(t *testing.T) {
	service := newTestSearchService(t)

	result, err := service.SearchFor(services.SearchOptions{Query: "jobs at the air force"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 || result.Hits[0].ID != "1" {
		t.Errorf("Expected only hit 1, got %v", hitIDs(result))
	}

	// A resolved organization with no postings is an empty result, not an error.
	result, err = service.SearchFor(services.SearchOptions{Query: "nsa employment"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Expected no hits for unstaffed organization, got %v", hitIDs(result))
	}
}

func TestSearchForHighlighting(t *testing.T) {
	service := newTestSearchService(t)

	result, err := service.SearchFor(services.SearchOptions{Query: "nursing jobs", Highlight: true})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Expected 1 hit, got %d", result.Total)
	}
	want := "Deputy Special Assistant to the Chief <em>Nurse</em> Practitioner"
	if result.Hits[0].PositionTitle != want {
		t.Errorf("Highlighted title = %q, want %q", result.Hits[0].PositionTitle, want)
	}

	// Without the flag the title comes back untouched.
	result, err = service.SearchFor(services.SearchOptions{Query: "nursing jobs"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if strings.Contains(result.Hits[0].PositionTitle, "<em>") {
		t.Errorf("Unrequested highlighting in %q", result.Hits[0].PositionTitle)
	}
}

func TestSearchForPagination(t *testing.T) {
	service := newTestSearchService(t)

	first, err := service.SearchFor(services.SearchOptions{Size: 1})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if first.Total != 2 || len(first.Hits) != 1 || first.Hits[0].ID != "2" {
		t.Errorf("First page: total=%d hits=%v", first.Total, hitIDs(first))
	}

	second, err := service.SearchFor(services.SearchOptions{Size: 1, From: 1})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if second.Total != 2 || len(second.Hits) != 1 || second.Hits[0].ID != "1" {
		t.Errorf("Second page: total=%d hits=%v", second.Total, hitIDs(second))
	}

	beyond, err := service.SearchFor(services.SearchOptions{Size: 1, From: 10})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if beyond.Total != 2 || len(beyond.Hits) != 0 {
		t.Errorf("Offset beyond results: total=%d hits=%v", beyond.Total, hitIDs(beyond))
	}
}

func TestSearchForRejectsMalformedPagination(t *testing.T) {
	service := newTestSearchService(t)

	if _, err := service.SearchFor(services.SearchOptions{Size: -1}); !errors.Is(err, apperrors.ErrMalformedQuery) {
		t.Errorf("Expected malformed query error for negative size, got %v", err)
	}
	if _, err := service.SearchFor(services.SearchOptions{From: -5}); !errors.Is(err, apperrors.ErrMalformedQuery) {
		t.Errorf("Expected malformed query error for negative from, got %v", err)
	}
}

func TestSearchForResultProjection(t *testing.T) {
	service := newTestSearchService(t)

	result, err := service.SearchFor(services.SearchOptions{Query: "nursing"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Expected 1 hit, got %d", result.Total)
	}

	hit := result.Hits[0]
	if hit.OrganizationName != "Air Force Personnel Center" {
		t.Errorf("OrganizationName = %q", hit.OrganizationName)
	}
	if hit.Minimum != 80000 || hit.Maximum != 100000 || hit.RateIntervalCode != "PA" {
		t.Errorf("Rate fields wrong: %+v", hit)
	}
	wantLocations := []string{"Andrews AFB, MD", "Pentagon Arlington, VA", "Air Force Academy, CO"}
	if len(hit.Locations) != len(wantLocations) {
		t.Fatalf("Locations = %v, want %v", hit.Locations, wantLocations)
	}
	for i := range wantLocations {
		if hit.Locations[i] != wantLocations[i] {
			t.Fatalf("Locations = %v, want %v (ingestion order must hold)", hit.Locations, wantLocations)
		}
	}
	if len(hit.StartDate) != len("2006-01-02") || !strings.Contains(hit.StartDate, "-") {
		t.Errorf("StartDate not in canonical form: %q", hit.StartDate)
	}
	if result.QueryID == "" {
		t.Error("Expected a query id")
	}
}

func TestSearchForConcurrentWithImports(t *testing.T) {
	settings := config.DefaultIndexSettings("test_openings")
	invIndex := &index.InvertedIndex{
		Index:    make(map[string]index.PostingList),
		Settings: &settings,
	}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.PositionOpening),
		ExternalIDtoInternalID: make(map[string]uint32),
	}

	indexer, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		t.Fatalf("Failed to create indexing service: %v", err)
	}
	if err := indexer.Import(fixtureOpenings()); err != nil {
		t.Fatalf("Failed to import fixtures: %v", err)
	}
	service, err := NewService(invIndex, docStore, &settings, nil)
	if err != nil {
		t.Fatalf("Failed to create search service: %v", err)
	}

	// Searchers and importers contend on both store locks. They must make
	// progress together, which requires a single lock acquisition order.
	const (
		workers    = 4
		iterations = 200
	)
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for w := 0; w < workers; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if err := indexer.Import(fixtureOpenings()); err != nil {
					errs <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if _, err := service.SearchFor(services.SearchOptions{Query: "nursing jobs"}); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Concurrent Import and SearchFor did not finish; lock ordering wedged")
	}
	close(errs)
	for err := range errs {
		t.Errorf("Worker failed: %v", err)
	}

	result, err := service.SearchFor(services.SearchOptions{Query: "nursing jobs"})
	if err != nil {
		t.Fatalf("SearchFor failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Expected 1 hit after concurrent imports, got %d", result.Total)
	}
}
