// Package testing provides utilities and fixtures for testing the jobs service.
package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/internal/engine"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

// CreateTestEngine creates a new engine instance backed by a temporary
// directory that the test framework removes automatically.
func CreateTestEngine(t *testing.T, resolver services.OrganizationResolver) *engine.Engine {
	t.Helper()
	return engine.NewEngine(t.TempDir(), resolver)
}

// CreateTestIndex creates a test index with default settings.
func CreateTestIndex(t *testing.T, eng *engine.Engine, indexName string) config.IndexSettings {
	t.Helper()
	settings := config.DefaultIndexSettings(indexName)

	err := eng.CreateIndex(settings)
	require.NoError(t, err, "Failed to create test index")

	return settings
}

// SamplePositionOpenings returns the canonical fixture set: two currently
// open postings and one future-dated posting that must never be returned.
func SamplePositionOpenings() []model.PositionOpening {
	currentYear := time.Now().UTC().Year()
	return []model.PositionOpening{
		{
			ID:               1,
			Type:             "position_opening",
			PositionTitle:    "Deputy Special Assistant to the Chief Nurse Practitioner",
			OrganizationID:   "AF09",
			OrganizationName: "Air Force Personnel Center",
			StartDate:        model.NewDate(currentYear-1, time.January, 1),
			EndDate:          model.NewDate(currentYear+1, time.December, 31),
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
			Type:             "position_opening",
			PositionTitle:    "Physician Assistant",
			OrganizationID:   "VATA",
			OrganizationName: "Veterans Affairs, Veterans Health Administration",
			StartDate:        model.NewDate(currentYear-1, time.June, 15),
			EndDate:          model.NewDate(currentYear+1, time.June, 15),
			Minimum:          17,
			Maximum:          23,
			RateIntervalCode: "PH",
			Locations: []model.Location{
				{City: "Fulton", State: "MD"},
			},
		},
		{
			ID:               3,
			Type:             "position_opening",
			PositionTitle:    "Future Person",
			OrganizationID:   "FUTU",
			OrganizationName: "Future Administration",
			StartDate:        model.NewDate(currentYear+1, time.February, 1),
			EndDate:          model.NewDate(currentYear+2, time.February, 1),
			Minimum:          40000,
			Maximum:          60000,
			RateIntervalCode: "PA",
			Locations: []model.Location{
				{City: "San Francisco", State: "CA"},
			},
		},
	}
}

// ImportTestOpenings imports the canonical fixture set into an index.
func ImportTestOpenings(t *testing.T, eng *engine.Engine, indexName string) []model.PositionOpening {
	t.Helper()
	indexAccessor, err := eng.GetIndex(indexName)
	require.NoError(t, err, "Failed to get index accessor")

	records := SamplePositionOpenings()
	err = indexAccessor.Import(records)
	require.NoError(t, err, "Failed to import test position openings")

	return records
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Options       services.SearchOptions
	ExpectedCount int
	ExpectedFirst string // Expected first result id
	ValidateFunc  func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against an index
func RunSearchTests(t *testing.T, indexAccessor services.IndexAccessor, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := indexAccessor.SearchFor(tt.Options)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedCount, results.Total, "Result count should match")

			if tt.ExpectedFirst != "" && len(results.Hits) > 0 {
				assert.Equal(t, tt.ExpectedFirst, results.Hits[0].ID, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}
