package search

import (
	"github.com/RapidRiverSoftware/jobs-api/internal/highlight"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

// formatHit projects an index hit into the minimal public result shape.
// Dates render in their canonical textual form and each location pair is
// flattened to "City, ST" in ingestion order. Nothing outside this projection
// is ever surfaced.
func formatHit(record model.PositionOpening, matchedStems map[string]struct{}, highlighter *highlight.Highlighter) services.PositionOpeningResult {
	title := record.PositionTitle
	if highlighter != nil {
		title = highlighter.Highlight(title, matchedStems)
	}

	locations := make([]string, 0, len(record.Locations))
	for _, loc := range record.Locations {
		locations = append(locations, loc.String())
	}

	return services.PositionOpeningResult{
		ID:               record.DocumentID(),
		PositionTitle:    title,
		OrganizationName: record.OrganizationName,
		StartDate:        record.StartDate.String(),
		EndDate:          record.EndDate.String(),
		Minimum:          record.Minimum,
		Maximum:          record.Maximum,
		RateIntervalCode: record.RateIntervalCode,
		Locations:        locations,
	}
}
