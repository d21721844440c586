package search

import (
	"strings"

	"github.com/RapidRiverSoftware/jobs-api/internal/query"
	"github.com/RapidRiverSoftware/jobs-api/internal/tokenizer"
	"github.com/RapidRiverSoftware/jobs-api/model"
)

// matchesFilters applies the hard filters to a posting: the open-date window,
// the organization id prefix, and the location constraint.
func matchesFilters(record model.PositionOpening, parsed query.Parsed, today model.Date) bool {
	if !record.OpenOn(today) {
		return false
	}
	if parsed.OrganizationID != "" &&
		!strings.HasPrefix(strings.ToUpper(record.OrganizationID), parsed.OrganizationID) {
		return false
	}
	if parsed.City != "" || parsed.State != "" {
		return matchesLocation(record, parsed.City, parsed.State)
	}
	return true
}

// matchesLocation checks the location constraint against each of the
// posting's city/state pairs. When both a city and a state are present they
// must co-occur in the same pair: a query naming a city and a state that
// never co-occur matches nothing.
func matchesLocation(record model.PositionOpening, city, state string) bool {
	cityTokens := tokenizer.Tokenize(city)
	for _, loc := range record.Locations {
		if state != "" && !strings.EqualFold(loc.State, state) {
			continue
		}
		if len(cityTokens) > 0 && !cityContains(loc.City, cityTokens) {
			continue
		}
		return true
	}
	return false
}

// cityContains reports whether every query city token appears in the pair's
// city name, so "arlington" matches "Pentagon Arlington".
func cityContains(locationCity string, queryTokens []string) bool {
	locationTokens := make(map[string]struct{})
	for _, token := range tokenizer.Tokenize(locationCity) {
		locationTokens[token] = struct{}{}
	}
	for _, token := range queryTokens {
		if _, ok := locationTokens[token]; !ok {
			return false
		}
	}
	return true
}
