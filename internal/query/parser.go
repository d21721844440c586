// Package query interprets the combined free-text/structured search request.
//
// Extraction runs as an ordered sequence of passes, each consuming the tokens
// it claims so later passes see a shrinking residual:
//
//  1. the structured organization_id parameter (always wins)
//  2. an explicit organization-code pattern embedded in the text
//  3. a location pattern ("City, ST" comma form first, then trailing or
//     standalone state references)
//  4. implicit organization resolution of the leftover text
//  5. whatever remains becomes the relevance keywords
package query

import (
	"regexp"
	"strings"

	"github.com/RapidRiverSoftware/jobs-api/internal/gazetteer"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

// Parsed is the structured interpretation of a raw query string.
type Parsed struct {
	Keywords       []string // Residual relevance tokens, lowercase, in query order
	OrganizationID string   // Uppercase id or prefix; empty means unconstrained
	City           string   // Lowercase city phrase; empty means unconstrained
	State          string   // 2-letter USPS code; empty means unconstrained
}

// HasKeywords reports whether relevance scoring applies. When false the
// retrieval engine must use the recency order instead.
func (p Parsed) HasKeywords() bool {
	return len(p.Keywords) > 0
}

// KeywordString joins the residual keywords back into a single string.
func (p Parsed) KeywordString() string {
	return strings.Join(p.Keywords, " ")
}

// noiseWords are tokens that carry no filter or relevance intent and are
// stripped from the residual before organization resolution.
var noiseWords = map[string]struct{}{
	"job": {}, "jobs": {},
	"employment": {}, "government": {},
	"opening": {}, "openings": {},
	"position": {}, "positions": {},
	"posting": {}, "postings": {},
	"opportunity": {}, "opportunities": {},
	"vacancy": {}, "vacancies": {},
	"in": {}, "at": {}, "near": {}, "the": {}, "all": {},
}

// prepositions introduce a location phrase ("jobs in Arlington").
var prepositions = map[string]struct{}{
	"in": {}, "at": {}, "near": {},
}

// organizationCodeRegex matches an explicit agency code embedded in free text
// (two letters followed by two digits, e.g. "af09"). Purely alphabetic codes
// are indistinguishable from words and go through the resolver instead.
var organizationCodeRegex = regexp.MustCompile(`^[a-z]{2}[0-9]{2}$`)

// commaLocationRegex captures a trailing "..., state" phrase. The city group
// is greedy so the state group holds only the text after the last comma.
var commaLocationRegex = regexp.MustCompile(`^(.*?)\b([a-z][a-z .]*),\s*([a-z][a-z ]*)$`)

// wordRegex splits the raw query into scannable tokens.
var wordRegex = regexp.MustCompile(`[a-z0-9]+`)

// Parser turns raw query strings into Parsed values. The resolver may be nil,
// which disables implicit organization matching.
type Parser struct {
	resolver services.OrganizationResolver
}

// NewParser creates a Parser backed by the given organization resolver.
func NewParser(resolver services.OrganizationResolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse interprets rawQuery, with explicitOrganizationID taking precedence
// over anything resolved from the text.
func (p *Parser) Parse(rawQuery, explicitOrganizationID string) Parsed {
	parsed := Parsed{
		Keywords:       []string{},
		OrganizationID: strings.ToUpper(strings.TrimSpace(explicitOrganizationID)),
	}

	text := strings.ToLower(strings.TrimSpace(rawQuery))
	if text == "" {
		return parsed
	}

	var residual []string
	if match := commaLocationRegex.FindStringSubmatch(text); match != nil {
		if code, ok := gazetteer.Abbreviation(match[3]); ok {
			parsed.State = code
			before, city := splitCityPhrase(wordRegex.FindAllString(match[1]+" "+match[2], -1))
			parsed.City = strings.Join(city, " ")
			residual = p.claimOrganizationCodes(before, &parsed)
		}
	}

	if parsed.State == "" {
		tokens := p.claimOrganizationCodes(wordRegex.FindAllString(text, -1), &parsed)
		residual = p.extractBareLocation(tokens, &parsed)
	}

	residual = stripNoise(residual)

	// Implicit organization resolution consumes the whole residual on a hit,
	// but only when no explicit organization constraint exists.
	if parsed.OrganizationID == "" && len(residual) > 0 && p.resolver != nil {
		if id, ok := p.resolver.ResolveOrganization(strings.Join(residual, " ")); ok && id != "" {
			parsed.OrganizationID = strings.ToUpper(id)
			residual = nil
		}
	}

	parsed.Keywords = append(parsed.Keywords, residual...)
	return parsed
}

// claimOrganizationCodes removes tokens matching the explicit agency code
// pattern. An embedded code never overrides the structured parameter.
func (p *Parser) claimOrganizationCodes(tokens []string, parsed *Parsed) []string {
	rest := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if organizationCodeRegex.MatchString(token) {
			if parsed.OrganizationID == "" {
				parsed.OrganizationID = strings.ToUpper(token)
			}
			continue
		}
		rest = append(rest, token)
	}
	return rest
}

// extractBareLocation handles the non-comma location forms: a trailing
// "City ST" pair, a preposition-introduced city, or a standalone state token.
// It returns the tokens left for later passes.
func (p *Parser) extractBareLocation(tokens []string, parsed *Parsed) []string {
	if len(tokens) == 0 {
		return tokens
	}

	if code, consumed, ok := gazetteer.MatchSuffix(tokens); ok {
		parsed.State = code
		before := tokens[:len(tokens)-consumed]

		if idx := lastPreposition(before); idx >= 0 {
			parsed.City = strings.Join(stripNoise(before[idx+1:]), " ")
			return before[:idx]
		}

		// Bare "City ST" adjacency only applies to the two-letter code form;
		// a bare full state name leaves the preceding tokens as keywords.
		if _, isCode := gazetteer.IsCode(tokens[len(tokens)-1]); isCode && consumed == 1 {
			city, rest := trailingCityRun(before)
			parsed.City = strings.Join(city, " ")
			return rest
		}
		return before
	}

	// A preposition-introduced trailing phrase with no state names either an
	// organization ("jobs at the nsa") or a city ("jobs in Arlington"). The
	// resolver arbitrates; a miss leaves the phrase as a city filter.
	if idx := lastPreposition(tokens); idx >= 0 {
		if phrase := stripNoise(tokens[idx+1:]); len(phrase) > 0 {
			if parsed.OrganizationID == "" && p.resolver != nil {
				if id, ok := p.resolver.ResolveOrganization(strings.Join(phrase, " ")); ok && id != "" {
					parsed.OrganizationID = strings.ToUpper(id)
					return tokens[:idx]
				}
			}
			parsed.City = strings.Join(phrase, " ")
			return tokens[:idx]
		}
	}

	// A standalone state reference anywhere in the noise-stripped text becomes
	// a state-only filter ("md jobs").
	stripped := stripNoise(tokens)
	for width := gazetteer.MaxNameTokens; width >= 1; width-- {
		for i := 0; i+width <= len(stripped); i++ {
			if code, ok := gazetteer.Abbreviation(strings.Join(stripped[i:i+width], " ")); ok {
				parsed.State = code
				rest := make([]string, 0, len(stripped)-width)
				rest = append(rest, stripped[:i]...)
				rest = append(rest, stripped[i+width:]...)
				return rest
			}
		}
	}

	return tokens
}

// splitCityPhrase separates the tokens before a comma-form state into the
// residual and the city: everything after the last preposition or noise word
// is the city, everything before it stays in the residual.
func splitCityPhrase(tokens []string) (residual, city []string) {
	boundary := -1
	for i, token := range tokens {
		if _, ok := prepositions[token]; ok {
			boundary = i
			continue
		}
		if _, ok := noiseWords[token]; ok {
			boundary = i
		}
	}
	if boundary >= 0 {
		return tokens[:boundary], stripNoise(tokens[boundary+1:])
	}
	return nil, stripNoise(tokens)
}

// trailingCityRun splits off the run of non-noise tokens at the end of the
// slice, for the bare "City ST" form.
func trailingCityRun(tokens []string) (city, rest []string) {
	start := len(tokens)
	for start > 0 {
		if _, noise := noiseWords[tokens[start-1]]; noise {
			break
		}
		start--
	}
	return tokens[start:], tokens[:start]
}

// lastPreposition returns the index of the last location preposition in the
// tokens, or -1.
func lastPreposition(tokens []string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if _, ok := prepositions[tokens[i]]; ok {
			return i
		}
	}
	return -1
}

// stripNoise drops noise words, preserving order.
func stripNoise(tokens []string) []string {
	rest := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := noiseWords[token]; ok {
			continue
		}
		rest = append(rest, token)
	}
	return rest
}
