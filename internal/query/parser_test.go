package query

import (
	"reflect"
	"strings"
	"testing"
)

// stubResolver resolves organization references from a fixed table.
type stubResolver map[string]string

func (r stubResolver) ResolveOrganization(text string) (string, bool) {
	id, ok := r[strings.ToLower(text)]
	return id, ok
}

func TestParse(t *testing.T) {
	resolver := stubResolver{
		"nsa": "NS01",
	}
	parser := NewParser(resolver)

	tests := []struct {
		name        string
		query       string
		explicitOrg string
		expected    Parsed
	}{
		{
			name:     "keywords only",
			query:    "nursing jobs",
			expected: Parsed{Keywords: []string{"nursing"}},
		},
		{
			name:     "noise words stripped",
			query:    "government nursing job openings",
			expected: Parsed{Keywords: []string{"nursing"}},
		},
		{
			name:     "comma city and state",
			query:    "jobs in Arlington, md",
			expected: Parsed{Keywords: []string{}, City: "arlington", State: "MD"},
		},
		{
			name:     "comma city with full state name",
			query:    "physician assistant jobs in fulton, maryland",
			expected: Parsed{Keywords: []string{"physician", "assistant"}, City: "fulton", State: "MD"},
		},
		{
			name:     "multi word city before comma",
			query:    "jobs in pentagon arlington, va",
			expected: Parsed{Keywords: []string{}, City: "pentagon arlington", State: "VA"},
		},
		{
			name:     "trailing full state name",
			query:    "nursing jobs in maryland",
			expected: Parsed{Keywords: []string{"nursing"}, State: "MD"},
		},
		{
			name:     "trailing state code",
			query:    "jobs md",
			expected: Parsed{Keywords: []string{}, State: "MD"},
		},
		{
			name:     "leading state code",
			query:    "md jobs",
			expected: Parsed{Keywords: []string{}, State: "MD"},
		},
		{
			name:     "bare city and state code",
			query:    "jobs fulton md",
			expected: Parsed{Keywords: []string{}, City: "fulton", State: "MD"},
		},
		{
			name:     "preposition city without state",
			query:    "jobs in Arlington",
			expected: Parsed{Keywords: []string{}, City: "arlington"},
		},
		{
			name:     "preposition phrase resolving to an organization",
			query:    "jobs at the nsa",
			expected: Parsed{Keywords: []string{}, OrganizationID: "NS01"},
		},
		{
			name:     "implicit organization from residual",
			query:    "nsa employment",
			expected: Parsed{Keywords: []string{}, OrganizationID: "NS01"},
		},
		{
			name:     "embedded organization code",
			query:    "af09 openings",
			expected: Parsed{Keywords: []string{}, OrganizationID: "AF09"},
		},
		{
			name:        "explicit organization parameter",
			query:       "nursing jobs",
			explicitOrg: "va",
			expected:    Parsed{Keywords: []string{"nursing"}, OrganizationID: "VA"},
		},
		{
			name:        "explicit parameter disables implicit resolution",
			query:       "nsa jobs",
			explicitOrg: "AF09",
			expected:    Parsed{Keywords: []string{"nsa"}, OrganizationID: "AF09"},
		},
		{
			name:        "explicit parameter beats embedded code",
			query:       "af09 jobs",
			explicitOrg: "VATA",
			expected:    Parsed{Keywords: []string{}, OrganizationID: "VATA"},
		},
		{
			name:     "empty query",
			query:    "",
			expected: Parsed{Keywords: []string{}},
		},
		{
			name:     "noise only",
			query:    "all government jobs",
			expected: Parsed{Keywords: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.query, tt.explicitOrg)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse(%q, %q) = %+v, want %+v", tt.query, tt.explicitOrg, got, tt.expected)
			}
		})
	}
}

func TestParseWithoutResolver(t *testing.T) {
	parser := NewParser(nil)

	// Without a resolver the preposition phrase stays a city filter and the
	// residual stays keywords.
	got := parser.Parse("jobs at the nsa", "")
	expected := Parsed{Keywords: []string{}, City: "nsa"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Parse = %+v, want %+v", got, expected)
	}

	got = parser.Parse("nsa employment", "")
	expected = Parsed{Keywords: []string{"nsa"}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Parse = %+v, want %+v", got, expected)
	}
}

func TestHasKeywords(t *testing.T) {
	if (Parsed{Keywords: []string{}}).HasKeywords() {
		t.Error("Empty keywords should report false")
	}
	if !(Parsed{Keywords: []string{"nursing"}}).HasKeywords() {
		t.Error("Non-empty keywords should report true")
	}
}

func TestKeywordString(t *testing.T) {
	p := Parsed{Keywords: []string{"physician", "assistant"}}
	if got := p.KeywordString(); got != "physician assistant" {
		t.Errorf("KeywordString = %q, want %q", got, "physician assistant")
	}
}
