// Package config provides configuration structures for the jobs search engine:
// per-index settings and the server configuration file.
package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultIndexName is the index the search surface serves when no other
	// name is configured.
	DefaultIndexName = "position_openings"

	// DefaultSize is the result cap applied when the caller does not supply one.
	DefaultSize = 10
)

// IndexSettings contains the configuration options for a single search index.
type IndexSettings struct {
	Name             string   `json:"name" yaml:"name"`                           // Unique name for the index
	SearchableFields []string `json:"searchable_fields" yaml:"searchable_fields"` // Fields fed to the stemmed analyzer, in priority order
	DefaultSize      int      `json:"default_size" yaml:"default_size"`           // Result cap when the caller omits size
	HighlightPreTag  string   `json:"highlight_pre_tag" yaml:"highlight_pre_tag"` // Marker opening a highlighted span
	HighlightPostTag string   `json:"highlight_post_tag" yaml:"highlight_post_tag"`
}

// DefaultIndexSettings returns the settings used for the position openings
// index unless overridden.
func DefaultIndexSettings(name string) IndexSettings {
	settings := IndexSettings{Name: name}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults fills in zero-valued settings.
func (settings *IndexSettings) ApplyDefaults() {
	if len(settings.SearchableFields) == 0 {
		settings.SearchableFields = []string{"position_title", "organization_name"}
	}
	if settings.DefaultSize <= 0 {
		settings.DefaultSize = DefaultSize
	}
	if settings.HighlightPreTag == "" {
		settings.HighlightPreTag = "<em>"
	}
	if settings.HighlightPostTag == "" {
		settings.HighlightPostTag = "</em>"
	}
}

// Validate checks the settings for basic structural problems.
func (settings *IndexSettings) Validate() []string {
	var conflicts []string

	if strings.TrimSpace(settings.Name) == "" {
		conflicts = append(conflicts, "index name cannot be empty")
	}

	seen := make(map[string]bool)
	for _, field := range settings.SearchableFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "searchable field name cannot be empty or whitespace-only")
			continue
		}
		if seen[field] {
			conflicts = append(conflicts, fmt.Sprintf("duplicate field '%s' in searchable_fields", field))
		}
		seen[field] = true
	}

	if settings.DefaultSize < 0 {
		conflicts = append(conflicts, "default_size cannot be negative")
	}

	return conflicts
}
