// Package search executes parsed queries against an index: hard filters,
// relevance or recency ranking, pagination, highlighting, and the final
// result projection.
package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/index"
	"github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/internal/highlight"
	"github.com/RapidRiverSoftware/jobs-api/internal/query"
	"github.com/RapidRiverSoftware/jobs-api/internal/tokenizer"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/services"
	"github.com/RapidRiverSoftware/jobs-api/store"
)

// Service implements the retrieval logic for a single index.
// It fulfills the services.Searcher interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.IndexSettings
	parser        *query.Parser
	highlighter   *highlight.Highlighter
	bm25          *BM25Calculator
}

// NewService creates a new search Service. The resolver may be nil, which
// disables implicit organization matching in the query parser.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings, resolver services.OrganizationResolver) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		parser:        query.NewParser(resolver),
		highlighter:   highlight.New(settings.HighlightPreTag, settings.HighlightPostTag),
		bm25:          NewBM25Calculator(invIndex, docStore),
	}, nil
}

// SearchFor executes the combined free-text/structured request and returns
// the requested page of formatted hits. Zero matches is a valid, empty,
// successful result, never an error.
func (s *Service) SearchFor(options services.SearchOptions) (services.SearchResult, error) {
	startTime := time.Now()

	size, from, err := s.validatePagination(options)
	if err != nil {
		return services.SearchResult{}, err
	}

	parsed := s.parser.Parse(options.Query, options.OrganizationID)

	// Lock order: document store before inverted index, same as the
	// indexing write path.
	s.documentStore.Mu.RLock()
	s.invertedIndex.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	defer s.invertedIndex.Mu.RUnlock()

	var candidates []*candidateHit
	if parsed.HasKeywords() {
		candidates = s.relevanceCandidates(parsed)
	} else {
		candidates = s.recencyCandidates(parsed)
	}

	// Relevance order when keywords scored the candidates, strict descending
	// id (newest first) otherwise. Ties always fall back to descending id.
	if parsed.HasKeywords() {
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return candidates[i].record.ID > candidates[j].record.ID
		})
	} else {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].record.ID > candidates[j].record.ID
		})
	}

	total := len(candidates)
	page := paginate(candidates, from, size)

	var highlighter *highlight.Highlighter
	if options.Highlight {
		highlighter = s.highlighter
	}

	hits := make([]services.PositionOpeningResult, 0, len(page))
	for _, candidate := range page {
		hits = append(hits, formatHit(candidate.record, candidate.matchedStems, highlighter))
	}

	return services.SearchResult{
		Hits:    hits,
		Total:   total,
		Took:    time.Since(startTime).Milliseconds(),
		QueryID: uuid.New().String(),
	}, nil
}

// validatePagination rejects structurally invalid size/from combinations and
// applies the index defaults for absent ones.
func (s *Service) validatePagination(options services.SearchOptions) (size, from int, err error) {
	size = options.Size
	if size < 0 {
		return 0, 0, errors.NewMalformedQueryError("size", fmt.Sprintf("must be a positive integer, got %d", size))
	}
	if size == 0 {
		size = s.settings.DefaultSize
		if size <= 0 {
			size = config.DefaultSize
		}
	}

	from = options.From
	if from < 0 {
		return 0, 0, errors.NewMalformedQueryError("from", fmt.Sprintf("must be a non-negative integer, got %d", from))
	}
	return size, from, nil
}

// relevanceCandidates unions the posting lists of the query's keyword stems,
// scoring each surviving posting by summed BM25 over its matched stems.
func (s *Service) relevanceCandidates(parsed query.Parsed) []*candidateHit {
	today := model.Today()
	queryStems := tokenizer.UniqueStems(parsed.KeywordString())

	byDocID := make(map[uint32]*candidateHit)
	for _, stem := range queryStems {
		postingList, found := s.invertedIndex.Index[stem]
		if !found {
			continue
		}
		for _, entry := range postingList {
			candidate, seen := byDocID[entry.DocID]
			if !seen {
				record, ok := s.documentStore.Docs[entry.DocID]
				if !ok || !matchesFilters(record, parsed, today) {
					// Remember filtered-out documents so later stems skip them.
					byDocID[entry.DocID] = nil
					continue
				}
				candidate = &candidateHit{
					record:       record,
					matchedStems: make(map[string]struct{}),
				}
				byDocID[entry.DocID] = candidate
			}
			if candidate == nil {
				continue
			}
			candidate.score += s.bm25.CalculateBM25(stem, entry.DocID, entry.TermFreq, s.settings.SearchableFields)
			candidate.matchedStems[stem] = struct{}{}
		}
	}

	candidates := make([]*candidateHit, 0, len(byDocID))
	for _, candidate := range byDocID {
		if candidate != nil {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// recencyCandidates collects every posting passing the hard filters; no
// relevance score is computed on this path.
func (s *Service) recencyCandidates(parsed query.Parsed) []*candidateHit {
	today := model.Today()

	candidates := make([]*candidateHit, 0, len(s.documentStore.Docs))
	for _, record := range s.documentStore.Docs {
		if !matchesFilters(record, parsed, today) {
			continue
		}
		candidates = append(candidates, &candidateHit{record: record})
	}
	return candidates
}

// paginate returns the contiguous slice [from, from+size) of the ranked
// sequence. An offset beyond the result count yields an empty page.
func paginate(candidates []*candidateHit, from, size int) []*candidateHit {
	if from >= len(candidates) {
		return nil
	}
	end := from + size
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[from:end]
}
