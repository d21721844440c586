// Package indexing builds the stemmed inverted index from posting records.
package indexing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RapidRiverSoftware/jobs-api/index"
	"github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/internal/tokenizer"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/store"
)

// Service implements the indexing logic for a single index.
// It fulfills the import half of the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	// settings are accessible via invertedIndex.Settings
}

// NewService creates a new indexing Service. It assumes invertedIndex.Settings
// is not nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}
	if invertedIndex.Index == nil {
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]model.PositionOpening)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// Import bulk-upserts posting records. It is idempotent per document id:
// re-importing an id replaces the previous version rather than duplicating it.
func (s *Service) Import(records []model.PositionOpening) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return errors.NewValidationError("position_openings", err.Error())
		}
	}

	// Process records in micro-batches to minimize lock contention and allow
	// search operations to interleave.
	const microBatchSize = 10

	for i := 0; i < len(records); i += microBatchSize {
		end := i + microBatchSize
		if end > len(records) {
			end = len(records)
		}

		if err := s.importMicroBatch(records[i:end]); err != nil {
			return fmt.Errorf("failed to import micro-batch starting at index %d: %w", i, err)
		}

		if i+microBatchSize < len(records) {
			// Yield between micro-batches so pending reads can acquire locks.
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}

// importMicroBatch processes a small batch of records with minimal lock time.
func (s *Service) importMicroBatch(records []model.PositionOpening) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for _, record := range records {
		if err := s.upsertUnsafe(record); err != nil {
			return fmt.Errorf("failed to import position opening %s: %w", record.DocumentID(), err)
		}
	}
	return nil
}

// fieldText maps a searchable field name to the record's text content.
func fieldText(record model.PositionOpening, fieldName string) string {
	switch fieldName {
	case "position_title":
		return record.PositionTitle
	case "organization_name":
		return record.OrganizationName
	default:
		return ""
	}
}

// upsertUnsafe indexes a single record. The caller must hold write locks on
// both the document store and the inverted index.
func (s *Service) upsertUnsafe(record model.PositionOpening) error {
	settings := s.invertedIndex.Settings
	docID := record.DocumentID()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if exists {
		// Replace: clean up the previous version's stems before re-indexing.
		if oldRecord, ok := s.documentStore.Docs[internalID]; ok {
			for _, fieldName := range settings.SearchableFields {
				s.removeFieldStemsUnsafe(oldRecord, fieldName, internalID)
			}
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[docID] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = record

	for _, fieldName := range settings.SearchableFields {
		text := fieldText(record, fieldName)
		if strings.TrimSpace(text) == "" {
			continue
		}

		stems := tokenizer.TokenizeAndStem(text)
		if len(stems) == 0 {
			continue
		}

		termFrequencies := make(map[string]int)
		for _, stem := range stems {
			termFrequencies[stem]++
		}

		for stem, freqInField := range termFrequencies {
			s.insertPostingUnsafe(stem, index.PostingEntry{
				DocID:     internalID,
				FieldName: fieldName,
				TermFreq:  float64(freqInField),
			})
		}
	}
	return nil
}

// insertPostingUnsafe inserts an entry into a posting list, keeping the list
// sorted by DocID ascending then FieldName ascending and replacing any
// existing entry for the same document and field.
func (s *Service) insertPostingUnsafe(stem string, entry index.PostingEntry) {
	postingList := s.invertedIndex.Index[stem]

	insertionIdx := sort.Search(len(postingList), func(i int) bool {
		if postingList[i].DocID != entry.DocID {
			return postingList[i].DocID >= entry.DocID
		}
		return postingList[i].FieldName >= entry.FieldName
	})

	if insertionIdx < len(postingList) &&
		postingList[insertionIdx].DocID == entry.DocID &&
		postingList[insertionIdx].FieldName == entry.FieldName {
		postingList[insertionIdx] = entry
		s.invertedIndex.Index[stem] = postingList
		return
	}

	postingList = append(postingList, index.PostingEntry{})
	copy(postingList[insertionIdx+1:], postingList[insertionIdx:])
	postingList[insertionIdx] = entry
	s.invertedIndex.Index[stem] = postingList
}

// removeFieldStemsUnsafe removes a document's posting entries for one field.
func (s *Service) removeFieldStemsUnsafe(record model.PositionOpening, fieldName string, internalID uint32) {
	text := fieldText(record, fieldName)
	if strings.TrimSpace(text) == "" {
		return
	}

	uniqueStems := make(map[string]struct{})
	for _, stem := range tokenizer.TokenizeAndStem(text) {
		uniqueStems[stem] = struct{}{}
	}

	for stem := range uniqueStems {
		postingList, ok := s.invertedIndex.Index[stem]
		if !ok {
			continue
		}
		newList := make(index.PostingList, 0, len(postingList))
		for _, entry := range postingList {
			if entry.DocID != internalID || entry.FieldName != fieldName {
				newList = append(newList, entry)
			}
		}
		if len(newList) == 0 {
			delete(s.invertedIndex.Index, stem)
		} else {
			s.invertedIndex.Index[stem] = newList
		}
	}
}

// DeleteAllDocuments removes every record, clearing both the document store
// and the inverted index.
func (s *Service) DeleteAllDocuments() error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]model.PositionOpening)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0
	s.invertedIndex.Index = make(map[string]index.PostingList)

	return nil
}

// DeleteDocument removes a specific record from the index by its external ID.
func (s *Service) DeleteDocument(docID string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return errors.NewDocumentNotFoundError(docID)
	}

	record, recordExists := s.documentStore.Docs[internalID]
	if !recordExists {
		delete(s.documentStore.ExternalIDtoInternalID, docID)
		return fmt.Errorf("position opening with ID '%s' found in mapping but not in store (inconsistent state)", docID)
	}

	for _, fieldName := range s.invertedIndex.Settings.SearchableFields {
		s.removeFieldStemsUnsafe(record, fieldName, internalID)
	}

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)

	return nil
}
