// Package engine orchestrates the lifecycle of position opening indexes:
// creation, loading from disk, persistence, and lookup.
package engine

import (
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/index"
	"github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/internal/indexing"
	"github.com/RapidRiverSoftware/jobs-api/internal/persistence"
	"github.com/RapidRiverSoftware/jobs-api/internal/search"
	"github.com/RapidRiverSoftware/jobs-api/model"
	"github.com/RapidRiverSoftware/jobs-api/services"
	"github.com/RapidRiverSoftware/jobs-api/store"
)

const (
	dataDirPerm       = 0755
	settingsFile      = "settings.gob"
	invertedIndexFile = "inverted_index.gob"
	documentStoreFile = "document_store.gob"
)

// Engine manages multiple position opening indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu       sync.RWMutex
	indexes  map[string]*IndexInstance
	dataDir  string
	resolver services.OrganizationResolver
}

// NewEngine creates a new engine rooted at dataDir. The resolver is shared by
// every index's query parser and may be nil when no organization API is
// configured.
func NewEngine(dataDir string, resolver services.OrganizationResolver) *Engine {
	eng := &Engine{
		indexes:  make(map[string]*IndexInstance),
		dataDir:  dataDir,
		resolver: resolver,
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence for new indexes if loading fails.", dataDir, err)
	}
	eng.loadIndexesFromDisk()
	return eng
}

func (e *Engine) loadIndexesFromDisk() {
	log.Printf("Loading indexes from disk: %s", e.dataDir)
	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Printf("Warning: Failed to read data directory %s: %v. No indexes loaded.", e.dataDir, err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		indexPath := filepath.Join(e.dataDir, indexName)
		log.Printf("Attempting to load index: %s", indexName)

		var settings config.IndexSettings
		settingsPath := filepath.Join(indexPath, settingsFile)
		if err := persistence.LoadGob(settingsPath, &settings); err != nil {
			log.Printf("Warning: Failed to load settings for index %s from %s: %v. Skipping this index.", indexName, settingsPath, err)
			continue
		}

		// Basic validation, settings name should match directory name
		if settings.Name != indexName {
			log.Printf("Warning: Index name in settings ('%s') does not match directory name ('%s') for path %s. Skipping this index.", settings.Name, indexName, indexPath)
			continue
		}
		settings.ApplyDefaults()

		docStore := &store.DocumentStore{}
		dsPath := filepath.Join(indexPath, documentStoreFile)
		if err := persistence.LoadGob(dsPath, docStore); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Failed to load document store for index %s from %s: %v. Proceeding with empty store.", indexName, dsPath, err)
			docStore.Docs = make(map[uint32]model.PositionOpening)
			docStore.ExternalIDtoInternalID = make(map[string]uint32)
		} else if stderrors.Is(err, os.ErrNotExist) {
			log.Printf("Info: Document store file %s not found for index %s. Initializing empty store.", dsPath, indexName)
			docStore.Docs = make(map[uint32]model.PositionOpening)
			docStore.ExternalIDtoInternalID = make(map[string]uint32)
		}

		invIndex := &index.InvertedIndex{Settings: &settings} // Settings must be linked here
		iiPath := filepath.Join(indexPath, invertedIndexFile)
		if err := persistence.LoadGob(iiPath, invIndex); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Failed to load inverted index for index %s from %s: %v. Proceeding with empty index.", indexName, iiPath, err)
			invIndex.Index = make(map[string]index.PostingList)
		} else if stderrors.Is(err, os.ErrNotExist) {
			log.Printf("Info: Inverted index file %s not found for index %s. Initializing empty index.", iiPath, indexName)
			invIndex.Index = make(map[string]index.PostingList)
		}

		indexerService, err := indexing.NewService(invIndex, docStore)
		if err != nil {
			log.Printf("Error creating indexer service for loaded index %s: %v. Skipping.", indexName, err)
			continue
		}

		searchService, err := search.NewService(invIndex, docStore, &settings, e.resolver)
		if err != nil {
			log.Printf("Error creating search service for loaded index %s: %v. Skipping.", indexName, err)
			continue
		}

		instance := &IndexInstance{
			settings:      &settings,
			InvertedIndex: invIndex,
			DocumentStore: docStore,
			indexer:       indexerService,
			searcher:      searchService,
		}

		e.indexes[indexName] = instance
		log.Printf("Successfully loaded index: %s", indexName)
	}
}

// CreateIndex creates a new index with the given settings and persists it.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if settings.Name == "" {
		return errors.NewValidationError("name", "index name cannot be empty")
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	searchService, err := search.NewService(instance.InvertedIndex, instance.DocumentStore, instance.settings, e.resolver)
	if err != nil {
		return fmt.Errorf("failed to create search service for new index '%s': %w", settings.Name, err)
	}
	instance.SetSearcher(searchService)

	// Persist the initial state
	indexPath := filepath.Join(e.dataDir, settings.Name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", settings.Name, err)
	}

	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), *instance.settings); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return fmt.Errorf("failed to save initial inverted index for %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save initial document store for %s: %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	log.Printf("Index '%s' created and persisted.", settings.Name)
	return nil
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// IndexExists reports whether an index with the given name is loaded.
func (e *Engine) IndexExists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, exists := e.indexes[name]
	return exists
}

// DeleteIndex removes an index by its name from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		// To be idempotent, if not in memory, check if it exists on disk to remove
		indexPath := filepath.Join(e.dataDir, name)
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			return errors.NewIndexNotFoundError(name)
		}
	} else {
		delete(e.indexes, name)
	}

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
	}
	log.Printf("Index '%s' deleted from memory and disk.", name)
	return nil
}

// ListIndexes returns a list of names of all existing indexes.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	return names
}

// PersistIndexData requests an index instance to save its current state.
// This should be called after modifications (e.g., Import).
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock() // Lock to safely get the instance
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	indexPath := filepath.Join(e.dataDir, indexName)

	// InvertedIndex and DocumentStore take their own RLock in GobEncode
	if err := persistence.SaveGob(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return errors.NewBackendUnavailableError("inverted index snapshot", err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return errors.NewBackendUnavailableError("document store snapshot", err)
	}
	log.Printf("Data for index '%s' persisted.", indexName)
	return nil
}
