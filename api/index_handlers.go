package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/internal/engine"
	apperrors "github.com/RapidRiverSoftware/jobs-api/internal/errors"
)

// CreateIndexHandler handles PUT /api/indexes/:indexName.
// The request body may carry config.IndexSettings overrides; the path
// parameter always wins as the index name.
func (api *API) CreateIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	settings := config.DefaultIndexSettings(indexName)
	if err := c.ShouldBindJSON(&settings); err != nil && !errors.Is(err, io.EOF) {
		SendInvalidJSONError(c, err)
		return
	}
	settings.Name = indexName
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		result := &ValidationResult{Valid: true}
		for _, problem := range problems {
			result.AddError("settings", problem)
		}
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		if errors.Is(err, apperrors.ErrIndexAlreadyExists) {
			SendIndexExistsError(c, indexName)
			return
		}
		SendInternalError(c, "index creation", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + indexName + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves details about a specific index: its settings and
// document count.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	settings := indexAccessor.Settings()

	documentCount := 0
	if instance, ok := indexAccessor.(*engine.IndexInstance); ok {
		instance.DocumentStore.Mu.RLock()
		documentCount = len(instance.DocumentStore.Docs)
		instance.DocumentStore.Mu.RUnlock()
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              settings.Name,
		"document_count":    documentCount,
		"searchable_fields": settings.SearchableFields,
		"default_size":      settings.DefaultSize,
	})
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if err := api.engine.DeleteIndex(indexName); err != nil {
		if errors.Is(err, apperrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "index deletion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}
