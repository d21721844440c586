package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/model"
)

// ImportDocumentsHandler handles POST /api/indexes/:indexName/documents.
// The body is a single position opening or an array of them. Import is an
// upsert: re-sending an id replaces the stored version.
func (api *API) ImportDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	// Read the raw JSON first: the body may be one opening or an array
	var rawData json.RawMessage
	if err := c.ShouldBindJSON(&rawData); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	var records []model.PositionOpening
	trimmed := bytes.TrimLeft(rawData, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(rawData, &records); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
	} else {
		var single model.PositionOpening
		if err := json.Unmarshal(rawData, &single); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
		records = []model.PositionOpening{single}
	}

	if result := ValidatePositionOpenings(records); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := indexAccessor.Import(records); err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			result := &ValidationResult{Valid: true}
			result.AddError("position_openings", err.Error())
			SendValidationError(c, result)
			return
		}
		SendIndexingError(c, "import", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		// Import already succeeded in memory; report but do not fail the request
		log.Printf("Warning: failed to persist index '%s' after import: %v", indexName, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d position opening(s) imported into index '%s'", len(records), indexName)})
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := indexAccessor.DeleteAllDocuments(); err != nil {
		SendIndexingError(c, "delete all documents", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}

// DeleteDocumentHandler deletes a specific document by ID
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := indexAccessor.DeleteDocument(documentID); err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID, indexName)
			return
		}
		SendIndexingError(c, "delete document", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}
