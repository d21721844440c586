package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

// SearchHandler handles GET /api/search against the serving index.
//
// Query parameters:
//
//	query           free text (keywords, location phrase, organization reference)
//	organization_id explicit organization filter (case-insensitive prefix)
//	size            max hits per page (default from index settings)
//	from            zero-based offset
//	hl              "1" or "true" to highlight matched title terms
func (api *API) SearchHandler(c *gin.Context) {
	indexAccessor, err := api.engine.GetIndex(api.indexName)
	if err != nil {
		SendIndexNotFoundError(c, api.indexName)
		return
	}

	options := services.SearchOptions{
		Query:          c.Query("query"),
		OrganizationID: c.Query("organization_id"),
	}

	if sizeParam := c.Query("size"); sizeParam != "" {
		size, err := strconv.Atoi(sizeParam)
		if err != nil {
			SendInvalidQueryError(c, apperrors.NewMalformedQueryError("size", "must be an integer"))
			return
		}
		options.Size = size
	}
	if fromParam := c.Query("from"); fromParam != "" {
		from, err := strconv.Atoi(fromParam)
		if err != nil {
			SendInvalidQueryError(c, apperrors.NewMalformedQueryError("from", "must be an integer"))
			return
		}
		options.From = from
	}
	if hlParam := c.Query("hl"); hlParam == "1" || hlParam == "true" {
		options.Highlight = true
	}

	results, err := indexAccessor.SearchFor(options)
	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, api.indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
