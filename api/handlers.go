package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RapidRiverSoftware/jobs-api/services"
)

// API holds dependencies for API handlers, primarily the index manager and
// the name of the index the search endpoint serves.
type API struct {
	engine    services.IndexManager
	indexName string
}

// NewAPI creates a new API handler structure. indexName is the index queried
// by the search endpoint.
func NewAPI(engine services.IndexManager, indexName string) *API {
	return &API{
		engine:    engine,
		indexName: indexName,
	}
}

// SetupRoutes defines all the API routes for the jobs service.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, indexName string) {
	apiHandler := NewAPI(engine, indexName)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	apiRoutes := router.Group("/api")
	{
		// Search route against the serving index
		apiRoutes.GET("/search", apiHandler.SearchHandler)

		// Index management routes
		indexRoutes := apiRoutes.Group("/indexes")
		{
			indexRoutes.GET("", apiHandler.ListIndexesHandler)                 // List all indexes
			indexRoutes.PUT("/:indexName", apiHandler.CreateIndexHandler)      // Create a new index
			indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)         // Get index stats
			indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)   // Delete an index

			// Document management routes per index
			docRoutes := indexRoutes.Group("/:indexName/documents")
			{
				docRoutes.POST("", apiHandler.ImportDocumentsHandler)              // Bulk import position openings
				docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)         // Delete all documents
				docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler) // Delete specific document
			}
		}
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "jobs-api",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
