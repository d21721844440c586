package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/RapidRiverSoftware/jobs-api/api"
	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/internal/engine"
	"github.com/RapidRiverSoftware/jobs-api/internal/organizations"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.String("port", "", "Port to run the server on")
		dataDir    = flag.String("data-dir", "", "Directory to store index data")
		configPath = flag.String("config", "", "Path to a YAML server config file")
		orgAPI     = flag.String("org-api", "", "Base URL of the organization resolution API")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Jobs API - Full-text search over government position openings\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config jobs.yml        # Load server settings from a YAML file\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Jobs API v1.0.0\n")
		fmt.Printf("Query interpretation, stemmed relevance ranking, and highlighting\n")
		return
	}

	cfg := config.DefaultServerConfig()
	if *configPath != "" {
		loaded, err := config.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config file %s: %v", *configPath, err)
		}
		cfg = loaded
	}

	// Flags override file settings
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *orgAPI != "" {
		cfg.OrganizationAPI = *orgAPI
	}

	var resolver services.OrganizationResolver
	if cfg.OrganizationAPI != "" {
		log.Printf("Using organization API: %s", cfg.OrganizationAPI)
		resolver = organizations.NewClient(cfg.OrganizationAPI)
	}

	// Initialize the engine and make sure the serving index exists
	log.Printf("Using data directory: %s", cfg.DataDir)
	jobsEngine := engine.NewEngine(cfg.DataDir, resolver)

	if !jobsEngine.IndexExists(cfg.IndexName) {
		settings := cfg.Index
		settings.Name = cfg.IndexName
		settings.ApplyDefaults()
		if err := jobsEngine.CreateIndex(settings); err != nil {
			log.Fatalf("Failed to create index '%s': %v", cfg.IndexName, err)
		}
	}

	// Initialize Gin router
	router := gin.Default()

	// Setup API routes
	api.SetupRoutes(router, jobsEngine, cfg.IndexName)

	// Start the server
	log.Printf("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
