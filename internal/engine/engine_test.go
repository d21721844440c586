package engine_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/internal/engine"
	apperrors "github.com/RapidRiverSoftware/jobs-api/internal/errors"
	"github.com/RapidRiverSoftware/jobs-api/internal/persistence"
	testingutil "github.com/RapidRiverSoftware/jobs-api/internal/testing"
	"github.com/RapidRiverSoftware/jobs-api/services"
)

func TestCreateAndGetIndex(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)

	settings := testingutil.CreateTestIndex(t, eng, "position_openings")
	assert.Equal(t, "position_openings", settings.Name)
	assert.True(t, eng.IndexExists("position_openings"))

	indexAccessor, err := eng.GetIndex("position_openings")
	require.NoError(t, err)
	assert.Equal(t, "position_openings", indexAccessor.Settings().Name)

	names := eng.ListIndexes()
	assert.Equal(t, []string{"position_openings"}, names)
}

func TestCreateIndexRejectsDuplicates(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)
	testingutil.CreateTestIndex(t, eng, "position_openings")

	err := eng.CreateIndex(config.DefaultIndexSettings("position_openings"))
	assert.True(t, errors.Is(err, apperrors.ErrIndexAlreadyExists), "expected already-exists error, got %v", err)
}

func TestGetIndexNotFound(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)

	_, err := eng.GetIndex("missing")
	assert.True(t, errors.Is(err, apperrors.ErrIndexNotFound), "expected not-found error, got %v", err)
	assert.False(t, eng.IndexExists("missing"))
}

func TestDeleteIndex(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)
	testingutil.CreateTestIndex(t, eng, "position_openings")

	require.NoError(t, eng.DeleteIndex("position_openings"))
	assert.False(t, eng.IndexExists("position_openings"))

	err := eng.DeleteIndex("position_openings")
	assert.True(t, errors.Is(err, apperrors.ErrIndexNotFound), "expected not-found error, got %v", err)
}

func TestImportAndSearchThroughEngine(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)
	testingutil.CreateTestIndex(t, eng, "position_openings")
	testingutil.ImportTestOpenings(t, eng, "position_openings")

	indexAccessor, err := eng.GetIndex("position_openings")
	require.NoError(t, err)

	testingutil.RunSearchTests(t, indexAccessor, []testingutil.SearchTestCase{
		{
			Name:          "stemmed keyword",
			Options:       services.SearchOptions{Query: "nursing jobs"},
			ExpectedCount: 1,
			ExpectedFirst: "1",
		},
		{
			Name:          "no keywords lists open postings newest first",
			Options:       services.SearchOptions{},
			ExpectedCount: 2,
			ExpectedFirst: "2",
		},
		{
			Name:          "location filter",
			Options:       services.SearchOptions{Query: "jobs in arlington, va"},
			ExpectedCount: 1,
			ExpectedFirst: "1",
		},
	})
}

func TestPersistenceAcrossRestart(t *testing.T) {
	dataDir := t.TempDir()

	eng := engine.NewEngine(dataDir, nil)
	require.NoError(t, eng.CreateIndex(config.DefaultIndexSettings("position_openings")))
	testingutil.ImportTestOpenings(t, eng, "position_openings")
	require.NoError(t, eng.PersistIndexData("position_openings"))

	// A fresh engine over the same directory must serve the same data.
	reloaded := engine.NewEngine(dataDir, nil)
	assert.True(t, reloaded.IndexExists("position_openings"))

	indexAccessor, err := reloaded.GetIndex("position_openings")
	require.NoError(t, err)

	// "assistant" also lives in posting 1's title; posting 2 matches both
	// stems and ranks first.
	result, err := indexAccessor.SearchFor(services.SearchOptions{Query: "physician assistant"})
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	assert.Equal(t, "2", result.Hits[0].ID)
}

func TestPersistIndexDataUnknownIndex(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)

	err := eng.PersistIndexData("missing")
	assert.True(t, errors.Is(err, apperrors.ErrIndexNotFound), "expected not-found error, got %v", err)
}

func TestDeleteDocumentThroughEngine(t *testing.T) {
	eng := testingutil.CreateTestEngine(t, nil)
	testingutil.CreateTestIndex(t, eng, "position_openings")
	testingutil.ImportTestOpenings(t, eng, "position_openings")

	indexAccessor, err := eng.GetIndex("position_openings")
	require.NoError(t, err)

	require.NoError(t, indexAccessor.DeleteDocument("2"))

	result, err := indexAccessor.SearchFor(services.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "1", result.Hits[0].ID)
}

func TestLoadIndexWithOnlySettingsOnDisk(t *testing.T) {
	dataDir := t.TempDir()

	// Only settings.gob on disk: first persist of a fresh index may be
	// interrupted before the store snapshots land.
	settings := config.DefaultIndexSettings("position_openings")
	settings.ApplyDefaults()
	settingsPath := filepath.Join(dataDir, "position_openings", "settings.gob")
	require.NoError(t, persistence.SaveGob(settingsPath, settings))

	eng := engine.NewEngine(dataDir, nil)
	require.True(t, eng.IndexExists("position_openings"))

	indexAccessor, err := eng.GetIndex("position_openings")
	require.NoError(t, err)

	result, err := indexAccessor.SearchFor(services.SearchOptions{Query: "nursing jobs"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	// The empty index must accept imports and serve them.
	testingutil.ImportTestOpenings(t, eng, "position_openings")
	result, err = indexAccessor.SearchFor(services.SearchOptions{Query: "nursing jobs"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}
