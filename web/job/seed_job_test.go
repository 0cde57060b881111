package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/web/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedJobRetriesUntilSourceAppears(t *testing.T) {
	dir := t.TempDir()
	db, err := database.OpenDB(filepath.Join(dir, "cadastral.db"))
	require.NoError(t, err)
	defer database.Close(db)

	parcels := service.NewParcelService(db)
	src := filepath.Join(dir, "estate.json")
	j := NewSeedJob(parcels, src)

	j.Run()
	assert.False(t, j.Done())

	require.NoError(t, os.WriteFile(src, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"ParcelID":"A1","Land_Use":"Residential"},"geometry":null}]}`), 0o600))
	j.Run()
	assert.True(t, j.Done())

	// once done, later runs do not touch the source
	require.NoError(t, os.Remove(src))
	j.Run()
	count, err := parcels.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	NewCheckpointJob(db).Run()
}

func TestSeedJobSurvivesPanic(t *testing.T) {
	j := NewSeedJob(nil, filepath.Join(t.TempDir(), "estate.json"))
	assert.NotPanics(t, j.Run)
	assert.False(t, j.Done())
}
