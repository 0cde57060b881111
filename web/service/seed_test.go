package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estate.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedFromSource(t *testing.T) {
	env := newTestEnv(t)
	src := writeSeed(t, `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"ParcelID":"A1","Land_Use":"Residential","Area":120},"geometry":null},
		{"type":"Feature","properties":{"ParcelID":"A2","Land_Use":"Commercial","Area":90},"geometry":null}]}`)

	n, err := env.parcels.SeedFromSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = env.parcels.SeedFromSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSeedFromSourceFailureLeavesStoreEmpty(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.parcels.SeedFromSource(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = env.parcels.SeedFromSource(context.Background(), writeSeed(t, `{"type":"FeatureCollection","features":[{"type":`))
	assert.Error(t, err)

	count, err := env.parcels.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeedFromSourceSkipsLoadWhenPopulated(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	// the source is never read, so a missing file is not an error
	n, err := env.parcels.SeedFromSource(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
