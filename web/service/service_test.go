package service

import (
	"path/filepath"
	"testing"

	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/util/crypto"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	parcels *ParcelService
	users   *UserService
	auth    *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenDB(filepath.Join(t.TempDir(), "cadastral.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	parcels := NewParcelService(db)
	users := NewUserService(db, parcels, crypto.Bcrypt{Cost: bcrypt.MinCost})
	return &testEnv{
		db:      db,
		parcels: parcels,
		users:   users,
		auth:    NewAuthService(users),
	}
}

func parcel(pid, landUse string, area float64) *model.Parcel {
	return model.NewParcel(map[string]any{
		"ParcelID":   pid,
		"Land_Use":   landUse,
		"Area":       area,
		"OccupierID": "OCC-" + pid,
		"Surname":    "Adeyemi",
	}, []byte(`{"type":"Polygon","coordinates":[[[3.37,6.63],[3.38,6.63],[3.38,6.64],[3.37,6.63]]]}`))
}

// seedA1 seeds the single-parcel registry used by most scenarios.
func (e *testEnv) seedA1(t *testing.T) {
	t.Helper()
	n, err := e.parcels.SeedIfEmpty([]*model.Parcel{parcel("A1", "Residential", 120)})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
