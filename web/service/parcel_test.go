package service

import (
	"fmt"
	"math"
	"testing"

	"github.com/otedola/cadastral/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIfEmptyAssignsIdsInOrder(t *testing.T) {
	env := newTestEnv(t)
	n, err := env.parcels.SeedIfEmpty([]*model.Parcel{
		parcel("P3", "Residential", 10),
		parcel("P1", "Commercial", 20),
		parcel("P2", "Residential", 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := env.parcels.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"P3", "P1", "P2"}, []string{all[0].ParcelID, all[1].ParcelID, all[2].ParcelID})
	assert.Less(t, all[0].Id, all[1].Id)
	assert.Less(t, all[1].Id, all[2].Id)
}

func TestSeedIfEmptyRollsBackPartialInsert(t *testing.T) {
	env := newTestEnv(t)
	parcels := make([]*model.Parcel, 0, seedBatchSize+20)
	for i := 0; i < seedBatchSize+20; i++ {
		parcels = append(parcels, parcel(fmt.Sprintf("P%d", i), "Residential", float64(i)))
	}
	// the first batch is written before this one fails to encode
	parcels[seedBatchSize+10].Properties["SurveyPlan"] = math.NaN()

	n, err := env.parcels.SeedIfEmpty(parcels)
	require.Error(t, err)
	assert.Equal(t, 0, n)

	count, err := env.parcels.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	all, err := env.parcels.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	n, err = env.parcels.SeedIfEmpty([]*model.Parcel{parcel("A1", "Residential", 120)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSeedIfEmptyIsNoOpOnPopulatedStore(t *testing.T) {
	inputs := map[string][]*model.Parcel{
		"nil":       nil,
		"empty":     {},
		"one":       {parcel("B1", "Commercial", 5)},
		"duplicate": {parcel("A1", "Residential", 120)},
		"many":      {parcel("C1", "Industrial", 1), parcel("C2", "Industrial", 2)},
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedA1(t)

			n, err := env.parcels.SeedIfEmpty(in)
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			count, err := env.parcels.Count()
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestSeedIfEmptyWithNothingLeavesStoreEmpty(t *testing.T) {
	env := newTestEnv(t)
	n, err := env.parcels.SeedIfEmpty(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// a later attempt still seeds
	env.seedA1(t)
}

func TestFindByParcelIdFirstMatchWins(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.parcels.SeedIfEmpty([]*model.Parcel{
		parcel("X", "Residential", 1),
		parcel("D", "Commercial", 2),
		parcel("D", "Industrial", 3),
	})
	require.NoError(t, err)

	p, err := env.parcels.FindByParcelId("D")
	require.NoError(t, err)
	assert.Equal(t, "Commercial", p.LandUse)

	_, err = env.parcels.FindByParcelId("Z9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByParcelIdMatchesNumericSeedIds(t *testing.T) {
	env := newTestEnv(t)
	p := model.NewParcel(map[string]any{"ParcelID": float64(1024), "Land_Use": "Residential"}, nil)
	_, err := env.parcels.SeedIfEmpty([]*model.Parcel{p})
	require.NoError(t, err)

	got, err := env.parcels.FindByParcelId("1024")
	require.NoError(t, err)
	assert.Equal(t, float64(1024), got.Prop("ParcelID"))
}

func TestFilterByLandUse(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	res, err := env.parcels.FilterByLandUse("Residential")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "A1", res[0].ParcelID)

	res, err = env.parcels.FilterByLandUse("Commercial")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)

	res, err = env.parcels.FilterByLandUse(AllLandUses)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestFindByLandUseOrder(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.parcels.SeedIfEmpty([]*model.Parcel{
		parcel("R2", "Residential", 1),
		parcel("C1", "Commercial", 1),
		parcel("R1", "Residential", 1),
	})
	require.NoError(t, err)

	res, err := env.parcels.FindByLandUse("Residential")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "R2", res[0].ParcelID)
	assert.Equal(t, "R1", res[1].ParcelID)

	uses, err := env.parcels.LandUses()
	require.NoError(t, err)
	assert.Equal(t, []string{"Commercial", "Residential"}, uses)
}

func TestSearchByParcelId(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"exact", "A1", nil},
		{"padded", "  A1\t", nil},
		{"blank", "   ", ErrEmptyInput},
		{"empty", "", ErrEmptyInput},
		{"missing", "Z9", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := env.parcels.SearchByParcelId(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "A1", p.ParcelID)
		})
	}
}

func TestApplyEditCoercesValues(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)
	p, err := env.parcels.FindByParcelId("A1")
	require.NoError(t, err)

	require.NoError(t, env.parcels.ApplyEdit(p.Id, "Area", "150"))
	require.NoError(t, env.parcels.ApplyEdit(p.Id, "Surname", "Doe"))

	got, err := env.parcels.GetParcel(p.Id)
	require.NoError(t, err)
	assert.Equal(t, float64(150), got.Prop("Area"))
	assert.Equal(t, "Doe", got.Prop("Surname"))
}

func TestApplyEditReadAfterWrite(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	// warm the cache before editing
	before, err := env.parcels.Snapshot()
	require.NoError(t, err)
	id := before[0].Id

	require.NoError(t, env.parcels.ApplyEdit(id, "OccupierID", " OCC-99 "))

	all, err := env.parcels.All()
	require.NoError(t, err)
	assert.Equal(t, "OCC-99", all[0].Prop("OccupierID"))

	snap, err := env.parcels.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "OCC-99", snap[0].Prop("OccupierID"))
}

func TestSnapshotResultsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	first, err := env.parcels.Snapshot()
	require.NoError(t, err)
	first[0].Properties["Surname"] = "Mutated"
	first[0].Geometry[0] = 'x'

	again, err := env.parcels.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Adeyemi", again[0].Prop("Surname"))
	assert.Equal(t, byte('{'), again[0].Geometry[0])
}

func TestApplyEditLandUseMovesParcelBetweenFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)
	p, err := env.parcels.FindByParcelId("A1")
	require.NoError(t, err)

	require.NoError(t, env.parcels.ApplyEdit(p.Id, "Land_Use", "Commercial"))

	res, err := env.parcels.FilterByLandUse("Commercial")
	require.NoError(t, err)
	assert.Len(t, res, 1)
	res, err = env.parcels.FilterByLandUse("Residential")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUpdateFieldErrors(t *testing.T) {
	env := newTestEnv(t)
	env.seedA1(t)

	assert.ErrorIs(t, env.parcels.UpdateField(999, "Area", "1"), ErrNotFound)
	assert.ErrorIs(t, env.parcels.UpdateField(1, "", "1"), ErrValidation)
	assert.ErrorIs(t, env.parcels.ApplyEdit(999, "Area", "1"), ErrNotFound)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"150", float64(150)},
		{" 12.5 ", 12.5},
		{"-3", float64(-3)},
		{"1e3", float64(1000)},
		{"Doe", "Doe"},
		{"12a", "12a"},
		{"", ""},
		{"   ", ""},
		{"Inf", "Inf"},
		{"NaN", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.in))
		})
	}
}
