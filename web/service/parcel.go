package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/logger"

	"gorm.io/gorm"
)

// AllLandUses is the filter value that selects every parcel.
const AllLandUses = "All"

const seedBatchSize = 200

// ParcelService is the parcel registry: seeding, lookups and single-field edits.
type ParcelService struct {
	db       *gorm.DB
	snapshot *Snapshot
}

func NewParcelService(db *gorm.DB) *ParcelService {
	s := &ParcelService{db: db}
	s.snapshot = newSnapshot(s.All)
	return s
}

// Count returns the number of stored parcels.
func (s *ParcelService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&model.Parcel{}).Count(&count).Error
	return count, err
}

// SeedIfEmpty inserts parcels when the store holds none, assigning fresh ids in
// slice order. The emptiness check and the insert share one transaction, so a
// failed insert leaves the store empty for the next attempt. It returns how
// many parcels were inserted.
func (s *ParcelService) SeedIfEmpty(parcels []*model.Parcel) (int, error) {
	inserted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Parcel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Debugf("store already holds %d parcels, skipping seed", count)
			return nil
		}
		if len(parcels) == 0 {
			return nil
		}
		for _, p := range parcels {
			p.Id = 0
			p.SyncIndex()
		}
		if err := tx.CreateInBatches(parcels, seedBatchSize).Error; err != nil {
			return err
		}
		inserted = len(parcels)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		logger.Infof("seeded %d parcels", inserted)
		s.snapshot.Invalidate()
	}
	return inserted, nil
}

// FindByParcelId returns the parcel with the lowest internal id whose Parcel ID
// equals pid. Parcel IDs are not unique in the seed data.
func (s *ParcelService) FindByParcelId(pid string) (*model.Parcel, error) {
	parcel := &model.Parcel{}
	err := s.db.Where("parcel_id = ?", pid).Order("id").First(parcel).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return parcel, nil
}

// FindByLandUse returns every parcel in category, ordered by internal id.
func (s *ParcelService) FindByLandUse(category string) ([]model.Parcel, error) {
	parcels := make([]model.Parcel, 0)
	err := s.db.Where("land_use = ?", category).Order("id").Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

// All returns every parcel ordered by internal id.
func (s *ParcelService) All() ([]model.Parcel, error) {
	parcels := make([]model.Parcel, 0)
	if err := s.db.Order("id").Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// GetParcel returns the parcel with internal id id.
func (s *ParcelService) GetParcel(id int) (*model.Parcel, error) {
	parcel := &model.Parcel{}
	err := s.db.First(parcel, id).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return parcel, nil
}

// LandUses lists the distinct land-use categories present in the store.
func (s *ParcelService) LandUses() ([]string, error) {
	var uses []string
	err := s.db.Model(&model.Parcel{}).
		Distinct("land_use").
		Where("land_use <> ''").
		Order("land_use").
		Pluck("land_use", &uses).
		Error
	return uses, err
}

// UpdateField writes one attribute of the parcel with internal id id.
// Numeric-looking values are stored as numbers, anything else as text.
// A missing id yields ErrNotFound.
func (s *ParcelService) UpdateField(id int, field string, rawValue string) error {
	if field == "" {
		return ErrValidation
	}
	value := ParseValue(rawValue)
	return s.db.Transaction(func(tx *gorm.DB) error {
		parcel := &model.Parcel{}
		err := tx.First(parcel, id).Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if parcel.Properties == nil {
			parcel.Properties = model.Properties{}
		}
		parcel.Properties[field] = value
		parcel.SyncIndex()
		return tx.Save(parcel).Error
	})
}

// FilterByLandUse returns every parcel for AllLandUses, otherwise the parcels
// of that category.
func (s *ParcelService) FilterByLandUse(category string) ([]model.Parcel, error) {
	if category == AllLandUses {
		return s.All()
	}
	return s.FindByLandUse(category)
}

// SearchByParcelId looks up exactly one parcel for the map to focus on.
func (s *ParcelService) SearchByParcelId(pid string) (*model.Parcel, error) {
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return nil, ErrEmptyInput
	}
	return s.FindByParcelId(pid)
}

// ApplyEdit trims rawText, stores it and refreshes the cached collection so
// the next export or listing sees the change.
func (s *ParcelService) ApplyEdit(id int, field string, rawText string) error {
	if err := s.UpdateField(id, field, strings.TrimSpace(rawText)); err != nil {
		return err
	}
	logger.Infof("updated parcel %d: %s set to %v", id, field, ParseValue(rawText))
	if err := s.snapshot.Refresh(); err != nil {
		// the write committed; the next Snapshot call reloads
		s.snapshot.Invalidate()
		logger.Warning("refresh parcel snapshot failed:", err)
	}
	return nil
}

// Snapshot returns the cached full collection used by exports.
func (s *ParcelService) Snapshot() ([]model.Parcel, error) {
	return s.snapshot.Get()
}

// ParseValue coerces edited text: a finite number after trimming becomes a
// float64, anything else (including blank text) stays a string.
func ParseValue(raw string) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return v
	}
	return f
}
