package service

import (
	"errors"
	"strings"

	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/crypto"

	"gorm.io/gorm"
)

// UserService registers parcel owners. Each parcel id binds at most one user.
type UserService struct {
	db      *gorm.DB
	parcels *ParcelService
	hasher  crypto.PasswordHasher
}

func NewUserService(db *gorm.DB, parcels *ParcelService, hasher crypto.PasswordHasher) *UserService {
	if hasher == nil {
		hasher = crypto.Bcrypt{}
	}
	return &UserService{db: db, parcels: parcels, hasher: hasher}
}

// Register creates a user bound to parcelId and returns the new internal id.
// Checks run in a fixed order: required fields, parcel existence, then
// uniqueness, so an unknown parcel is never reported as already registered.
func (s *UserService) Register(name string, parcelId string, password string) (int, error) {
	name = strings.TrimSpace(name)
	parcelId = strings.TrimSpace(parcelId)
	if name == "" || parcelId == "" || password == "" {
		return 0, ErrValidation
	}

	if _, err := s.parcels.FindByParcelId(parcelId); errors.Is(err, ErrNotFound) {
		return 0, ErrUnknownParcel
	} else if err != nil {
		return 0, err
	}

	if _, err := s.FindByParcelId(parcelId); err == nil {
		return 0, ErrDuplicateParcel
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	user := &model.User{
		Name:     name,
		ParcelId: parcelId,
		Password: hash,
	}
	// the unique index still guards against a concurrent registration
	if err := s.db.Create(user).Error; database.IsDuplicate(err) {
		return 0, ErrDuplicateParcel
	} else if err != nil {
		return 0, err
	}
	logger.Infof("registered user %d for parcel %s", user.Id, parcelId)
	return user.Id, nil
}

// FindByParcelId returns the user bound to parcelId, or ErrNotFound.
func (s *UserService) FindByParcelId(parcelId string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("parcel_id = ?", parcelId).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser returns the user when password matches, ErrNotFound when no user
// holds parcelId and ErrInvalidCredentials on a wrong password.
func (s *UserService) CheckUser(parcelId string, password string) (*model.User, error) {
	user, err := s.FindByParcelId(parcelId)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile is what the dashboard shows for the signed-in owner.
type Profile struct {
	User   *model.User   `json:"user"`
	Parcel *model.Parcel `json:"parcel"`
}

// GetProfile loads the user and their parcel. The parcel was checked at
// registration only, so it may be missing now.
func (s *UserService) GetProfile(parcelId string) (*Profile, error) {
	user, err := s.FindByParcelId(parcelId)
	if err != nil {
		return nil, err
	}
	parcel, err := s.parcels.FindByParcelId(parcelId)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Parcel: parcel}, nil
}
