package service

import (
	"context"

	"github.com/otedola/cadastral/seed"
)

// SeedFromSource populates an empty store from source. The source is only
// read when the store is empty; a load failure leaves the store untouched.
func (s *ParcelService) SeedFromSource(ctx context.Context, source string) (int, error) {
	count, err := s.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	fc, err := seed.Load(ctx, source)
	if err != nil {
		return 0, err
	}
	return s.SeedIfEmpty(fc.Parcels())
}
