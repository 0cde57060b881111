package service

import (
	"maps"
	"slices"
	"sync"

	"github.com/otedola/cadastral/database/model"
)

// Snapshot caches the full parcel collection. Writers call Refresh or
// Invalidate after committing so readers never see stale data.
type Snapshot struct {
	mu     sync.Mutex
	load   func() ([]model.Parcel, error)
	loaded bool
	items  []model.Parcel
}

func newSnapshot(load func() ([]model.Parcel, error)) *Snapshot {
	return &Snapshot{load: load}
}

// Get returns a deep copy of the cached collection, loading it on first use.
func (s *Snapshot) Get() ([]model.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.reloadLocked(); err != nil {
			return nil, err
		}
	}
	out := make([]model.Parcel, len(s.items))
	for i, p := range s.items {
		p.Properties = maps.Clone(p.Properties)
		p.Geometry = slices.Clone(p.Geometry)
		out[i] = p
	}
	return out, nil
}

func (s *Snapshot) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.items = nil
}

func (s *Snapshot) reloadLocked() error {
	items, err := s.load()
	if err != nil {
		return err
	}
	s.items = items
	s.loaded = true
	return nil
}
