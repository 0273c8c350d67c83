package user

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-memory map. It backs tests and
// deployments that run without a database path configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

// GetByID looks up a profile by user identifier.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

// FindByEmail scans for a profile with the given (lower-cased) email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return cloneProfile(p), nil
		}
	}
	return nil, nil
}

// Create stores the profile keyed by its identifier, replacing any existing
// record while keeping its original CreatedAt.
func (s *MemoryStore) Create(_ context.Context, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneProfile(profile)
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		if existing, ok := s.profiles[stored.ID]; ok {
			stored.CreatedAt = existing.CreatedAt
		} else {
			stored.CreatedAt = now
		}
	}
	stored.UpdatedAt = now
	if stored.Subjects == nil {
		stored.Subjects = []string{}
	}
	s.profiles[stored.ID] = stored
	return nil
}

// AddSubject appends a subject with union semantics.
func (s *MemoryStore) AddSubject(_ context.Context, id, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	if p.HasSubject(subject) {
		return nil
	}
	p.Subjects = append(p.Subjects, subject)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveSubject removes a subject with set-difference semantics.
func (s *MemoryStore) RemoveSubject(_ context.Context, id, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	kept := p.Subjects[:0]
	for _, name := range p.Subjects {
		if name != subject {
			kept = append(kept, name)
		}
	}
	p.Subjects = kept
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneProfile(p *Profile) *Profile {
	copied := *p
	copied.Subjects = append([]string(nil), p.Subjects...)
	return &copied
}
