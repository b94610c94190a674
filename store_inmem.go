package signup

import (
	"context"
	"sync"
	"time"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[string]ProfileRecord
}

// NewProfileRepository returns an in-memory Store keeping one profile per user id.
func NewProfileRepository() Store {
	return &profileRepository{profiles: map[string]ProfileRecord{}}
}

func (repo *profileRepository) Insert(_ context.Context, rec ProfileRecord) error {
	if rec.UserID == "" {
		return ErrMissingUserID
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.profiles[rec.UserID]; ok {
		return ErrExistingProfile
	}
	if rec.ID == "" {
		rec.ID = nextRecordID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	repo.profiles[rec.UserID] = rec
	return nil
}

func (repo *profileRepository) FindByUserID(_ context.Context, userID string) (*ProfileRecord, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if p, ok := repo.profiles[userID]; ok {
		return &p, nil
	}
	return nil, ErrProfileNotFound
}
