package auth

import (
	"context"
	"sync"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
}

func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

// Store refuses a second account with the same email so the check and the write are atomic.
func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for id, v := range repo.accounts {
		if id != acc.ID && v.Credentials.Email == acc.Credentials.Email {
			return ErrExistingEmail
		}
	}
	repo.accounts[acc.ID] = acc
	return nil
}

func (repo *accountRepository) FindByID(_ context.Context, id ID) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if a, ok := repo.accounts[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, v := range repo.accounts {
		if v.Credentials.Email == email {
			return v, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) Delete(_ context.Context, id ID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(repo.accounts, id)
	return nil
}
