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

// Store enforces email uniqueness the way a unique index would.
func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, v := range repo.accounts {
		if v.Email == acc.Email && v.ID != acc.ID {
			return ErrEmailInUse
		}
	}

	a := *acc
	repo.accounts[acc.ID] = &a
	return nil
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, v := range repo.accounts {
		if v.Email == email {
			a := *v
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}
