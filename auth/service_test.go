package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	accounts := NewAccountRepository()
	spy := &accountEventsSpy{}
	svc := NewService(accounts, spy, nil)

	tests := []struct {
		email, password string
		wantErr         error
		wantAcc         bool
	}{
		{email: "b@c.com", password: "12345", wantErr: ErrInvalidPassword},
		{email: "bc.com", password: "secret123", wantErr: ErrInvalidEmail},
		{email: "b@c.com", password: "123456", wantAcc: true},
		{email: "b@c.com", password: "secret123", wantErr: ErrExistingEmail},
		{email: "B@C.com", password: "secret123", wantErr: ErrExistingEmail},
	}

	for _, tt := range tests {
		acc, err := svc.CreateAccount(ctx, tt.email, tt.password)

		assert.Equal(t, tt.wantErr, err)
		if !tt.wantAcc {
			assert.Nil(t, acc)
			continue
		}

		require.NotNil(t, acc)
		assert.True(t, isValidID(string(acc.ID)))

		stored, err := accounts.FindByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, spy.id, string(stored.ID))
		assert.Equal(t, spy.email, stored.Credentials.Email)
		assert.False(t, stored.CreatedAt.Before(now))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Credentials.Password), []byte(tt.password)))
	}
}

func TestService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository()
	svc := NewService(accounts, nil, nil)

	acc, err := svc.CreateAccount(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, ErrInvalidID, svc.DeleteAccount(ctx, "not-an-xid"))
	assert.NoError(t, svc.DeleteAccount(ctx, acc.ID))
	assert.Equal(t, ErrNotFound, svc.DeleteAccount(ctx, acc.ID))

	_, err = accounts.FindByEmail(ctx, "a@b.com")
	assert.Equal(t, ErrNotFound, err)

	again, err := svc.CreateAccount(ctx, "a@b.com", "secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, acc.ID, again.ID)
}

func TestAccountRepository_StoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	first := &Account{ID: NewID(), Credentials: Credentials{Email: "a@b.com"}}
	second := &Account{ID: NewID(), Credentials: Credentials{Email: "a@b.com"}}

	assert.NoError(t, repo.Store(ctx, first))
	assert.Equal(t, ErrExistingEmail, repo.Store(ctx, second))
	assert.NoError(t, repo.Store(ctx, first))
}

func TestDBAccountRoundTrip(t *testing.T) {
	acc := &Account{ID: NewID(), Credentials: Credentials{Email: "a@b.com", Password: "hash"}, CreatedAt: time.Now().UTC()}

	got := accountFromDBAccount(dbAccountFromAccount(acc))

	assert.Equal(t, *acc, got)
}

type accountEventsSpy struct {
	id, email string
}

func (a *accountEventsSpy) AccountCreated(accID string, email string) {
	a.id = accID
	a.email = email
}
