package auth

import "context"

// Identity creates accounts on an identity service and removes them again.
// CreateAccount may return a nil account with a nil error when the service
// defers account creation until the address is confirmed.
type Identity interface {
	CreateAccount(ctx context.Context, email, password string) (*Account, error)
	DeleteAccount(ctx context.Context, id ID) error
}

type Events interface {
	AccountCreated(id string, email string)
}

type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
	Delete(ctx context.Context, id ID) error
}
