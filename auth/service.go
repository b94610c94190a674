package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service is an in-process identity service with the hosted service's signup rules.
type Service struct {
	accounts Repository
	events   Events
	logger   *slog.Logger
}

func NewService(accounts Repository, events Events, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if events == nil {
		events = noEvents{}
	}
	return &Service{
		accounts: accounts,
		events:   events,
		logger:   log.With(slog.String("service", "identity")),
	}
}

func (svc *Service) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	acc, err := NewAccount(email)
	if err != nil {
		return nil, err
	}

	if len(password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}

	if existing, err := svc.accounts.FindByEmail(ctx, acc.Credentials.Email); existing != nil && err == nil {
		return nil, ErrExistingEmail
	}

	acc.ID = NewID()
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	acc.Credentials.Password = hash
	acc.CreatedAt = time.Now().UTC()

	if err := svc.accounts.Store(ctx, acc); err != nil {
		if err == ErrExistingEmail {
			return nil, err
		}
		return nil, fmt.Errorf("error saving account: %w", err)
	}

	svc.events.AccountCreated(string(acc.ID), acc.Credentials.Email)
	return acc, nil
}

func (svc *Service) DeleteAccount(ctx context.Context, id ID) error {
	if !isValidID(string(id)) {
		return ErrInvalidID
	}
	acc, err := svc.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.accounts.Delete(ctx, id); err != nil {
		return err
	}
	svc.logger.Info("account deleted", slog.String("account_id", string(id)), slog.String("email", acc.Credentials.Email))
	return nil
}

type noEvents struct{}

func (noEvents) AccountCreated(string, string) {}
