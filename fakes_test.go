package signup

import (
	"context"
	"errors"

	"github.com/masseurtouch/signup/auth"
)

type identitySpy struct {
	account   *auth.Account
	createErr error
	deleteErr error

	creates []credentials
	deletes []auth.ID
}

type credentials struct {
	email, password string
}

func (s *identitySpy) CreateAccount(_ context.Context, email, password string) (*auth.Account, error) {
	s.creates = append(s.creates, credentials{email, password})
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.account, nil
}

func (s *identitySpy) DeleteAccount(_ context.Context, id auth.ID) error {
	s.deletes = append(s.deletes, id)
	return s.deleteErr
}

type storeSpy struct {
	insertErr error
	inserts   []ProfileRecord
}

func (s *storeSpy) Insert(_ context.Context, rec ProfileRecord) error {
	s.inserts = append(s.inserts, rec)
	return s.insertErr
}

func (s *storeSpy) FindByUserID(_ context.Context, userID string) (*ProfileRecord, error) {
	for _, r := range s.inserts {
		if r.UserID == userID {
			return &r, nil
		}
	}
	return nil, ErrProfileNotFound
}

var errNil = errors.New("")

func fillForm(c *Controller, values map[Field]string) {
	for f, v := range values {
		c.FieldChange(f, v)
	}
}

func anaForm() map[Field]string {
	return map[Field]string{
		FieldEmail:    "a@b.com",
		FieldPassword: "secret123",
		FieldName:     "Ana",
		FieldLocation: "",
		FieldBio:      "",
		FieldServices: "swedish,deep tissue",
	}
}
