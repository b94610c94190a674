package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"
)

// Account is a credential record owned by the identity service.
type Account struct {
	ID          ID
	Credentials Credentials
	CreatedAt   time.Time
}

type ID string

//Credentials holds the account's sensitive information
type Credentials struct {
	Email,
	Password string
}

// MinPasswordLength matches the hosted service's default policy.
const MinPasswordLength = 6

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrExistingEmail   = errors.New("user already registered")
	ErrInvalidPassword = errors.New("password should be at least 6 characters")
	ErrNotFound        = errors.New("account not found")
	ErrInvalidID       = errors.New("invalid account id")
	ErrNoServiceKey    = errors.New("deleting accounts requires a service key")
)

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

//NewAccount validates the email and returns a new Account if it is valid.
// The address is trimmed and lower-cased the way the hosted service stores it.
func NewAccount(email string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &Account{Credentials: Credentials{Email: email}}, nil
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}
