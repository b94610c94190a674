package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/masseurtouch/signup/internal/rest"
)

// RemoteClient is an Identity backed by the hosted identity API.
type RemoteClient struct {
	client     *rest.Client
	serviceKey string
	logger     *slog.Logger
}

// NewRemoteClient uses c (carrying the public key) for signups. serviceKey may be empty,
// in which case DeleteAccount fails with ErrNoServiceKey.
func NewRemoteClient(c *rest.Client, serviceKey string, log *slog.Logger) *RemoteClient {
	if log == nil {
		log = slog.Default()
	}
	return &RemoteClient{
		client:     c,
		serviceKey: serviceKey,
		logger:     log.With(slog.String("service", "identity_remote")),
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type remoteUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// signupResponse accepts both shapes the API answers with: a session wrapping the user,
// or the bare user when email confirmation is pending.
type signupResponse struct {
	AccessToken string      `json:"access_token"`
	User        *remoteUser `json:"user"`
	remoteUser
}

// CreateAccount signs up email/password. Rejections are returned as *rest.Error whose
// message is the service's own text.
func (c *RemoteClient) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	var res signupResponse
	err := c.client.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/signup",
		Body:   signupRequest{Email: email, Password: password},
	}, &res)
	if err != nil {
		return nil, err
	}

	u := res.User
	if u == nil {
		u = &res.remoteUser
	}
	if u.ID == "" {
		c.logger.Info("signup accepted without an account")
		return nil, nil
	}

	acc := &Account{ID: ID(u.ID), Credentials: Credentials{Email: u.Email}}
	if t, err := time.Parse(time.RFC3339Nano, u.CreatedAt); err == nil {
		acc.CreatedAt = t
	}
	return acc, nil
}

func (c *RemoteClient) DeleteAccount(ctx context.Context, id ID) error {
	if c.serviceKey == "" {
		return ErrNoServiceKey
	}
	return c.client.Do(ctx, rest.Request{
		Method:  http.MethodDelete,
		Path:    "/auth/v1/admin/users/" + url.PathEscape(string(id)),
		Bearer:  c.serviceKey,
		Headers: map[string]string{"apikey": c.serviceKey},
	}, nil)
}
