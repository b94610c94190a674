package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masseurtouch/signup/internal/rest"
)

func newLocalIdentityServer(t *testing.T, signingKey string) (*httptest.Server, Repository) {
	t.Helper()
	accounts := NewAccountRepository()
	svc := NewService(accounts, nil, nil)

	router := httprouter.New()
	router.Handler(http.MethodPost, "/auth/v1/signup", SignupHandler(svc, NewSigner(signingKey, time.Hour)))
	router.Handler(http.MethodDelete, "/auth/v1/admin/users/:id", DeleteAccountHandler(svc, "service-key"))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, accounts
}

func TestRemoteClient_AgainstLocalService(t *testing.T) {
	for _, key := range []string{"signing-key", ""} {
		srv, accounts := newLocalIdentityServer(t, key)
		c := NewRemoteClient(rest.NewClient(srv.URL, "anon"), "service-key", nil)
		ctx := context.Background()

		acc, err := c.CreateAccount(ctx, "a@b.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, acc)
		assert.Equal(t, "a@b.com", acc.Credentials.Email)
		assert.False(t, acc.CreatedAt.IsZero())

		_, err = c.CreateAccount(ctx, "a@b.com", "secret123")
		assert.EqualError(t, err, ErrExistingEmail.Error())

		require.NoError(t, c.DeleteAccount(ctx, acc.ID))
		_, err = accounts.FindByID(ctx, acc.ID)
		assert.Equal(t, ErrNotFound, err)
	}
}

func TestRemoteClient_CreateAccountWithoutUserIsPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":null,"session":null}`))
	}))
	defer srv.Close()

	acc, err := NewRemoteClient(rest.NewClient(srv.URL, "anon"), "", nil).CreateAccount(context.Background(), "a@b.com", "secret123")

	assert.NoError(t, err)
	assert.Nil(t, acc)
}

func TestRemoteClient_ServiceMessageIsVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"weak_password","msg":"Password should be at least 6 characters."}`))
	}))
	defer srv.Close()

	_, err := NewRemoteClient(rest.NewClient(srv.URL, "anon"), "", nil).CreateAccount(context.Background(), "a@b.com", "123")

	assert.EqualError(t, err, "Password should be at least 6 characters.")
}

func TestRemoteClient_DeleteWithoutServiceKey(t *testing.T) {
	c := NewRemoteClient(rest.NewClient("http://127.0.0.1:1", "anon"), "", nil)

	assert.Equal(t, ErrNoServiceKey, c.DeleteAccount(context.Background(), "u1"))
}
