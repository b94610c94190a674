package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupHandler(t *testing.T) {
	svc := NewService(NewAccountRepository(), nil, nil)
	handler := SignupHandler(svc, NewSigner("signing-key", time.Hour))

	tests := []struct {
		req      string
		wantCode int
		wantMsg  string
		wantUser bool
	}{
		{req: `invalid request`, wantCode: http.StatusBadRequest, wantMsg: "invalid request body"},
		{req: `{"email": "a@bcom", "password": "secret123"}`, wantCode: http.StatusUnprocessableEntity, wantMsg: ErrInvalidEmail.Error()},
		{req: `{"email": "a@b.com", "password": "pass"}`, wantCode: http.StatusUnprocessableEntity, wantMsg: ErrInvalidPassword.Error()},
		{req: `{"email": "a@b.com", "password": "secret123"}`, wantCode: http.StatusOK, wantUser: true},
		{req: `{"email": "a@b.com", "password": "secret123"}`, wantCode: http.StatusUnprocessableEntity, wantMsg: ErrExistingEmail.Error()},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/auth/v1/signup", strings.NewReader(tt.req))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		var res struct {
			Msg         string       `json:"msg"`
			AccessToken string       `json:"access_token"`
			User        userResponse `json:"user"`
		}
		_ = json.NewDecoder(w.Body).Decode(&res)

		assert.Equal(t, tt.wantCode, w.Code)
		assert.Equal(t, tt.wantMsg, res.Msg)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, tt.wantUser, isValidID(string(res.User.ID)))
		if tt.wantUser {
			assert.Equal(t, "a@b.com", res.User.Email)

			token, err := jwt.ParseWithClaims(res.AccessToken, &jwt.StandardClaims{}, func(*jwt.Token) (interface{}, error) {
				return []byte("signing-key"), nil
			})
			require.NoError(t, err)
			assert.Equal(t, string(res.User.ID), token.Claims.(*jwt.StandardClaims).Subject)
		}
	}
}

func TestSignupHandler_WithoutSignerReturnsBareUser(t *testing.T) {
	handler := SignupHandler(NewService(NewAccountRepository(), nil, nil), NewSigner("", time.Hour))

	r := httptest.NewRequest(http.MethodPost, "/auth/v1/signup", strings.NewReader(`{"email":"a@b.com","password":"secret123"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	var res map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", res["email"])
	assert.NotContains(t, res, "access_token")
}

func TestDeleteAccountHandler(t *testing.T) {
	svc := NewService(NewAccountRepository(), nil, nil)
	acc, err := svc.CreateAccount(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	router := httprouter.New()
	router.Handler(http.MethodDelete, "/auth/v1/admin/users/:id", DeleteAccountHandler(svc, "service-key"))

	tests := []struct {
		id, bearer string
		wantCode   int
	}{
		{id: string(acc.ID), bearer: "anon", wantCode: http.StatusUnauthorized},
		{id: string(acc.ID), bearer: "service-key", wantCode: http.StatusOK},
		{id: string(acc.ID), bearer: "service-key", wantCode: http.StatusNotFound},
		{id: "u1", bearer: "service-key", wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodDelete, "/auth/v1/admin/users/"+tt.id, nil)
		r.Header.Set("Authorization", "Bearer "+tt.bearer)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, tt.wantCode, w.Code)
	}
}
