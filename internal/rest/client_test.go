package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoSendsKeyHeaders(t *testing.T) {
	var got *http.Request
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "anon-key")
	var out struct{ ID string }
	err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/signup",
		Body:    map[string]string{"email": "a@b.com"},
		Headers: map[string]string{"Prefer": "return=minimal"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, "/auth/v1/signup", got.URL.Path)
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
	assert.Equal(t, "return=minimal", got.Header.Get("Prefer"))
	assert.Equal(t, "a@b.com", gotBody["email"])
}

func TestClient_DoBearerOverride(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "anon").Do(context.Background(), Request{Method: http.MethodDelete, Path: "/x", Bearer: "service"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer service", auth)
}

func TestClient_DoErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode string
	}{
		{"identity msg", 422, `{"code":422,"error_code":"weak_password","msg":"Password should be at least 6 characters."}`, "Password should be at least 6 characters.", "weak_password"},
		{"table message", 409, `{"code":"23505","message":"duplicate key value violates unique constraint \"masseur_profiles_user_id_key\""}`, `duplicate key value violates unique constraint "masseur_profiles_user_id_key"`, "23505"},
		{"oauth style", 400, `{"error":"invalid_grant","error_description":"Email not confirmed"}`, "Email not confirmed", ""},
		{"plain text", 503, `upstream down`, "Service Unavailable", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "k").Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}, nil)

			var restErr *Error
			require.ErrorAs(t, err, &restErr)
			assert.Equal(t, tt.status, restErr.Status)
			assert.Equal(t, tt.wantMsg, restErr.Error())
			assert.Equal(t, tt.wantCode, restErr.Code)
		})
	}
}
