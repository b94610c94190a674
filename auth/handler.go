package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/julienschmidt/httprouter"
)

// Signer issues access tokens for freshly created accounts.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner returns nil for an empty key; the signup endpoint then answers without a session,
// which is how the hosted service behaves while confirmation is pending.
func NewSigner(key string, ttl time.Duration) *Signer {
	if key == "" {
		return nil
	}
	return &Signer{key: []byte(key), ttl: ttl}
}

func (s *Signer) Sign(id ID, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Issuer:    "auth",
		Subject:   string(id),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.key)
}

type userResponse struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type sessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        userResponse `json:"user"`
}

// SignupHandler serves svc in the hosted API's wire shape so a RemoteClient can use it.
func SignupHandler(svc Identity, signer *Signer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeSignupRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": http.StatusBadRequest, "msg": "invalid request body"})
			return
		}

		acc, err := svc.CreateAccount(r.Context(), req.Email, req.Password)
		if err != nil {
			encodeError(err, w)
			return
		}

		user := userResponse{
			ID:        acc.ID,
			Email:     acc.Credentials.Email,
			CreatedAt: acc.CreatedAt.Format(time.RFC3339Nano),
		}

		var body interface{} = user
		if signer != nil {
			token, err := signer.Sign(acc.ID, time.Now())
			if err != nil {
				encodeError(err, w)
				return
			}
			body = sessionResponse{
				AccessToken: token,
				TokenType:   "bearer",
				ExpiresIn:   int(signer.ttl.Seconds()),
				User:        user,
			}
		}

		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// DeleteAccountHandler serves the admin delete; callers must present adminKey as bearer token.
// Register it on an httprouter route with an :id parameter.
func DeleteAccountHandler(svc Identity, adminKey string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if adminKey == "" || r.Header.Get("Authorization") != "Bearer "+adminKey {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": http.StatusUnauthorized, "msg": "invalid service key"})
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if err := svc.DeleteAccount(r.Context(), ID(id)); err != nil {
			encodeError(err, w)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})
}

func encodeError(err error, w http.ResponseWriter) {
	code := http.StatusInternalServerError
	switch err {
	case ErrNotFound:
		code = http.StatusNotFound
	case ErrInvalidEmail, ErrInvalidPassword, ErrExistingEmail, ErrInvalidID:
		code = http.StatusUnprocessableEntity
	}
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"code": code,
		"msg":  err.Error(),
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeSignupRequest(body io.ReadCloser) (signupRequest, error) {
	req := signupRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return signupRequest{}, err
	}
	return req, nil
}
