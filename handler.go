package signup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/masseurtouch/signup/auth"
	"github.com/masseurtouch/signup/internal/rest"
)

// FormPageHandler renders an empty signup form.
func FormPageHandler(svc *Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, http.StatusOK, svc.NewForm())
	})
}

// SubmitFormHandler runs a form post through a fresh controller and renders the outcome.
func SubmitFormHandler(svc *Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		c := svc.NewForm()
		for _, f := range Fields {
			c.FieldChange(f, r.PostForm.Get(string(f)))
		}

		if err := c.Validate(); err != nil {
			c.fail(err)
			renderPage(w, http.StatusUnprocessableEntity, c)
			return
		}

		c.Submit(r.Context())
		renderPage(w, http.StatusOK, c)
	})
}

func renderPage(w http.ResponseWriter, code int, c *Controller) {
	var buf bytes.Buffer
	if err := Render(&buf, c); err != nil {
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Services string `json:"services"`
}

type signupResponse struct {
	UserID auth.ID `json:"user_id,omitempty"`
	Status string  `json:"status"`
}

// CreateSignupHandler is the JSON flavor of the form submission.
func CreateSignupHandler(svc *Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeSignupRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		c := svc.NewForm()
		c.FieldChange(FieldEmail, req.Email)
		c.FieldChange(FieldPassword, req.Password)
		c.FieldChange(FieldName, req.Name)
		c.FieldChange(FieldLocation, req.Location)
		c.FieldChange(FieldBio, req.Bio)
		c.FieldChange(FieldServices, req.Services)

		if err := c.Validate(); err != nil {
			encodeError(err, w)
			return
		}

		res := c.Submit(r.Context())
		switch res.Status {
		case StatusFailed:
			encodeError(res.Err, w)
			return
		case StatusPendingConfirmation:
			w.WriteHeader(http.StatusAccepted)
		default:
			w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, url.PathEscape(string(res.UserID))))
			w.WriteHeader(http.StatusCreated)
		}
		if err := json.NewEncoder(w).Encode(signupResponse{UserID: res.UserID, Status: res.Status.String()}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// RecordsHandler serves a Store in the hosted table API's wire shape:
// POST inserts one JSON object, GET filters with user_id=eq.<id>.
func RecordsHandler(store Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var row insertRow
			if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
				encodeTableError(&StoreError{Code: "PGRST102", Message: "Empty or invalid json"}, w)
				return
			}
			if err := store.Insert(r.Context(), recordFromRow(row)); err != nil {
				encodeTableError(err, w)
				return
			}
			w.WriteHeader(http.StatusCreated)

		case http.MethodGet:
			filter := r.URL.Query().Get("user_id")
			if len(filter) < 3 || filter[:3] != "eq." {
				encodeTableError(&StoreError{Code: "PGRST100", Message: "only user_id=eq.<id> filters are supported"}, w)
				return
			}
			rows := []ProfileRecord{}
			p, err := store.FindByUserID(r.Context(), filter[3:])
			switch {
			case errors.Is(err, ErrProfileNotFound):
			case err != nil:
				encodeTableError(err, w)
				return
			default:
				rows = append(rows, *p)
			}
			_ = json.NewEncoder(w).Encode(rows)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func encodeTableError(err error, w http.ResponseWriter) {
	code, sqlState := restStatus(err)
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Code != "" && code == http.StatusBadRequest {
		sqlState = storeErr.Code
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    sqlState,
		"message": err.Error(),
	})
}

func encodeError(err error, w http.ResponseWriter) {
	var missing *MissingFieldError
	var restErr *rest.Error
	var storeErr *StoreError

	switch {
	case errors.As(err, &missing):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrInvalidPassword), errors.Is(err, auth.ErrExistingEmail):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, ErrExistingProfile):
		w.WriteHeader(http.StatusConflict)
	case errors.As(err, &restErr) && restErr.Status < 500:
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.As(err, &storeErr):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusBadGateway)
	}
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeSignupRequest(r *http.Request) (signupRequest, error) {
	req := signupRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return signupRequest{}, err
	}
	return req, nil
}
