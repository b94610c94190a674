package signup

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/masseurtouch/signup/internal/rest"
)

// RESTStore inserts profile records through the hosted table API.
type RESTStore struct {
	client *rest.Client
	table  string
}

func NewRESTStore(c *rest.Client, table string) *RESTStore {
	if table == "" {
		table = DefaultTable
	}
	return &RESTStore{client: c, table: table}
}

func (s *RESTStore) path() string {
	return "/rest/v1/" + url.PathEscape(s.table)
}

// Insert sends the record with return=minimal. Rejections come back as *rest.Error
// carrying the table API's message.
func (s *RESTStore) Insert(ctx context.Context, rec ProfileRecord) error {
	if rec.ID == "" {
		rec.ID = nextRecordID()
	}
	return s.client.Do(ctx, rest.Request{
		Method:  http.MethodPost,
		Path:    s.path(),
		Body:    rowFromRecord(rec),
		Headers: map[string]string{"Prefer": "return=minimal"},
	}, nil)
}

func (s *RESTStore) FindByUserID(ctx context.Context, userID string) (*ProfileRecord, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("select", "*")

	var rows []ProfileRecord
	err := s.client.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path() + "?" + q.Encode(),
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrProfileNotFound
	}
	return &rows[0], nil
}

// restStatus maps a store error to the table API's status and error code.
func restStatus(err error) (int, string) {
	var storeErr *StoreError
	switch {
	case errors.Is(err, ErrExistingProfile):
		return http.StatusConflict, "23505"
	case errors.Is(err, ErrMissingUserID):
		return http.StatusBadRequest, "23502"
	case errors.As(err, &storeErr):
		if storeErr.Code == "23505" {
			return http.StatusConflict, storeErr.Code
		}
		return http.StatusBadRequest, storeErr.Code
	default:
		return http.StatusInternalServerError, ""
	}
}
