package signup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTable is where profile records live.
const DefaultTable = "masseur_profiles"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrExistingProfile = errors.New(`duplicate key value violates unique constraint "masseur_profiles_user_id_key"`)
	ErrMissingUserID   = errors.New(`null value in column "user_id" violates not-null constraint`)
)

// ProfileRecord describes a service provider waiting for administrative approval.
// UserID references the identity service's account id.
type ProfileRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	Services  string    `json:"services"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// Store inserts and looks up profile records.
type Store interface {
	Insert(ctx context.Context, rec ProfileRecord) error
	FindByUserID(ctx context.Context, userID string) (*ProfileRecord, error)
}

// StoreError is a rejection from the database, carrying its message verbatim.
type StoreError struct {
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func nextRecordID() string {
	return uuid.NewString()
}

// insertRow is what travels to the table on insert; created_at is left to the database.
type insertRow struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Services string `json:"services"`
	Approved bool   `json:"approved"`
}

func rowFromRecord(rec ProfileRecord) insertRow {
	return insertRow{rec.ID, rec.UserID, rec.Name, rec.Location, rec.Bio, rec.Services, rec.Approved}
}

func recordFromRow(row insertRow) ProfileRecord {
	return ProfileRecord{
		ID:       row.ID,
		UserID:   row.UserID,
		Name:     row.Name,
		Location: row.Location,
		Bio:      row.Bio,
		Services: row.Services,
		Approved: row.Approved,
	}
}
