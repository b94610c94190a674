package signup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore writes profile records straight into the Postgres table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

func (s *PostgresStore) Insert(ctx context.Context, rec ProfileRecord) error {
	if rec.ID == "" {
		rec.ID = nextRecordID()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, name, location, bio, services, approved)
VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.table)

	var userID interface{} = rec.UserID
	if rec.UserID == "" {
		userID = nil
	}

	_, err := s.pool.Exec(ctx, query, rec.ID, userID, rec.Name, rec.Location, rec.Bio, rec.Services, rec.Approved)
	return storeError(err)
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID string) (*ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT id::text, user_id, name, location, bio, services, approved, created_at
FROM %s WHERE user_id = $1`, s.table)

	var p ProfileRecord
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Location, &p.Bio, &p.Services, &p.Approved, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &p, nil
}

// storeError keeps the server's message and SQLSTATE and drops the driver decoration.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Code: pgErr.Code, Message: pgErr.Message}
	}
	return err
}
