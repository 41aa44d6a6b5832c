package postgres

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const schema = `CREATE TABLE IF NOT EXISTS contact_submissions (
	id         UUID PRIMARY KEY,
	channel    TEXT NOT NULL,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	succeeded  BOOLEAN NOT NULL,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`

type submissionRepo struct {
	db DB
}

func NewSubmissionRepository(db DB) domain.SubmissionRepository {
	return &submissionRepo{db: db}
}

// EnsureSchema creates the contact_submissions table when missing
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create contact_submissions: %w", err)
	}
	return nil
}

func (r *submissionRepo) Create(ctx context.Context, record *domain.SubmissionRecord) error {
	query := `INSERT INTO contact_submissions (id, channel, name, email, message, succeeded, error, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`
	_, err := r.db.Exec(ctx, query,
		record.ID, string(record.Channel), record.Name, record.Email, record.Message,
		record.Succeeded, record.Error, record.CreatedAt,
	)
	if err != nil {
		return apperror.Internal(fmt.Errorf("insert contact submission: %w", err))
	}
	return nil
}
