package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists artifact metadata: display names, MIME types, delete
// tokens, timestamps. The bytes live in the blob store.
type Repository interface {
	Create(ctx context.Context, a *Artifact) error
	GetByID(ctx context.Context, id string) (*Artifact, error)
	Delete(ctx context.Context, id string) error
	Recent(ctx context.Context, limit int) ([]Artifact, error)
}

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgresRepository with the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the metadata record and fills in the creation timestamp.
func (r *PostgresRepository) Create(ctx context.Context, a *Artifact) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO artifacts (id, display_name, mime_type, size_bytes, delete_token)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		a.ID, a.DisplayName, a.MimeType, a.SizeBytes, a.DeleteToken,
	).Scan(&a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create artifact: %w", err)
	}
	return nil
}

// GetByID fetches an artifact record by its identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Artifact, error) {
	a := &Artifact{}
	err := r.db.QueryRow(ctx,
		`SELECT id, display_name, mime_type, size_bytes, delete_token, created_at
		 FROM artifacts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.DisplayName, &a.MimeType, &a.SizeBytes, &a.DeleteToken, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

// Delete removes the metadata record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM artifacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit artifacts, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Artifact, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, display_name, mime_type, size_bytes, delete_token, created_at
		 FROM artifacts ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent artifacts: %w", err)
	}
	defer rows.Close()

	var list []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.MimeType, &a.SizeBytes, &a.DeleteToken, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}
	return list, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
