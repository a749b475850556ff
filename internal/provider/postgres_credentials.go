package provider

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scootgate/scootgate/internal/record"
)

// PostgresCredentialStore implements CredentialStore using PostgreSQL.
type PostgresCredentialStore struct {
	db *pgxpool.Pool
}

// NewPostgresCredentialStore builds a Postgres-backed credential store.
func NewPostgresCredentialStore(db *pgxpool.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db}
}

// Create inserts a new unconfirmed account.
func (s *PostgresCredentialStore) Create(ctx context.Context, cred Credential) error {
	_, err := s.db.Exec(ctx, `INSERT INTO credentials (email, password_hash, name, role, confirmed, confirmation_code, token_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cred.Email, cred.PasswordHash, cred.Name, string(cred.Role), cred.Confirmed, cred.ConfirmationCode, cred.TokenVersion, cred.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUserExists
	}
	return err
}

// Get fetches an account by email.
func (s *PostgresCredentialStore) Get(ctx context.Context, email string) (Credential, error) {
	row := s.db.QueryRow(ctx, `SELECT email, password_hash, name, role, confirmed, confirmation_code, token_version, created_at
        FROM credentials WHERE email = $1`, email)
	var (
		cred      Credential
		role      string
		createdAt time.Time
	)
	if err := row.Scan(&cred.Email, &cred.PasswordHash, &cred.Name, &role, &cred.Confirmed, &cred.ConfirmationCode, &cred.TokenVersion, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrUserNotFound
		}
		return Credential{}, err
	}
	cred.Role = record.Role(role)
	cred.CreatedAt = createdAt.UTC()
	return cred, nil
}

// Delete removes an account.
func (s *PostgresCredentialStore) Delete(ctx context.Context, email string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM credentials WHERE email = $1`, email)
	return err
}

// Confirm marks an account confirmed and clears its code.
func (s *PostgresCredentialStore) Confirm(ctx context.Context, email string) error {
	cmd, err := s.db.Exec(ctx, `UPDATE credentials SET confirmed = TRUE, confirmation_code = '' WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *PostgresCredentialStore) UpdatePassword(ctx context.Context, email string, hash []byte) error {
	cmd, err := s.db.Exec(ctx, `UPDATE credentials SET password_hash = $1 WHERE email = $2`, hash, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// BumpTokenVersion increments the token version, killing issued tokens.
func (s *PostgresCredentialStore) BumpTokenVersion(ctx context.Context, email string) (int, error) {
	row := s.db.QueryRow(ctx, `UPDATE credentials SET token_version = token_version + 1 WHERE email = $1 RETURNING token_version`, email)
	var version int
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return version, nil
}
