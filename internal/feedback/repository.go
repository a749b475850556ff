package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists feedback entries.
type Repository interface {
	Create(ctx context.Context, f Feedback) error
	ListByBooking(ctx context.Context, bookingID string) ([]Feedback, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Feedback, error)
}

// PostgresRepository stores feedback in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const feedbackColumns = `id, customer_id, booking_id, message, contact_email, status, created_at`

func (r *PostgresRepository) Create(ctx context.Context, f Feedback) error {
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO feedback (`+feedbackColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, f.CustomerID, f.BookingID, f.Message, f.ContactEmail, f.Status, f.CreatedAt.UTC())
	return err
}

func (r *PostgresRepository) ListByBooking(ctx context.Context, bookingID string) ([]Feedback, error) {
	rows, err := r.db.Query(ctx, `SELECT `+feedbackColumns+` FROM feedback
        WHERE booking_id = $1 ORDER BY created_at DESC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFeedback(rows)
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]Feedback, error) {
	rows, err := r.db.Query(ctx, `SELECT `+feedbackColumns+` FROM feedback
        WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFeedback(rows)
}

func collectFeedback(rows pgx.Rows) ([]Feedback, error) {
	var out []Feedback
	for rows.Next() {
		var f Feedback
		var id uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&id, &f.CustomerID, &f.BookingID, &f.Message, &f.ContactEmail, &f.Status, &createdAt); err != nil {
			return nil, err
		}
		f.ID = id.String()
		f.CreatedAt = createdAt.UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}
