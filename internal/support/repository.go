package support

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTicketNotFound is returned when no ticket matches the reference.
var ErrTicketNotFound = errors.New("ticket not found")

// Repository persists support tickets.
type Repository interface {
	Create(ctx context.Context, t Ticket) error
	Get(ctx context.Context, id string) (Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]Ticket, error)
	SetStatus(ctx context.Context, id, status string, resolvedAt time.Time) error
}

// PostgresRepository stores tickets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ticketColumns = `id, user_id, booking_id, issue_type, description, status, priority, assigned_to, created_at, resolved_at`

func (r *PostgresRepository) Create(ctx context.Context, t Ticket) error {
	var resolved *time.Time
	if !t.ResolvedAt.IsZero() {
		u := t.ResolvedAt.UTC()
		resolved = &u
	}
	_, err := r.db.Exec(ctx, `INSERT INTO tickets (`+ticketColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.BookingID, t.IssueType, t.Description,
		t.Status, t.Priority, t.AssignedTo, t.CreatedAt.UTC(), resolved)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ticket{}, ErrTicketNotFound
	}
	return t, err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets
        WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string, resolvedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE tickets SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, status, resolvedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (Ticket, error) {
	var t Ticket
	var created time.Time
	var resolved *time.Time
	if err := row.Scan(&t.ID, &t.UserID, &t.BookingID, &t.IssueType, &t.Description,
		&t.Status, &t.Priority, &t.AssignedTo, &created, &resolved); err != nil {
		return Ticket{}, err
	}
	t.CreatedAt = created.UTC()
	if resolved != nil {
		t.ResolvedAt = resolved.UTC()
	}
	return t, nil
}
