package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBookingNotFound is returned when no booking matches the reference.
var ErrBookingNotFound = errors.New("booking not found")

// Repository persists bookings.
type Repository interface {
	Create(ctx context.Context, b Booking) error
	Get(ctx context.Context, id string) (Booking, error)
	// ConfirmedOverlapping returns confirmed bookings for the vehicle whose
	// window intersects [start, end).
	ConfirmedOverlapping(ctx context.Context, vehicleID string, start, end time.Time) ([]Booking, error)
	SetDecision(ctx context.Context, id, status, reason string, decidedAt time.Time) error
	ListPendingByOperator(ctx context.Context, operatorID string) ([]Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Booking, error)
}

// PostgresRepository stores bookings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookingColumns = `id, vehicle_id, customer_id, operator_id, start_time, end_time, status, reason, created_at, decided_at`

func (r *PostgresRepository) Create(ctx context.Context, b Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.VehicleID, b.CustomerID, b.OperatorID, b.StartTime.UTC(), b.EndTime.UTC(),
		b.Status, b.Reason, b.CreatedAt.UTC(), nullableTime(b.DecidedAt))
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	return b, err
}

func (r *PostgresRepository) ConfirmedOverlapping(ctx context.Context, vehicleID string, start, end time.Time) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
        WHERE vehicle_id = $1 AND status = $2 AND end_time > $3 AND start_time < $4
        ORDER BY start_time`, vehicleID, StatusConfirmed, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PostgresRepository) SetDecision(ctx context.Context, id, status, reason string, decidedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2, reason = $3, decided_at = $4 WHERE id = $1`,
		id, status, reason, decidedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PostgresRepository) ListPendingByOperator(ctx context.Context, operatorID string) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
        WHERE operator_id = $1 AND status = $2 ORDER BY created_at`, operatorID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
        WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	var start, end, created time.Time
	var decided *time.Time
	if err := row.Scan(&b.ID, &b.VehicleID, &b.CustomerID, &b.OperatorID,
		&start, &end, &b.Status, &b.Reason, &created, &decided); err != nil {
		return Booking{}, err
	}
	b.StartTime = start.UTC()
	b.EndTime = end.UTC()
	b.CreatedAt = created.UTC()
	if decided != nil {
		b.DecidedAt = decided.UTC()
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
