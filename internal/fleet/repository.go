package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVehicleNotFound is returned when no vehicle matches the identifier.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Repository persists the vehicle inventory.
type Repository interface {
	Create(ctx context.Context, vehicle Vehicle) error
	Get(ctx context.Context, id string) (Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	ListByOperator(ctx context.Context, operatorID string) ([]Vehicle, error)
}

// PostgresRepository stores vehicles in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a vehicle record.
func (r *PostgresRepository) Create(ctx context.Context, vehicle Vehicle) error {
	vehicleID, err := uuid.Parse(vehicle.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO vehicles (id, type, model, operator_id, rate_cents, discount_percent, battery_life_km, height_adjustable, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		vehicleID, vehicle.Type, vehicle.Model, vehicle.OperatorID, vehicle.RateCents,
		vehicle.DiscountPercent, vehicle.BatteryLifeKM, vehicle.HeightAdjustable, vehicle.CreatedAt.UTC())
	return err
}

// Get fetches a vehicle by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Vehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return Vehicle{}, ErrVehicleNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, type, model, operator_id, rate_cents, discount_percent, battery_life_km, height_adjustable, created_at
        FROM vehicles WHERE id = $1`, vehicleID)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, ErrVehicleNotFound
	}
	return v, err
}

// List returns the whole inventory, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, model, operator_id, rate_cents, discount_percent, battery_life_km, height_adjustable, created_at
        FROM vehicles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVehicles(rows)
}

// ListByOperator returns an operator's vehicles, newest first.
func (r *PostgresRepository) ListByOperator(ctx context.Context, operatorID string) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, model, operator_id, rate_cents, discount_percent, battery_life_km, height_adjustable, created_at
        FROM vehicles WHERE operator_id = $1 ORDER BY created_at DESC`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVehicles(rows)
}

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	var vehicleID uuid.UUID
	var createdAt time.Time
	if err := row.Scan(&vehicleID, &v.Type, &v.Model, &v.OperatorID, &v.RateCents,
		&v.DiscountPercent, &v.BatteryLifeKM, &v.HeightAdjustable, &createdAt); err != nil {
		return Vehicle{}, err
	}
	v.ID = vehicleID.String()
	v.CreatedAt = createdAt.UTC()
	return v, nil
}

func collectVehicles(rows pgx.Rows) ([]Vehicle, error) {
	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
