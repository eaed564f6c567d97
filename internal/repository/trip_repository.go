package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/trip-service/internal/domain"
)

// TripRepository defines persistence access for trips. Lookups surface
// "not found" as a nil result, not an error.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	Update(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Trip, error)
}

type tripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository returns a Postgres-backed implementation.
func NewTripRepository(pool *pgxpool.Pool) TripRepository {
	return &tripRepository{pool: pool}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	const query = `
        INSERT INTO trips (customer_id, start_date, end_date, destination)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		trip.CustomerID,
		trip.StartDate,
		trip.EndDate,
		trip.Destination,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	const query = `
        UPDATE trips SET start_date=$1, end_date=$2, destination=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		trip.StartDate,
		trip.EndDate,
		trip.Destination,
		trip.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tripRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	const query = `
        SELECT id, customer_id, start_date, end_date, destination, created_at, updated_at
        FROM trips WHERE id=$1`

	var trip domain.Trip
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.CustomerID,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Destination,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Trip, error) {
	const query = `
        SELECT id, customer_id, start_date, end_date, destination, created_at, updated_at
        FROM trips WHERE customer_id=$1 ORDER BY start_date DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.CustomerID,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Destination,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}
