package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
)

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	q Querier
}

// NewCarRepository creates a new PostgreSQL car repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{q: db}
}

// NewCarRepositoryWithTx creates a car repository using a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{q: tx}
}

const carColumns = `id, owner_id, name, make, model, year, license_plate, daily_rate, status, latitude, longitude, address, transmission, fuel_type, seats, mileage, features, image_url, approved, created_at`

// Create persists a new car listing.
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (` + carColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	status := car.Status
	if status == "" {
		status = domain.CarStatusAvailable
	}

	var lat, lng sql.NullFloat64
	if car.HasLocation {
		lat = sql.NullFloat64{Float64: car.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: car.Longitude, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		car.ID,
		car.OwnerID,
		car.Name,
		car.Make,
		car.Model,
		car.Year,
		car.LicensePlate,
		car.DailyRate,
		status,
		lat,
		lng,
		car.Address,
		car.Transmission,
		car.FuelType,
		car.Seats,
		car.Mileage,
		car.Features,
		car.ImageURL,
		car.Approved,
		car.CreatedAt,
	)

	return err
}

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	var car domain.Car
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&car.ID,
		&car.OwnerID,
		&car.Name,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.LicensePlate,
		&car.DailyRate,
		&car.Status,
		&lat,
		&lng,
		&car.Address,
		&car.Transmission,
		&car.FuelType,
		&car.Seats,
		&car.Mileage,
		&car.Features,
		&car.ImageURL,
		&car.Approved,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		car.Latitude = lat.Float64
		car.Longitude = lng.Float64
		car.HasLocation = true
	}

	return &car, nil
}

// GetByID retrieves a car by ID.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return car, nil
}

// GetByOwner retrieves all cars listed by an owner.
func (r *CarRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryCars(ctx, query, ownerID)
}

// GetAll retrieves all cars.
func (r *CarRepository) GetAll(ctx context.Context) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC`
	return r.queryCars(ctx, query)
}

func (r *CarRepository) queryCars(ctx context.Context, query string, args ...any) ([]*domain.Car, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// Update updates an existing car.
func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars
		SET name = $1, make = $2, model = $3, year = $4, license_plate = $5, daily_rate = $6, status = $7, latitude = $8, longitude = $9, address = $10, transmission = $11, fuel_type = $12, seats = $13, mileage = $14, features = $15, image_url = $16, approved = $17
		WHERE id = $18
	`

	var lat, lng sql.NullFloat64
	if car.HasLocation {
		lat = sql.NullFloat64{Float64: car.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: car.Longitude, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		car.Name,
		car.Make,
		car.Model,
		car.Year,
		car.LicensePlate,
		car.DailyRate,
		car.Status,
		lat,
		lng,
		car.Address,
		car.Transmission,
		car.FuelType,
		car.Seats,
		car.Mileage,
		car.Features,
		car.ImageURL,
		car.Approved,
		car.ID,
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// UpdateStatus updates only the rental status of a car.
func (r *CarRepository) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE cars SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetApproved flips the admin approval flag.
func (r *CarRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	result, err := r.q.ExecContext(ctx, `UPDATE cars SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
