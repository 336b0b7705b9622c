package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// PickupRepository is a PostgreSQL implementation of repository.PickupRepository.
type PickupRepository struct {
	q Querier
}

// NewPickupRepository creates a new PostgreSQL pickup repository.
func NewPickupRepository(db *sql.DB) *PickupRepository {
	return &PickupRepository{q: db}
}

// NewPickupRepositoryWithTx creates a pickup repository using a transaction.
func NewPickupRepositoryWithTx(tx *sql.Tx) *PickupRepository {
	return &PickupRepository{q: tx}
}

const pickupColumns = `
	id, customer_id, driver_id, quote_id, item_description, item_value,
	item_count, size_category, distance_miles, estimated_time_minutes,
	rush, tip, status, total_price, created_at, completed_at,
	cancelled_at, cancel_reason
`

// Create persists a new pickup.
func (r *PickupRepository) Create(ctx context.Context, pickup *domain.Pickup) error {
	query := `
		INSERT INTO pickups (` + pickupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(ctx, query,
		pickup.ID,
		pickup.CustomerID,
		nullString(pickup.DriverID),
		nullString(pickup.QuoteID),
		pickup.ItemDescription,
		pickup.ItemValue,
		pickup.ItemCount,
		pickup.SizeCategory,
		pickup.DistanceMiles,
		pickup.EstimatedTimeMinutes,
		pickup.Rush,
		pickup.Tip,
		pickup.Status,
		pickup.TotalPrice,
		pickup.CreatedAt,
		nullTime(pickup.CompletedAt),
		nullTime(pickup.CancelledAt),
		pickup.CancelReason,
	)

	return err
}

// GetByID retrieves a pickup by ID.
func (r *PickupRepository) GetByID(ctx context.Context, id string) (*domain.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE id = $1`

	pickup, err := scanPickup(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return pickup, nil
}

// GetAll retrieves all pickups.
func (r *PickupRepository) GetAll(ctx context.Context) ([]*domain.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPickups(rows)
}

// GetByCustomerID retrieves all pickups booked by a customer.
func (r *PickupRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPickups(rows)
}

// Update updates an existing pickup.
func (r *PickupRepository) Update(ctx context.Context, pickup *domain.Pickup) error {
	query := `
		UPDATE pickups
		SET driver_id = $1, status = $2, total_price = $3, completed_at = $4,
		    cancelled_at = $5, cancel_reason = $6
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(pickup.DriverID),
		pickup.Status,
		pickup.TotalPrice,
		nullTime(pickup.CompletedAt),
		nullTime(pickup.CancelledAt),
		pickup.CancelReason,
		pickup.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPickup(row rowScanner) (*domain.Pickup, error) {
	var pickup domain.Pickup
	var driverID, quoteID sql.NullString
	var completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&pickup.ID,
		&pickup.CustomerID,
		&driverID,
		&quoteID,
		&pickup.ItemDescription,
		&pickup.ItemValue,
		&pickup.ItemCount,
		&pickup.SizeCategory,
		&pickup.DistanceMiles,
		&pickup.EstimatedTimeMinutes,
		&pickup.Rush,
		&pickup.Tip,
		&pickup.Status,
		&pickup.TotalPrice,
		&pickup.CreatedAt,
		&completedAt,
		&cancelledAt,
		&pickup.CancelReason,
	)
	if err != nil {
		return nil, err
	}

	pickup.DriverID = driverID.String
	pickup.QuoteID = quoteID.String
	pickup.CompletedAt = completedAt.Time
	pickup.CancelledAt = cancelledAt.Time

	return &pickup, nil
}

func collectPickups(rows *sql.Rows) ([]*domain.Pickup, error) {
	var pickups []*domain.Pickup
	for rows.Next() {
		pickup, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		pickups = append(pickups, pickup)
	}
	return pickups, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
