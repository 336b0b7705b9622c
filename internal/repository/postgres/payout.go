package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pickup/internal/domain"
	"pickup/internal/repository"
)

// PayoutRepository is a PostgreSQL implementation of repository.PayoutRepository.
type PayoutRepository struct {
	q Querier
}

// NewPayoutRepository creates a new PostgreSQL payout repository.
func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{q: db}
}

// NewPayoutRepositoryWithTx creates a payout repository using a transaction.
func NewPayoutRepositoryWithTx(tx *sql.Tx) *PayoutRepository {
	return &PayoutRepository{q: tx}
}

const payoutColumns = `
	id, pickup_id, driver_id, amount, status, idempotency_key,
	conservation_ok, conservation_gap, created_at
`

// Create persists a new payout. The unique index on idempotency_key is
// the last line of defense against double settlement: a conflicting
// insert writes nothing and returns repository.ErrDuplicate.
func (r *PayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	query := `
		INSERT INTO payouts (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (idempotency_key) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		payout.ID,
		payout.PickupID,
		payout.DriverID,
		payout.Amount,
		payout.Status,
		payout.IdempotencyKey,
		payout.ConservationOK,
		payout.ConservationGap,
		payout.CreatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrDuplicate
	}

	return nil
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	payout, err := scanPayout(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payout, nil
}

// GetByIdempotencyKey retrieves a payout by its idempotency key.
// Returns nil if no payout exists with the given key.
func (r *PayoutRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE idempotency_key = $1`

	payout, err := scanPayout(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payout, nil
}

// GetByDriverID retrieves all payouts for a driver.
func (r *PayoutRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE driver_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []*domain.Payout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

// UpdateStatus updates the status of a payout.
func (r *PayoutRepository) UpdateStatus(ctx context.Context, id string, status domain.PayoutStatus) error {
	query := `UPDATE payouts SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

func scanPayout(row rowScanner) (*domain.Payout, error) {
	var payout domain.Payout
	err := row.Scan(
		&payout.ID,
		&payout.PickupID,
		&payout.DriverID,
		&payout.Amount,
		&payout.Status,
		&payout.IdempotencyKey,
		&payout.ConservationOK,
		&payout.ConservationGap,
		&payout.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}
