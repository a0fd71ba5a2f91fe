package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type Payment struct {
	ID          int64
	OrderID     int64
	Provider    string
	ProviderRef string
	Amount      int64
	Status      string
	CreatedAt   time.Time
	PaidAt      *time.Time
}

const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

type PaymentRepository struct {
	DB DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) CreatePending(ctx context.Context, orderID, amount int64, provider, providerRef string, payload []byte) (int64, error) {
	var id int64
	q := `
		INSERT INTO payments (order_id, amount, status, provider, provider_ref, payload)
		VALUES ($1, $2, 'Pending', $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRow(ctx, q, orderID, amount, provider, providerRef, payload).Scan(&id)
	return id, err
}

// PendingByOrder returns the open payment of an order, or nil.
func (r *PaymentRepository) PendingByOrder(ctx context.Context, orderID int64) (*Payment, error) {
	q := `
		SELECT id, order_id, provider, provider_ref, amount, status, created_at, paid_at
		FROM payments
		WHERE order_id = $1 AND status = 'Pending'
		ORDER BY id DESC
		LIMIT 1
	`
	p, err := scanPayment(r.DB.QueryRow(ctx, q, orderID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (r *PaymentRepository) GetByRef(ctx context.Context, providerRef string) (*Payment, error) {
	q := `
		SELECT id, order_id, provider, provider_ref, amount, status, created_at, paid_at
		FROM payments
		WHERE provider_ref = $1
	`
	return scanPayment(r.DB.QueryRow(ctx, q, providerRef))
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.ProviderRef, &p.Amount, &p.Status, &p.CreatedAt, &p.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SettleTx records the final state of a pending payment. Returns false when the
// payment was already settled.
func (r *PaymentRepository) SettleTx(ctx context.Context, tx pgx.Tx, providerRef, status string, payload []byte) (bool, error) {
	q := `
		UPDATE payments
		SET status = $2,
		    payload = $3,
		    paid_at = CASE WHEN $2 = 'Paid' THEN NOW() ELSE paid_at END
		WHERE provider_ref = $1 AND status = 'Pending'
	`
	tag, err := tx.Exec(ctx, q, providerRef, status, payload)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
