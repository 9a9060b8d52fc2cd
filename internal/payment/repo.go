package payment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("payment not found")
)

type Repository interface {
	// UpdateByTransactionID applies a gateway notification to the payment
	// correlated by transaction id.
	UpdateByTransactionID(ctx context.Context, transactionID string, status Status, paymentType, gatewayStatus string) (*Payment, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const paymentCols = `id, transaction_id, checkout_id, payment_status, COALESCE(payment_type,''), COALESCE(gateway_status,''), COALESCE(gross_amount::text,''), created_at, updated_at`

func (r *PGRepo) UpdateByTransactionID(ctx context.Context, transactionID string, status Status, paymentType, gatewayStatus string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Payment
	err := r.db.QueryRow(ctx, `
		UPDATE payments
		SET payment_status = $2, payment_type = $3, gateway_status = $4, updated_at = NOW()
		WHERE transaction_id = $1
		RETURNING `+paymentCols+`
	`, transactionID, string(status), paymentType, gatewayStatus).Scan(
		&p.ID, &p.TransactionID, &p.CheckoutID, &p.Status, &p.PaymentType,
		&p.GatewayStatus, &p.GrossAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
