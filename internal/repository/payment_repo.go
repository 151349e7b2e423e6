package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"app/internal/model"
)

// ErrDuplicatePayment is returned when a gateway payment id has already been
// recorded; payment_id carries a unique constraint.
var ErrDuplicatePayment = errors.New("payment already recorded")

// PaymentRepository persists verified payment records. Insert-only.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	ListPayments(ctx context.Context, limit, offset int) ([]model.Payment, error)
}

type paymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a PaymentRepository backed by Postgres.
func NewPaymentRepo(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	const q = `
        INSERT INTO payments (id, payment_id, subscription_id, signature)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, q, p.ID, p.PaymentID, p.SubscriptionID, p.Signature).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("insert payment %s: %w", p.PaymentID, err)
	}
	return nil
}

func (r *paymentRepo) ListPayments(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	const q = `
        SELECT id, payment_id, subscription_id, signature, created_at
        FROM payments
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.PaymentID, &p.SubscriptionID, &p.Signature, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
