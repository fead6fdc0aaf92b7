package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sbp-gateway/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the Order Store surface the reconciliation path needs.
type Store interface {
	// FindByReference returns found=false when no order carries ref.
	FindByReference(ctx context.Context, ref uuid.UUID) (o *Order, found bool, err error)
	UpdatePaymentStatus(ctx context.Context, o *Order) error
	AppendNote(ctx context.Context, note Note) error
}

type Repository interface {
	Store

	// WithOrderLock runs fn in a transaction in which the order row for ref
	// is locked. Writes made through the Store passed to fn commit together
	// or not at all.
	WithOrderLock(ctx context.Context, ref uuid.UUID, fn func(ctx context.Context, s Store) error) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByReference(ctx context.Context, ref uuid.UUID) (*Order, bool, error) {
	return (&store{q: r.db}).FindByReference(ctx, ref)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, o *Order) error {
	return (&store{q: r.db}).UpdatePaymentStatus(ctx, o)
}

func (r *repository) AppendNote(ctx context.Context, note Note) error {
	return (&store{q: r.db}).AppendNote(ctx, note)
}

func (r *repository) WithOrderLock(
	ctx context.Context,
	ref uuid.UUID,
	fn func(ctx context.Context, s Store) error,
) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.FromCtx(ctx).Error("rollback failed",
				zap.String("order_ref", ref.String()),
				zap.Error(rbErr),
			)
		}
	}()

	if err = fn(ctx, &store{q: tx, lock: true}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type store struct {
	q    querier
	lock bool
}

func (s *store) FindByReference(ctx context.Context, ref uuid.UUID) (*Order, bool, error) {
	query := `
		SELECT id, order_guid, store_id, customer_id, customer_email, customer_name,
			currency_code, order_total, payment_status_id
		FROM orders
		WHERE order_guid = $1
	`
	if s.lock {
		query += " FOR UPDATE"
	}

	var o Order
	err := s.q.QueryRowContext(ctx, query, ref).Scan(
		&o.ID, &o.Reference, &o.StoreID, &o.CustomerID, &o.CustomerEmail, &o.CustomerName,
		&o.Currency, &o.Total, &o.PaymentStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find order %s: %w", ref, err)
	}
	return &o, true, nil
}

func (s *store) UpdatePaymentStatus(ctx context.Context, o *Order) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE orders SET payment_status_id = $1, updated_on_utc = now() WHERE id = $2`,
		o.PaymentStatus, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if rows == 0 {
		return ErrOrderRowVanished
	}
	return nil
}

func (s *store) AppendNote(ctx context.Context, note Note) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, note, display_to_customer, created_on_utc)
		VALUES ($1, $2, $3, $4)
	`, note.OrderID, note.Text, note.DisplayToCustomer, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("append order note: %w", err)
	}
	return nil
}
