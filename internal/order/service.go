package order

import (
	"context"
	"errors"
	"time"

	"sbp-gateway/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetByReference(ctx context.Context, ref uuid.UUID) (*Order, error)

	// ApplyPaymentEvent reconciles the order identified by ref with a verified
	// processor event. It returns ErrOrderNotFound when no order matches and
	// a *PersistenceError when the decision could not be stored.
	ApplyPaymentEvent(ctx context.Context, ref uuid.UUID, ev PaymentEvent) (*Transition, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) GetByReference(ctx context.Context, ref uuid.UUID) (*Order, error) {
	o, found, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ApplyPaymentEvent(ctx context.Context, ref uuid.UUID, ev PaymentEvent) (*Transition, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_ref", ref.String()),
		zap.Bool("is_paid", ev.IsPaid),
		zap.Bool("is_expired", ev.IsExpired),
	)

	var result Transition
	err := s.repo.WithOrderLock(ctx, ref, func(ctx context.Context, st Store) error {
		o, found, err := st.FindByReference(ctx, ref)
		if err != nil {
			return &PersistenceError{Op: "find", Err: err}
		}
		if !found {
			return ErrOrderNotFound
		}

		target, changed := Decide(o.PaymentStatus, ev)
		result = Transition{OrderID: o.ID, From: o.PaymentStatus, To: target, Applied: changed}
		if !changed {
			return nil
		}

		o.PaymentStatus = target
		if err := st.UpdatePaymentStatus(ctx, o); err != nil {
			return &PersistenceError{Op: "update", Err: err}
		}

		note := Note{
			OrderID:           o.ID,
			Text:              NoteText(target),
			DisplayToCustomer: true,
			CreatedAt:         s.now().UTC(),
		}
		if err := st.AppendNote(ctx, note); err != nil {
			return &PersistenceError{Op: "append note", Err: err}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("no order matches webhook reference")
			return nil, err
		}
		var pe *PersistenceError
		if !errors.As(err, &pe) {
			err = &PersistenceError{Op: "transaction", Err: err}
		}
		log.Error("failed to reconcile order", zap.Error(err))
		return nil, err
	}

	if result.Applied {
		log.Info("order payment status changed",
			zap.Int64("order_id", result.OrderID),
			zap.Stringer("from", result.From),
			zap.Stringer("to", result.To),
		)
	} else {
		log.Info("payment event acknowledged without transition",
			zap.Int64("order_id", result.OrderID),
			zap.Stringer("status", result.From),
		)
	}
	return &result, nil
}
