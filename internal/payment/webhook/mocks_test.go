package webhook

import (
	"context"
	"encoding/json"

	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"
	"sbp-gateway/internal/settings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByReference(ctx context.Context, ref uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, ref)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ApplyPaymentEvent(ctx context.Context, ref uuid.UUID, ev order.PaymentEvent) (*order.Transition, error) {
	args := m.Called(ctx, ref, ev)
	if tr := args.Get(0); tr != nil {
		return tr.(*order.Transition), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) LoadSettings(ctx context.Context, storeID int64) (*settings.Settings, error) {
	args := m.Called(ctx, storeID)
	if s := args.Get(0); s != nil {
		return s.(*settings.Settings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsRepository) GetStore(ctx context.Context, storeID int64) (*settings.Store, error) {
	args := m.Called(ctx, storeID)
	if s := args.Get(0); s != nil {
		return s.(*settings.Store), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, ref uuid.UUID, status string) error {
	return m.Called(ctx, ref, status).Error(0)
}

func (m *MockPaymentRepository) SaveWebhook(
	ctx context.Context,
	provider, eventID, orderRef string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {
	args := m.Called(ctx, provider, eventID, orderRef, payload, signatureValid)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	return m.Called(ctx, webhookID).Error(0)
}

func (m *MockPaymentRepository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	return m.Called(ctx, webhookID, reason).Error(0)
}

// memOrderRepo is an in-memory order.Repository that records writes.
type memOrderRepo struct {
	orders  map[uuid.UUID]*order.Order
	notes   []order.Note
	updates int
	finds   int
}

func newMemOrderRepo(orders ...*order.Order) *memOrderRepo {
	r := &memOrderRepo{orders: map[uuid.UUID]*order.Order{}}
	for _, o := range orders {
		r.orders[o.Reference] = o
	}
	return r
}

func (r *memOrderRepo) FindByReference(_ context.Context, ref uuid.UUID) (*order.Order, bool, error) {
	r.finds++
	o, ok := r.orders[ref]
	if !ok {
		return nil, false, nil
	}
	cp := *o
	return &cp, true, nil
}

func (r *memOrderRepo) UpdatePaymentStatus(_ context.Context, o *order.Order) error {
	r.updates++
	r.orders[o.Reference].PaymentStatus = o.PaymentStatus
	return nil
}

func (r *memOrderRepo) AppendNote(_ context.Context, note order.Note) error {
	r.notes = append(r.notes, note)
	return nil
}

func (r *memOrderRepo) WithOrderLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context, s order.Store) error) error {
	return fn(ctx, r)
}
