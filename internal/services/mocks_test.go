package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"alxtravel/internal/kafka"
	dbm "alxtravel/internal/models/db_models"
	"alxtravel/pkg/taskqueue"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *dbm.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) FindById(ctx context.Context, id uint) (*dbm.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*dbm.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TransitionFromPending(ctx context.Context, id uint, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, updates)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByIdForAccount(ctx context.Context, id, accountID uint) (*dbm.Booking, error) {
	args := m.Called(ctx, id, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Booking), args.Error(1)
}

type MockCallbackRepository struct {
	mock.Mock
}

func (m *MockCallbackRepository) Create(ctx context.Context, callback *dbm.PaymentCallback) error {
	args := m.Called(ctx, callback)
	return args.Error(0)
}

func (m *MockCallbackRepository) MarkApplied(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *dbm.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*dbm.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Account), args.Error(1)
}

type MockChapaClient struct {
	mock.Mock
}

func (m *MockChapaClient) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializeTransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InitializeTransactionResult), args.Error(1)
}

func (m *MockChapaClient) VerifyTransaction(ctx context.Context, txRef string) (*VerifyTransactionResult, error) {
	args := m.Called(ctx, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerifyTransactionResult), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, task taskqueue.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockQueue) Start(handler taskqueue.Handler) {
	m.Called(handler)
}

func (m *MockQueue) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPaymentEvent(ctx context.Context, event kafka.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendPaymentConfirmation(ctx context.Context, email PaymentEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockMailService) SendPaymentFailed(ctx context.Context, email PaymentEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
