package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(orderID string) (model.Order, error) {
	args := m.Called(orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *OrderRepository) ListActive() ([]model.Order, error) {
	args := m.Called()
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *OrderRepository) ListByBuyer(buyerID string) ([]model.Order, error) {
	args := m.Called(buyerID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *OrderRepository) Claim(ctx context.Context, orderID, fulfillerID string) error {
	args := m.Called(ctx, orderID, fulfillerID)
	return args.Error(0)
}

func (m *OrderRepository) Complete(ctx context.Context, orderID, fulfillerID string) error {
	args := m.Called(ctx, orderID, fulfillerID)
	return args.Error(0)
}

func (m *OrderRepository) Confirm(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
