package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/service"
)

type Escrow struct {
	mock.Mock
}

func (m *Escrow) CreateOrder(ctx context.Context, cmd service.CreateOrderCommand) (service.PurchaseResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.PurchaseResult), args.Error(1)
}

func (m *Escrow) ClaimOrder(ctx context.Context, cmd service.ClaimOrderCommand) (service.ClaimResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.ClaimResult), args.Error(1)
}

func (m *Escrow) CompleteOrder(ctx context.Context, cmd service.CompleteOrderCommand) (service.CompleteResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CompleteResult), args.Error(1)
}

func (m *Escrow) ConfirmOrder(ctx context.Context, cmd service.ConfirmOrderCommand) (service.ConfirmResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.ConfirmResult), args.Error(1)
}

func (m *Escrow) ActiveOrders() ([]model.Order, error) {
	args := m.Called()
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *Escrow) BuyerOrders(buyerID string) ([]model.Order, error) {
	args := m.Called(buyerID)
	return args.Get(0).([]model.Order), args.Error(1)
}
