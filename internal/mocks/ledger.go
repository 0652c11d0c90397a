package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/service"
)

type Ledger struct {
	mock.Mock
}

func (m *Ledger) RegisterContact(ctx context.Context, cmd service.RegisterContactCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *Ledger) GetBalance(userID string) (float64, error) {
	args := m.Called(userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *Ledger) Credit(ctx context.Context, userID string, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *Ledger) Debit(ctx context.Context, userID string, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *Ledger) Adjust(ctx context.Context, cmd service.AdjustBalanceCommand) (float64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(float64), args.Error(1)
}

func (m *Ledger) Invalidate(userID string) {
	m.Called(userID)
}
