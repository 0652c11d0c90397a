package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
)

type UserAccountRepository struct {
	mock.Mock
}

func (m *UserAccountRepository) Upsert(ctx context.Context, account *model.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *UserAccountRepository) FindByID(userID string) (model.UserAccount, error) {
	args := m.Called(userID)
	return args.Get(0).(model.UserAccount), args.Error(1)
}

func (m *UserAccountRepository) AdjustBalance(ctx context.Context, userID string, delta float64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}
