package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/repository"
)

type ChargeKeyRepository struct {
	mock.Mock
}

func (m *ChargeKeyRepository) Create(ctx context.Context, key *model.ChargeKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ChargeKeyRepository) GetByCode(code string) (model.ChargeKey, error) {
	args := m.Called(code)
	return args.Get(0).(model.ChargeKey), args.Error(1)
}

func (m *ChargeKeyRepository) MarkUsed(ctx context.Context, code, redeemerID string) error {
	args := m.Called(ctx, code, redeemerID)
	return args.Error(0)
}

func (m *ChargeKeyRepository) Stats() (repository.ChargeKeyStats, error) {
	args := m.Called()
	return args.Get(0).(repository.ChargeKeyStats), args.Error(1)
}
