package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/repository"
	"github.com/obadahasan/souqgateway/internal/service"
)

type Vault struct {
	mock.Mock
}

func (m *Vault) GenerateKeys(ctx context.Context, cmd service.GenerateKeysCommand) ([]string, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).([]string), args.Error(1)
}

func (m *Vault) RedeemKey(ctx context.Context, cmd service.RedeemKeyCommand) (service.RedeemResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.RedeemResult), args.Error(1)
}

func (m *Vault) Stats() (repository.ChargeKeyStats, error) {
	args := m.Called()
	return args.Get(0).(repository.ChargeKeyStats), args.Error(1)
}
