package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/service"
)

type Roster struct {
	mock.Mock
}

func (m *Roster) Add(ctx context.Context, cmd service.AddFulfillerCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *Roster) Remove(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *Roster) List() ([]model.Fulfiller, error) {
	args := m.Called()
	return args.Get(0).([]model.Fulfiller), args.Error(1)
}

func (m *Roster) IsFulfiller(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}
