package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
)

type FulfillerRepository struct {
	mock.Mock
}

func (m *FulfillerRepository) Create(ctx context.Context, fulfiller *model.Fulfiller) error {
	args := m.Called(ctx, fulfiller)
	return args.Error(0)
}

func (m *FulfillerRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *FulfillerRepository) List() ([]model.Fulfiller, error) {
	args := m.Called()
	return args.Get(0).([]model.Fulfiller), args.Error(1)
}

func (m *FulfillerRepository) Exists(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}
