package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/service"
)

type Catalog struct {
	mock.Mock
}

func (m *Catalog) CreateProduct(ctx context.Context, cmd service.CreateProductCommand) (model.Product, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *Catalog) Get(productID string) (model.Product, error) {
	args := m.Called(productID)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *Catalog) ListAvailable() ([]model.Product, error) {
	args := m.Called()
	return args.Get(0).([]model.Product), args.Error(1)
}
