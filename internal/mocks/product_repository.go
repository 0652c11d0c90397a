package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetByID(productID string) (model.Product, error) {
	args := m.Called(productID)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *ProductRepository) ListAvailable() ([]model.Product, error) {
	args := m.Called()
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) MarkSold(ctx context.Context, productID, buyerID, buyerName string) error {
	args := m.Called(ctx, productID, buyerID, buyerName)
	return args.Error(0)
}
