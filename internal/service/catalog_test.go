package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/mocks"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/service"
)

func TestCatalog_CreateProduct(t *testing.T) {
	logger := zap.NewNop()

	t.Run("assigns an id and persists the listing", func(t *testing.T) {
		products := &mocks.ProductRepository{}
		products.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		catalog := service.NewCatalog(products, logger)

		product, err := catalog.CreateProduct(context.Background(), service.CreateProductCommand{
			Name:     "Gift card",
			Price:    15,
			SellerID: "9001",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, product.ProductID)
		assert.Equal(t, "Gift card", product.Name)

		products.AssertExpectations(t)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		catalog := service.NewCatalog(&mocks.ProductRepository{}, logger)

		_, err := catalog.CreateProduct(context.Background(),
			service.CreateProductCommand{Price: 15})
		assert.ErrorIs(t, err, service.ErrMissingName)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		catalog := service.NewCatalog(&mocks.ProductRepository{}, logger)

		_, err := catalog.CreateProduct(context.Background(),
			service.CreateProductCommand{Name: "Gift card", Price: 0})
		assert.ErrorIs(t, err, service.ErrInvalidPrice)
	})
}

func TestCatalog_ListAvailable(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the unsold listings", func(t *testing.T) {
		products := &mocks.ProductRepository{}
		products.On("ListAvailable").Return([]model.Product{
			{ProductID: "prod-1", Name: "Gift card"},
		}, nil)

		catalog := service.NewCatalog(products, logger)

		list, err := catalog.ListAvailable()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
