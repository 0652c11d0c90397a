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

func TestProductFlow(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("walks the full listing flow and publishes", func(t *testing.T) {
		catalog := &mocks.Catalog{}

		catalog.On("CreateProduct", mock.Anything, service.CreateProductCommand{
			SellerID:   "9001",
			SellerName: "Seller",
			Name:       "Streaming account",
			Price:      40,
			Category:   "accounts",
			Payload:    "user:pass",
		}).Return(model.Product{Name: "Streaming account", Price: 40}, nil)

		flow := service.NewProductFlow(catalog, logger)

		flow.Start("9001", "Seller")
		assert.True(t, flow.Active("9001"))

		_, done, err := flow.Input(ctx, "9001", "Streaming account")
		require.NoError(t, err)
		assert.False(t, done)

		_, done, _ = flow.Input(ctx, "9001", "40")
		assert.False(t, done)

		_, done, _ = flow.Input(ctx, "9001", "accounts")
		assert.False(t, done)

		_, done, _ = flow.Input(ctx, "9001", "user:pass")
		assert.False(t, done)

		reply, done, err := flow.Input(ctx, "9001", "yes")
		require.NoError(t, err)
		assert.True(t, done)
		assert.Contains(t, reply, "Published")

		assert.False(t, flow.Active("9001"))
		catalog.AssertExpectations(t)
	})

	t.Run("re-prompts on an invalid price", func(t *testing.T) {
		flow := service.NewProductFlow(&mocks.Catalog{}, logger)

		flow.Start("9002", "Seller")
		flow.Input(ctx, "9002", "Some item")

		reply, done, err := flow.Input(ctx, "9002", "not a number")
		require.NoError(t, err)
		assert.False(t, done)
		assert.Contains(t, reply, "positive number")

		reply, done, err = flow.Input(ctx, "9002", "-5")
		require.NoError(t, err)
		assert.False(t, done)
		assert.Contains(t, reply, "positive number")

		assert.True(t, flow.Active("9002"))
	})

	t.Run("cancel discards the draft", func(t *testing.T) {
		catalog := &mocks.Catalog{}
		flow := service.NewProductFlow(catalog, logger)

		flow.Start("9003", "Seller")
		flow.Input(ctx, "9003", "Some item")

		assert.True(t, flow.Cancel("9003"))
		assert.False(t, flow.Active("9003"))
		assert.False(t, flow.Cancel("9003"))

		catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("input without a flow is a no-op", func(t *testing.T) {
		flow := service.NewProductFlow(&mocks.Catalog{}, logger)

		reply, done, err := flow.Input(ctx, "9004", "hello")
		require.NoError(t, err)
		assert.True(t, done)
		assert.Empty(t, reply)
	})

	t.Run("anything but yes keeps the confirmation pending", func(t *testing.T) {
		flow := service.NewProductFlow(&mocks.Catalog{}, logger)

		flow.Start("9005", "Seller")
		flow.Input(ctx, "9005", "Some item")
		flow.Input(ctx, "9005", "15")
		flow.Input(ctx, "9005", "games")
		flow.Input(ctx, "9005", "code-123")

		_, done, _ := flow.Input(ctx, "9005", "maybe")
		assert.False(t, done)
		assert.True(t, flow.Active("9005"))
	})
}
