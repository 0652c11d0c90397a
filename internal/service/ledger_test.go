package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/mocks"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/repository"
	"github.com/obadahasan/souqgateway/internal/service"
)

func TestLedger_GetBalance(t *testing.T) {
	logger := zap.NewNop()

	t.Run("reads through to the store and caches the value", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("FindByID", "1001").
			Return(model.UserAccount{UserID: "1001", Balance: 42.5}, nil).Once()

		ledger := service.NewLedger(txManager, accounts, logger)

		balance, err := ledger.GetBalance("1001")
		require.NoError(t, err)
		assert.Equal(t, 42.5, balance)

		// Second read must be served from the cache.
		balance, err = ledger.GetBalance("1001")
		require.NoError(t, err)
		assert.Equal(t, 42.5, balance)

		accounts.AssertExpectations(t)
	})

	t.Run("unknown user reads as zero", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("FindByID", "1002").
			Return(model.UserAccount{}, repository.ErrUserNotFound)

		ledger := service.NewLedger(txManager, accounts, logger)

		balance, err := ledger.GetBalance("1002")
		require.NoError(t, err)
		assert.Equal(t, 0.0, balance)
	})

	t.Run("invalidate forces the next read back to the store", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("FindByID", "1003").
			Return(model.UserAccount{UserID: "1003", Balance: 10}, nil).Once()
		accounts.On("FindByID", "1003").
			Return(model.UserAccount{UserID: "1003", Balance: 70}, nil).Once()

		ledger := service.NewLedger(txManager, accounts, logger)

		balance, _ := ledger.GetBalance("1003")
		assert.Equal(t, 10.0, balance)

		ledger.Invalidate("1003")

		balance, _ = ledger.GetBalance("1003")
		assert.Equal(t, 70.0, balance)

		accounts.AssertExpectations(t)
	})
}

func TestLedger_Credit(t *testing.T) {
	logger := zap.NewNop()

	t.Run("credits an existing account", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("AdjustBalance", mock.Anything, "2001", 25.0).Return(nil)

		ledger := service.NewLedger(txManager, accounts, logger)

		err := ledger.Credit(context.Background(), "2001", 25.0)
		assert.NoError(t, err)

		accounts.AssertExpectations(t)
	})

	t.Run("creates the account row and retries on first contact", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("AdjustBalance", mock.Anything, "2002", 25.0).
			Return(repository.ErrNoRowsAffected).Once()
		accounts.On("Upsert", mock.Anything, mock.AnythingOfType("*model.UserAccount")).
			Return(nil).Once()
		accounts.On("AdjustBalance", mock.Anything, "2002", 25.0).
			Return(nil).Once()

		ledger := service.NewLedger(txManager, accounts, logger)

		err := ledger.Credit(context.Background(), "2002", 25.0)
		assert.NoError(t, err)

		accounts.AssertExpectations(t)
	})
}

func TestLedger_Debit(t *testing.T) {
	logger := zap.NewNop()

	t.Run("maps the balance guard to insufficient balance", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		accounts.On("AdjustBalance", mock.Anything, "3001", -99.0).
			Return(repository.ErrNoRowsAffected)

		ledger := service.NewLedger(txManager, accounts, logger)

		err := ledger.Debit(context.Background(), "3001", 99.0)
		require.Error(t, err)

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientBalance, serviceErr.Code)
	})
}

func TestLedger_Adjust(t *testing.T) {
	logger := zap.NewNop()

	t.Run("applies a manual credit and returns the fresh balance", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		accounts.On("AdjustBalance", mock.Anything, "4001", 50.0).Return(nil)
		accounts.On("FindByID", "4001").
			Return(model.UserAccount{UserID: "4001", Balance: 150}, nil)

		ledger := service.NewLedger(txManager, accounts, logger)

		balance, err := ledger.Adjust(context.Background(),
			service.AdjustBalanceCommand{UserID: "4001", Delta: 50.0})
		require.NoError(t, err)
		assert.Equal(t, 150.0, balance)

		accounts.AssertExpectations(t)
	})

	t.Run("routes a negative delta through the debit guard", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		accounts := &mocks.UserAccountRepository{}

		txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		accounts.On("AdjustBalance", mock.Anything, "4002", -30.0).
			Return(repository.ErrNoRowsAffected)

		ledger := service.NewLedger(txManager, accounts, logger)

		_, err := ledger.Adjust(context.Background(),
			service.AdjustBalanceCommand{UserID: "4002", Delta: -30.0})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientBalance, serviceErr.Code)
	})
}
