package service_test

import (
	"context"
	"errors"
	"regexp"
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

var keyCodePattern = regexp.MustCompile(`^KEY-\d{5}-\d{4}$`)

func TestVault_GenerateKeys(t *testing.T) {
	logger := zap.NewNop()

	t.Run("mints the requested number of keys", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		keys := &mocks.ChargeKeyRepository{}
		ledger := &mocks.Ledger{}
		dispatcher := &mocks.Dispatcher{}

		keys.On("Create", mock.Anything, mock.AnythingOfType("*model.ChargeKey")).
			Return(nil).Times(3)

		vault := service.NewVault(txManager, keys, ledger, dispatcher, logger)

		codes, err := vault.GenerateKeys(context.Background(),
			service.GenerateKeysCommand{Amount: 50, Count: 3})
		require.NoError(t, err)
		require.Len(t, codes, 3)

		for _, code := range codes {
			assert.Regexp(t, keyCodePattern, code)
		}

		keys.AssertExpectations(t)
	})

	t.Run("regenerates the code on a collision", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		keys := &mocks.ChargeKeyRepository{}
		ledger := &mocks.Ledger{}
		dispatcher := &mocks.Dispatcher{}

		keys.On("Create", mock.Anything, mock.AnythingOfType("*model.ChargeKey")).
			Return(repository.ErrChargeKeyDuplicate).Once()
		keys.On("Create", mock.Anything, mock.AnythingOfType("*model.ChargeKey")).
			Return(nil).Once()

		vault := service.NewVault(txManager, keys, ledger, dispatcher, logger)

		codes, err := vault.GenerateKeys(context.Background(),
			service.GenerateKeysCommand{Amount: 10, Count: 1})
		require.NoError(t, err)
		require.Len(t, codes, 1)

		keys.AssertExpectations(t)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		vault := service.NewVault(&mocks.TxManager{}, &mocks.ChargeKeyRepository{},
			&mocks.Ledger{}, &mocks.Dispatcher{}, logger)

		_, err := vault.GenerateKeys(context.Background(),
			service.GenerateKeysCommand{Amount: 0, Count: 1})
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("rejects a count above the batch cap", func(t *testing.T) {
		vault := service.NewVault(&mocks.TxManager{}, &mocks.ChargeKeyRepository{},
			&mocks.Ledger{}, &mocks.Dispatcher{}, logger)

		_, err := vault.GenerateKeys(context.Background(),
			service.GenerateKeysCommand{Amount: 10, Count: service.MaxKeysPerBatch + 1})
		assert.ErrorIs(t, err, service.ErrInvalidCount)
	})
}

func TestVault_RedeemKey(t *testing.T) {
	logger := zap.NewNop()

	t.Run("burns the key and credits the redeemer", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		keys := &mocks.ChargeKeyRepository{}
		ledger := &mocks.Ledger{}
		dispatcher := &mocks.Dispatcher{}

		keys.On("GetByCode", "KEY-11111-2222").
			Return(model.ChargeKey{Code: "KEY-11111-2222", Amount: 75}, nil)
		txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		keys.On("MarkUsed", mock.Anything, "KEY-11111-2222", "5001").Return(nil)
		ledger.On("Credit", mock.Anything, "5001", 75.0).Return(nil)
		ledger.On("Invalidate", "5001").Return()
		ledger.On("GetBalance", "5001").Return(100.0, nil)
		dispatcher.On("NotifyOperator", mock.Anything, mock.AnythingOfType("string")).Return()

		vault := service.NewVault(txManager, keys, ledger, dispatcher, logger)

		result, err := vault.RedeemKey(context.Background(),
			service.RedeemKeyCommand{Code: "KEY-11111-2222", UserID: "5001"})
		require.NoError(t, err)
		assert.Equal(t, 75.0, result.Amount)
		assert.Equal(t, 100.0, result.NewBalance)

		keys.AssertExpectations(t)
		ledger.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("rejects an unknown key", func(t *testing.T) {
		keys := &mocks.ChargeKeyRepository{}
		keys.On("GetByCode", "KEY-00000-0000").
			Return(model.ChargeKey{}, repository.ErrChargeKeyNotFound)

		vault := service.NewVault(&mocks.TxManager{}, keys, &mocks.Ledger{}, &mocks.Dispatcher{}, logger)

		_, err := vault.RedeemKey(context.Background(),
			service.RedeemKeyCommand{Code: "KEY-00000-0000", UserID: "5002"})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeKeyNotFound, serviceErr.Code)
	})

	t.Run("rejects a key that was already redeemed", func(t *testing.T) {
		keys := &mocks.ChargeKeyRepository{}
		keys.On("GetByCode", "KEY-33333-4444").
			Return(model.ChargeKey{Code: "KEY-33333-4444", Amount: 20, Used: true}, nil)

		vault := service.NewVault(&mocks.TxManager{}, keys, &mocks.Ledger{}, &mocks.Dispatcher{}, logger)

		_, err := vault.RedeemKey(context.Background(),
			service.RedeemKeyCommand{Code: "KEY-33333-4444", UserID: "5003"})
		assert.ErrorIs(t, err, service.ErrKeyAlreadyUsed)
	})

	t.Run("loses the race when another redemption burned the key first", func(t *testing.T) {
		txManager := &mocks.TxManager{}
		keys := &mocks.ChargeKeyRepository{}
		ledger := &mocks.Ledger{}

		keys.On("GetByCode", "KEY-55555-6666").
			Return(model.ChargeKey{Code: "KEY-55555-6666", Amount: 30}, nil)
		txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		keys.On("MarkUsed", mock.Anything, "KEY-55555-6666", "5004").
			Return(repository.ErrNoRowsAffected)

		vault := service.NewVault(txManager, keys, ledger, &mocks.Dispatcher{}, logger)

		_, err := vault.RedeemKey(context.Background(),
			service.RedeemKeyCommand{Code: "KEY-55555-6666", UserID: "5004"})
		assert.ErrorIs(t, err, service.ErrKeyAlreadyUsed)

		// The loser's transaction must not credit anything.
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})
}
