package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/internal/repository"
)

// MaxKeysPerBatch caps one generation command so a typo cannot mint
// thousands of value-bearing codes.
const MaxKeysPerBatch = 100

// keyGenAttempts bounds collision regeneration per key.
const keyGenAttempts = 5

var ErrInvalidAmount = errors.New("INVALID_AMOUNT")
var ErrInvalidCount = errors.New("INVALID_COUNT")
var ErrKeyAlreadyUsed = errors.New("KEY_ALREADY_USED")

// Vault generates and redeems one-time charge keys. Redemption burns
// the key and credits the redeemer in one store transaction; the
// used-flag guard makes the credit exactly-once under any race.
type Vault interface {
	GenerateKeys(ctx context.Context, cmd GenerateKeysCommand) ([]string, error)
	RedeemKey(ctx context.Context, cmd RedeemKeyCommand) (RedeemResult, error)
	Stats() (repository.ChargeKeyStats, error)
}

type vault struct {
	txManager  repository.TxManager
	keys       repository.ChargeKeyRepository
	ledger     Ledger
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

func NewVault(txManager repository.TxManager, keys repository.ChargeKeyRepository, ledger Ledger,
	dispatcher notify.Dispatcher, logger *zap.Logger) Vault {
	return &vault{txManager: txManager, keys: keys, ledger: ledger, dispatcher: dispatcher, logger: logger}
}

func (v *vault) GenerateKeys(ctx context.Context, cmd GenerateKeysCommand) ([]string, error) {
	if cmd.Amount <= 0 {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidAmount)
	}

	if cmd.Count < 1 || cmd.Count > MaxKeysPerBatch {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidCount)
	}

	codes := make([]string, 0, cmd.Count)
	for i := 0; i < cmd.Count; i++ {
		code, err := v.createKey(ctx, cmd.Amount)
		if err != nil {
			// Keys minted before the failure stay valid; report what
			// was actually created.
			v.logger.Error("Key generation aborted",
				zap.Error(err),
				zap.Int("generated", len(codes)),
				zap.Int("requested", cmd.Count))
			return codes, err
		}

		codes = append(codes, code)
	}

	v.logger.Info("Charge keys generated",
		zap.Int("count", len(codes)),
		zap.Float64("amount", cmd.Amount))

	return codes, nil
}

// createKey inserts a fresh key, regenerating the code when it
// collides with an existing one instead of overwriting it.
func (v *vault) createKey(ctx context.Context, amount float64) (string, error) {
	for attempt := 0; attempt < keyGenAttempts; attempt++ {
		code := fmt.Sprintf("KEY-%05d-%04d", rand.Intn(90000)+10000, rand.Intn(9000)+1000)

		err := v.keys.Create(ctx, &model.ChargeKey{Code: code, Amount: amount})
		if err == nil {
			return code, nil
		}

		if errors.Is(err, repository.ErrChargeKeyDuplicate) {
			continue
		}

		return "", NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return "", NewServiceError(constants.ErrCodeStoreUnavailable,
		errors.New("could not generate a unique key code"))
}

func (v *vault) RedeemKey(ctx context.Context, cmd RedeemKeyCommand) (RedeemResult, error) {
	key, err := v.keys.GetByCode(cmd.Code)
	if err != nil {
		if errors.Is(err, repository.ErrChargeKeyNotFound) {
			return RedeemResult{}, NewServiceError(constants.ErrCodeKeyNotFound, err)
		}
		return RedeemResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if key.Used {
		return RedeemResult{}, NewServiceError(constants.ErrCodeKeyAlreadyUsed, ErrKeyAlreadyUsed)
	}

	err = v.txManager.WithTx(ctx, func(ctx context.Context) error {
		// The used=false guard is what resolves two simultaneous
		// redemptions: the loser's transaction applies nothing.
		if err := v.keys.MarkUsed(ctx, cmd.Code, cmd.UserID); err != nil {
			if errors.Is(err, repository.ErrNoRowsAffected) {
				return NewServiceError(constants.ErrCodeKeyAlreadyUsed, ErrKeyAlreadyUsed)
			}
			return NewServiceError(constants.ErrCodeStoreUnavailable, err)
		}

		return v.ledger.Credit(ctx, cmd.UserID, key.Amount)
	})
	if err != nil {
		return RedeemResult{}, err
	}

	v.ledger.Invalidate(cmd.UserID)

	balance, err := v.ledger.GetBalance(cmd.UserID)
	if err != nil {
		balance = 0
	}

	v.logger.Info("Charge key redeemed",
		zap.String("code", cmd.Code),
		zap.String("userID", cmd.UserID),
		zap.Float64("amount", key.Amount))

	v.dispatcher.NotifyOperator(ctx, fmt.Sprintf(
		"Charge key redeemed\n\nKey: %s\nUser: %s\nAmount: %.2f", cmd.Code, cmd.UserID, key.Amount))

	return RedeemResult{Amount: key.Amount, NewBalance: balance}, nil
}

func (v *vault) Stats() (repository.ChargeKeyStats, error) {
	stats, err := v.keys.Stats()
	if err != nil {
		return repository.ChargeKeyStats{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return stats, nil
}
