package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/repository"
)

var ErrInsufficientBalance = errors.New("INSUFFICIENT_BALANCE")

// Ledger owns all balance reads and writes. Credit and Debit are
// tx-aware: they join whatever transaction is carried in ctx, so a
// purchase debit commits together with the sold-mark and the order
// insert. The in-process cache is never authoritative; the store
// guard decides every race.
type Ledger interface {
	RegisterContact(ctx context.Context, cmd RegisterContactCommand) error
	GetBalance(userID string) (float64, error)
	Credit(ctx context.Context, userID string, amount float64) error
	Debit(ctx context.Context, userID string, amount float64) error
	Adjust(ctx context.Context, cmd AdjustBalanceCommand) (float64, error)
	Invalidate(userID string)
}

type ledger struct {
	txManager repository.TxManager
	accounts  repository.UserAccountRepository
	logger    *zap.Logger

	mu    sync.RWMutex
	cache map[string]float64
}

func NewLedger(txManager repository.TxManager, accounts repository.UserAccountRepository, logger *zap.Logger) Ledger {
	return &ledger{
		txManager: txManager,
		accounts:  accounts,
		logger:    logger,
		cache:     map[string]float64{},
	}
}

func (l *ledger) RegisterContact(ctx context.Context, cmd RegisterContactCommand) error {
	account := model.UserAccount{
		UserID:   cmd.UserID,
		Name:     cmd.Name,
		LastSeen: time.Now(),
	}

	if err := l.accounts.Upsert(ctx, &account); err != nil {
		l.logger.Error("Failed to register contact",
			zap.Error(err),
			zap.String("userID", cmd.UserID))
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return nil
}

// GetBalance is a read-through: a cache miss loads the store value
// and mirrors it. An account that was never funded reads as zero.
func (l *ledger) GetBalance(userID string) (float64, error) {
	l.mu.RLock()
	balance, ok := l.cache[userID]
	l.mu.RUnlock()
	if ok {
		return balance, nil
	}

	account, err := l.accounts.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, nil
		}
		return 0, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	l.mu.Lock()
	l.cache[userID] = account.Balance
	l.mu.Unlock()

	return account.Balance, nil
}

// Credit adds funds inside the ambient transaction. A missing account
// row is created first, then the adjustment is retried, so a credit
// is never dropped when two first-time writes race.
func (l *ledger) Credit(ctx context.Context, userID string, amount float64) error {
	err := l.accounts.AdjustBalance(ctx, userID, amount)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repository.ErrNoRowsAffected) {
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	account := model.UserAccount{UserID: userID, LastSeen: time.Now()}
	if err := l.accounts.Upsert(ctx, &account); err != nil {
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if err := l.accounts.AdjustBalance(ctx, userID, amount); err != nil {
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return nil
}

// Debit removes funds inside the ambient transaction. The store-side
// balance guard is the only authority on sufficiency; callers
// pre-check for a friendlier error but must still handle this one.
func (l *ledger) Debit(ctx context.Context, userID string, amount float64) error {
	err := l.accounts.AdjustBalance(ctx, userID, -amount)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrNoRowsAffected) {
		return NewServiceError(constants.ErrCodeInsufficientBalance, ErrInsufficientBalance)
	}

	return NewServiceError(constants.ErrCodeStoreUnavailable, err)
}

// Adjust is the operator's manual correction path. It owns its own
// transaction and refreshes the cache only after the store write
// committed.
func (l *ledger) Adjust(ctx context.Context, cmd AdjustBalanceCommand) (float64, error) {
	err := l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if cmd.Delta >= 0 {
			return l.Credit(ctx, cmd.UserID, cmd.Delta)
		}
		return l.Debit(ctx, cmd.UserID, -cmd.Delta)
	})
	if err != nil {
		l.logger.Error("Manual balance adjustment failed",
			zap.Error(err),
			zap.String("userID", cmd.UserID),
			zap.Float64("delta", cmd.Delta))
		return 0, err
	}

	l.Invalidate(cmd.UserID)

	balance, err := l.GetBalance(cmd.UserID)
	if err != nil {
		return 0, err
	}

	l.logger.Info("Balance adjusted",
		zap.String("userID", cmd.UserID),
		zap.Float64("delta", cmd.Delta),
		zap.Float64("balance", balance))

	return balance, nil
}

// Invalidate drops the cached balance so the next read goes to the
// store. Called after a foreign transaction (purchase, payout, key
// redemption) that moved this user's funds has committed.
func (l *ledger) Invalidate(userID string) {
	l.mu.Lock()
	delete(l.cache, userID)
	l.mu.Unlock()
}
