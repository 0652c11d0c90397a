package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/repository"
)

// Roster tracks which accounts are allowed to claim orders.
type Roster interface {
	Add(ctx context.Context, cmd AddFulfillerCommand) error
	Remove(ctx context.Context, userID string) error
	List() ([]model.Fulfiller, error)
	IsFulfiller(userID string) (bool, error)
}

type roster struct {
	fulfillers repository.FulfillerRepository
	logger     *zap.Logger
}

func NewRoster(fulfillers repository.FulfillerRepository, logger *zap.Logger) Roster {
	return &roster{fulfillers: fulfillers, logger: logger}
}

func (r *roster) Add(ctx context.Context, cmd AddFulfillerCommand) error {
	fulfiller := model.Fulfiller{
		UserID:    cmd.UserID,
		Name:      cmd.Name,
		AddedBy:   cmd.AddedBy,
		CreatedAt: time.Now(),
	}

	if err := r.fulfillers.Create(ctx, &fulfiller); err != nil {
		if errors.Is(err, repository.ErrFulfillerExists) {
			return NewServiceError(constants.ErrCodeFulfillerExists, err)
		}
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	r.logger.Info("Fulfiller added",
		zap.String("userID", cmd.UserID),
		zap.String("addedBy", cmd.AddedBy))

	return nil
}

func (r *roster) Remove(ctx context.Context, userID string) error {
	if err := r.fulfillers.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrFulfillerNotFound) {
			return NewServiceError(constants.ErrCodeFulfillerNotFound, err)
		}
		return NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	r.logger.Info("Fulfiller removed", zap.String("userID", userID))

	return nil
}

func (r *roster) List() ([]model.Fulfiller, error) {
	fulfillers, err := r.fulfillers.List()
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return fulfillers, nil
}

func (r *roster) IsFulfiller(userID string) (bool, error) {
	ok, err := r.fulfillers.Exists(userID)
	if err != nil {
		return false, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return ok, nil
}
