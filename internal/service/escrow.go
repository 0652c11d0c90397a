package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/internal/repository"
)

// orderCreateAttempts bounds retries when a random order id collides.
const orderCreateAttempts = 3

var ErrItemAlreadySold = errors.New("ITEM_ALREADY_SOLD")
var ErrNotYourOrder = errors.New("NOT_YOUR_ORDER")
var ErrAlreadyClaimed = errors.New("ALREADY_CLAIMED")
var ErrInvalidState = errors.New("INVALID_STATE")
var ErrNotAuthorized = errors.New("NOT_AUTHORIZED")

// Escrow drives each purchase from creation through fulfiller
// assignment to buyer confirmation. Every cross-entity mutation is a
// single store transaction; every contested transition is a guarded
// conditional update, so the process can be replicated without an
// in-memory serialization point.
type Escrow interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (PurchaseResult, error)
	ClaimOrder(ctx context.Context, cmd ClaimOrderCommand) (ClaimResult, error)
	CompleteOrder(ctx context.Context, cmd CompleteOrderCommand) (CompleteResult, error)
	ConfirmOrder(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmResult, error)
	ActiveOrders() ([]model.Order, error)
	BuyerOrders(buyerID string) ([]model.Order, error)
}

type escrow struct {
	txManager  repository.TxManager
	orders     repository.OrderRepository
	products   repository.ProductRepository
	ledger     Ledger
	roster     Roster
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

func NewEscrow(txManager repository.TxManager, orders repository.OrderRepository,
	products repository.ProductRepository, ledger Ledger, roster Roster,
	dispatcher notify.Dispatcher, logger *zap.Logger) Escrow {
	return &escrow{
		txManager:  txManager,
		orders:     orders,
		products:   products,
		ledger:     ledger,
		roster:     roster,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateOrder debits the buyer, marks the item sold and records the
// order as one atomic unit. The sold=false compare-and-swap inside
// the transaction decides racing buyers; the pre-checks only exist to
// give the common case its precise error.
func (e *escrow) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (PurchaseResult, error) {
	product, err := e.products.GetByID(cmd.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return PurchaseResult{}, NewServiceError(constants.ErrCodeItemNotFound, err)
		}
		return PurchaseResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if product.Sold {
		return PurchaseResult{}, NewServiceError(constants.ErrCodeItemAlreadySold, ErrItemAlreadySold)
	}

	balance, err := e.ledger.GetBalance(cmd.BuyerID)
	if err != nil {
		return PurchaseResult{}, err
	}

	if balance < product.Price {
		return PurchaseResult{}, NewServiceError(constants.ErrCodeInsufficientBalance, ErrInsufficientBalance)
	}

	var order model.Order
	for attempt := 1; ; attempt++ {
		order = model.Order{
			OrderID:   fmt.Sprintf("ORD_%06d", rand.Intn(900000)+100000),
			BuyerID:   cmd.BuyerID,
			BuyerName: cmd.BuyerName,
			SellerID:  product.SellerID,
			ProductID: product.ProductID,
			ItemName:  product.Name,
			Price:     product.Price,
			Payload:   product.Payload,
			Status:    model.OrderStatusPending,
			CreatedAt: time.Now(),
		}

		err = e.txManager.WithTx(ctx, func(ctx context.Context) error {
			if err := e.products.MarkSold(ctx, product.ProductID, cmd.BuyerID, cmd.BuyerName); err != nil {
				if errors.Is(err, repository.ErrNoRowsAffected) {
					return NewServiceError(constants.ErrCodeItemAlreadySold, ErrItemAlreadySold)
				}
				return NewServiceError(constants.ErrCodeStoreUnavailable, err)
			}

			if err := e.ledger.Debit(ctx, cmd.BuyerID, product.Price); err != nil {
				return err
			}

			return e.orders.Create(ctx, &order)
		})

		if err == nil || !errors.Is(err, repository.ErrOrderDuplicate) {
			break
		}

		if attempt >= orderCreateAttempts {
			err = NewServiceError(constants.ErrCodeStoreUnavailable, err)
			break
		}
	}
	if err != nil {
		var serviceErr Error
		if !errors.As(err, &serviceErr) {
			err = NewServiceError(constants.ErrCodeStoreUnavailable, err)
		}

		e.logger.Warn("Purchase rejected",
			zap.Error(err),
			zap.String("buyerID", cmd.BuyerID),
			zap.String("productID", cmd.ProductID))

		return PurchaseResult{}, err
	}

	e.ledger.Invalidate(cmd.BuyerID)

	newBalance, balErr := e.ledger.GetBalance(cmd.BuyerID)
	if balErr != nil {
		newBalance = balance - product.Price
	}

	e.logger.Info("Order created",
		zap.String("orderID", order.OrderID),
		zap.String("buyerID", cmd.BuyerID),
		zap.String("productID", product.ProductID),
		zap.Float64("price", product.Price))

	e.broadcastClaimOffers(ctx, order)

	return PurchaseResult{Order: order, NewBalance: newBalance}, nil
}

func (e *escrow) broadcastClaimOffers(ctx context.Context, order model.Order) {
	fulfillers, err := e.roster.List()
	if err != nil {
		// Non-fatal: the purchase already committed. The operator can
		// still find the order in the active set.
		e.logger.Error("Failed to load fulfiller roster for claim broadcast",
			zap.Error(err),
			zap.String("orderID", order.OrderID))
		return
	}

	ids := make([]string, 0, len(fulfillers))
	for _, f := range fulfillers {
		ids = append(ids, f.UserID)
	}

	e.dispatcher.BroadcastClaimOffer(ctx, order, ids)
}

// ClaimOrder resolves competing fulfillers with a status=PENDING
// test-and-set: exactly one caller wins, everyone else gets
// AlreadyClaimed and no effect.
func (e *escrow) ClaimOrder(ctx context.Context, cmd ClaimOrderCommand) (ClaimResult, error) {
	ok, err := e.roster.IsFulfiller(cmd.FulfillerID)
	if err != nil {
		return ClaimResult{}, err
	}
	if !ok {
		return ClaimResult{}, NewServiceError(constants.ErrCodeNotAuthorized, ErrNotAuthorized)
	}

	order, err := e.orders.GetByID(cmd.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ClaimResult{}, NewServiceError(constants.ErrCodeOrderNotFound, err)
		}
		return ClaimResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if err := e.orders.Claim(ctx, cmd.OrderID, cmd.FulfillerID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ClaimResult{}, NewServiceError(constants.ErrCodeAlreadyClaimed, ErrAlreadyClaimed)
		}
		return ClaimResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	now := time.Now()
	order.Status = model.OrderStatusClaimed
	order.FulfillerID = &cmd.FulfillerID
	order.ClaimedAt = &now

	e.logger.Info("Order claimed",
		zap.String("orderID", order.OrderID),
		zap.String("fulfillerID", cmd.FulfillerID))

	// Best-effort retraction of the other fulfillers' claim buttons.
	// The status guard already made a second claim impossible.
	e.dispatcher.RetractClaimOffers(ctx, order.OrderID, cmd.FulfillerID)

	return ClaimResult{Order: order}, nil
}

// CompleteOrder credits the seller and records the transition in the
// same transaction, so a failed payout leaves the order claimed and
// retryable rather than completed and unpaid.
func (e *escrow) CompleteOrder(ctx context.Context, cmd CompleteOrderCommand) (CompleteResult, error) {
	order, err := e.orders.GetByID(cmd.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return CompleteResult{}, NewServiceError(constants.ErrCodeOrderNotFound, err)
		}
		return CompleteResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if order.FulfillerID == nil || *order.FulfillerID != cmd.FulfillerID {
		return CompleteResult{}, NewServiceError(constants.ErrCodeNotYourOrder, ErrNotYourOrder)
	}

	if order.Status != model.OrderStatusClaimed {
		return CompleteResult{}, NewServiceError(constants.ErrCodeInvalidState, ErrInvalidState)
	}

	err = e.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := e.ledger.Credit(ctx, order.SellerID, order.Price); err != nil {
			return err
		}

		if err := e.orders.Complete(ctx, cmd.OrderID, cmd.FulfillerID); err != nil {
			if errors.Is(err, repository.ErrNoRowsAffected) {
				return NewServiceError(constants.ErrCodeInvalidState, ErrInvalidState)
			}
			return NewServiceError(constants.ErrCodeStoreUnavailable, err)
		}

		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}

	e.ledger.Invalidate(order.SellerID)

	now := time.Now()
	order.Status = model.OrderStatusCompleted
	order.CompletedAt = &now

	e.logger.Info("Order completed, seller credited",
		zap.String("orderID", order.OrderID),
		zap.String("sellerID", order.SellerID),
		zap.Float64("price", order.Price))

	e.dispatcher.NotifySellerPaid(ctx, order)
	e.dispatcher.SendConfirmRequest(ctx, order)

	return CompleteResult{Order: order}, nil
}

// ConfirmOrder retires the order from the active set. Confirming an
// already-confirmed order is benign: the buyer may double-tap the
// button.
func (e *escrow) ConfirmOrder(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmResult, error) {
	order, err := e.orders.GetByID(cmd.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ConfirmResult{}, NewServiceError(constants.ErrCodeOrderNotFound, err)
		}
		return ConfirmResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	if order.BuyerID != cmd.BuyerID {
		return ConfirmResult{}, NewServiceError(constants.ErrCodeNotYourOrder, ErrNotYourOrder)
	}

	if order.Status == model.OrderStatusConfirmed {
		return ConfirmResult{AlreadyConfirmed: true}, nil
	}

	if order.Status != model.OrderStatusCompleted {
		return ConfirmResult{}, NewServiceError(constants.ErrCodeInvalidState, ErrInvalidState)
	}

	if err := e.orders.Confirm(ctx, cmd.OrderID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			// Lost a race against another confirm tap. Same outcome.
			return ConfirmResult{AlreadyConfirmed: true}, nil
		}
		return ConfirmResult{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	e.logger.Info("Order confirmed and retired",
		zap.String("orderID", order.OrderID),
		zap.String("buyerID", cmd.BuyerID))

	return ConfirmResult{}, nil
}

func (e *escrow) ActiveOrders() ([]model.Order, error) {
	orders, err := e.orders.ListActive()
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return orders, nil
}

func (e *escrow) BuyerOrders(buyerID string) ([]model.Order, error) {
	orders, err := e.orders.ListByBuyer(buyerID)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return orders, nil
}
