package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/obadahasan/souqgateway/internal/model"
)

var ErrOrderNotFound = errors.New("ORDER_NOT_FOUND")
var ErrOrderDuplicate = errors.New("ORDER_DUPLICATE")

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(orderID string) (model.Order, error)
	ListActive() ([]model.Order, error)
	ListByBuyer(buyerID string) ([]model.Order, error)
	Claim(ctx context.Context, orderID, fulfillerID string) error
	Complete(ctx context.Context, orderID, fulfillerID string) error
	Confirm(ctx context.Context, orderID string) error
}

type Order struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &Order{db: db}
}

func (r *Order) Create(ctx context.Context, order *model.Order) error {
	db := GetTx(ctx, r.db)

	err := db.Create(order).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrOrderDuplicate
	}

	return err
}

func (r *Order) GetByID(orderID string) (model.Order, error) {
	var order model.Order

	err := r.db.Where("order_id = ?", orderID).First(&order).Error
	if err == nil {
		return order, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, ErrOrderNotFound
	}

	return model.Order{}, err
}

func (r *Order) ListActive() ([]model.Order, error) {
	var orders []model.Order

	err := r.db.Where("status <> ?", model.OrderStatusConfirmed).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *Order) ListByBuyer(buyerID string) ([]model.Order, error) {
	var orders []model.Order

	err := r.db.Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// Claim binds a fulfiller with a status = PENDING test-and-set.
// Exactly one of any number of concurrent claims passes the guard;
// the rest get ErrNoRowsAffected.
func (r *Order) Claim(ctx context.Context, orderID, fulfillerID string) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	result := db.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusClaimed,
			"fulfiller_id": fulfillerID,
			"claimed_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

// Complete transitions CLAIMED -> COMPLETED only for the fulfiller
// that holds the claim.
func (r *Order) Complete(ctx context.Context, orderID, fulfillerID string) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	result := db.Model(&model.Order{}).
		Where("order_id = ? AND status = ? AND fulfiller_id = ?",
			orderID, model.OrderStatusClaimed, fulfillerID).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

// Confirm retires the order. The row stays in the store as history;
// the active working set excludes CONFIRMED rows.
func (r *Order) Confirm(ctx context.Context, orderID string) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	result := db.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, model.OrderStatusCompleted).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusConfirmed,
			"confirmed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
