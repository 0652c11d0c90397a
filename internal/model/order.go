package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusClaimed   OrderStatus = "CLAIMED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
)

type Order struct {
	OrderID   string      `gorm:"column:order_id;primaryKey;type:varchar(32)"`
	BuyerID   string      `gorm:"column:buyer_id;type:varchar(32);not null;index"`
	BuyerName string      `gorm:"column:buyer_name;type:varchar(128)"`
	SellerID  string      `gorm:"column:seller_id;type:varchar(32);not null"`
	ProductID string      `gorm:"column:product_id;type:varchar(64);not null"`
	ItemName  string      `gorm:"column:item_name;type:varchar(255)"`
	Price     float64     `gorm:"column:price;not null"`
	// Payload is snapshotted from the product at order creation so a
	// later product edit cannot change what the buyer paid for.
	Payload     string      `gorm:"column:payload;type:text"`
	Status      OrderStatus `gorm:"column:status;type:varchar(16);not null;index"`
	FulfillerID *string     `gorm:"column:fulfiller_id;type:varchar(32)"`
	CreatedAt   time.Time   `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	ClaimedAt   *time.Time  `gorm:"column:claimed_at"`
	CompletedAt *time.Time  `gorm:"column:completed_at"`
	ConfirmedAt *time.Time  `gorm:"column:confirmed_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Active reports whether the order still belongs to the working set.
// Confirmed orders are history only.
func (o Order) Active() bool {
	return o.Status != OrderStatusConfirmed
}
