package model

import "time"

type Product struct {
	ProductID  string     `gorm:"column:product_id;primaryKey;type:varchar(64)"`
	Name       string     `gorm:"column:name;type:varchar(255);not null"`
	Price      float64    `gorm:"column:price;not null"`
	SellerID   string     `gorm:"column:seller_id;type:varchar(32);not null"`
	SellerName string     `gorm:"column:seller_name;type:varchar(128)"`
	Category   string     `gorm:"column:category;type:varchar(64)"`
	// Payload is the sensitive delivery data handed to the buyer
	// after purchase (credentials, redemption codes and the like).
	Payload   string     `gorm:"column:payload;type:text"`
	Sold      bool       `gorm:"column:sold;not null;default:false"`
	BuyerID   *string    `gorm:"column:buyer_id;type:varchar(32)"`
	BuyerName *string    `gorm:"column:buyer_name;type:varchar(128)"`
	SoldAt    *time.Time `gorm:"column:sold_at"`
	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string {
	return "products"
}
