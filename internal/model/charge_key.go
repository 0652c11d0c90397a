package model

import "time"

type ChargeKey struct {
	Code       string     `gorm:"column:code;primaryKey;type:varchar(32)"`
	Amount     float64    `gorm:"column:amount;not null"`
	Used       bool       `gorm:"column:used;not null;default:false"`
	RedeemerID *string    `gorm:"column:redeemer_id;type:varchar(32)"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at"`
}

func (ChargeKey) TableName() string {
	return "charge_keys"
}
