package model

import "time"

// Fulfiller is an operator-delegated account allowed to claim and
// execute pending orders.
type Fulfiller struct {
	UserID    string    `gorm:"column:user_id;primaryKey;type:varchar(32)"`
	Name      string    `gorm:"column:name;type:varchar(128)"`
	AddedBy   string    `gorm:"column:added_by;type:varchar(32)"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Fulfiller) TableName() string {
	return "fulfillers"
}
