package model

import "time"

type UserAccount struct {
	UserID    string    `gorm:"column:user_id;primaryKey;type:varchar(32)"`
	Name      string    `gorm:"column:name;type:varchar(128)"`
	Balance   float64   `gorm:"column:balance;not null;default:0"`
	LastSeen  time.Time `gorm:"column:last_seen"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}
