package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/obadahasan/souqgateway/internal/model"
)

var ErrChargeKeyNotFound = errors.New("CHARGE_KEY_NOT_FOUND")
var ErrChargeKeyDuplicate = errors.New("CHARGE_KEY_DUPLICATE")

type ChargeKeyRepository interface {
	Create(ctx context.Context, key *model.ChargeKey) error
	GetByCode(code string) (model.ChargeKey, error)
	MarkUsed(ctx context.Context, code, redeemerID string) error
	Stats() (ChargeKeyStats, error)
}

type ChargeKeyStats struct {
	Active           int64
	Used             int64
	OutstandingValue float64
}

type ChargeKey struct {
	db *gorm.DB
}

func NewChargeKeyRepository(db *gorm.DB) ChargeKeyRepository {
	return &ChargeKey{db: db}
}

// Create inserts a freshly generated key. A primary-key collision is
// reported as ErrChargeKeyDuplicate so the vault can regenerate
// instead of overwriting a live key.
func (r *ChargeKey) Create(ctx context.Context, key *model.ChargeKey) error {
	db := GetTx(ctx, r.db)

	err := db.Create(key).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrChargeKeyDuplicate
	}

	return err
}

func (r *ChargeKey) GetByCode(code string) (model.ChargeKey, error) {
	var key model.ChargeKey

	err := r.db.Where("code = ?", code).First(&key).Error
	if err == nil {
		return key, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ChargeKey{}, ErrChargeKeyNotFound
	}

	return model.ChargeKey{}, err
}

// MarkUsed burns the key with a used = false guard. Two concurrent
// redemptions resolve to one success and one ErrNoRowsAffected.
func (r *ChargeKey) MarkUsed(ctx context.Context, code, redeemerID string) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	result := db.Model(&model.ChargeKey{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]interface{}{
			"used":        true,
			"redeemer_id": redeemerID,
			"redeemed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *ChargeKey) Stats() (ChargeKeyStats, error) {
	var stats ChargeKeyStats

	err := r.db.Model(&model.ChargeKey{}).
		Where("used = ?", false).
		Count(&stats.Active).Error
	if err != nil {
		return ChargeKeyStats{}, err
	}

	err = r.db.Model(&model.ChargeKey{}).
		Where("used = ?", true).
		Count(&stats.Used).Error
	if err != nil {
		return ChargeKeyStats{}, err
	}

	var value *float64
	err = r.db.Model(&model.ChargeKey{}).
		Select("SUM(amount)").
		Where("used = ?", false).
		Scan(&value).Error
	if err != nil {
		return ChargeKeyStats{}, err
	}

	if value != nil {
		stats.OutstandingValue = *value
	}

	return stats, nil
}
