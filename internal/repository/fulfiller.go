package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/obadahasan/souqgateway/internal/model"
)

var ErrFulfillerExists = errors.New("FULFILLER_EXISTS")
var ErrFulfillerNotFound = errors.New("FULFILLER_NOT_FOUND")

type FulfillerRepository interface {
	Create(ctx context.Context, fulfiller *model.Fulfiller) error
	Delete(ctx context.Context, userID string) error
	List() ([]model.Fulfiller, error)
	Exists(userID string) (bool, error)
}

type Fulfiller struct {
	db *gorm.DB
}

func NewFulfillerRepository(db *gorm.DB) FulfillerRepository {
	return &Fulfiller{db: db}
}

func (r *Fulfiller) Create(ctx context.Context, fulfiller *model.Fulfiller) error {
	db := GetTx(ctx, r.db)

	err := db.Create(fulfiller).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrFulfillerExists
	}

	return err
}

func (r *Fulfiller) Delete(ctx context.Context, userID string) error {
	db := GetTx(ctx, r.db)

	result := db.Where("user_id = ?", userID).Delete(&model.Fulfiller{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFulfillerNotFound
	}

	return nil
}

func (r *Fulfiller) List() ([]model.Fulfiller, error) {
	var fulfillers []model.Fulfiller

	if err := r.db.Order("created_at ASC").Find(&fulfillers).Error; err != nil {
		return nil, err
	}

	return fulfillers, nil
}

func (r *Fulfiller) Exists(userID string) (bool, error) {
	var count int64

	err := r.db.Model(&model.Fulfiller{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
