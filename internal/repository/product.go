package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/obadahasan/souqgateway/internal/model"
)

var ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
var ErrProductDuplicate = errors.New("PRODUCT_DUPLICATE")

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(productID string) (model.Product, error)
	ListAvailable() ([]model.Product, error)
	MarkSold(ctx context.Context, productID, buyerID, buyerName string) error
}

type Product struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &Product{db: db}
}

func (r *Product) Create(ctx context.Context, product *model.Product) error {
	db := GetTx(ctx, r.db)

	err := db.Create(product).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrProductDuplicate
	}

	return err
}

func (r *Product) GetByID(productID string) (model.Product, error) {
	var product model.Product

	err := r.db.Where("product_id = ?", productID).First(&product).Error
	if err == nil {
		return product, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, ErrProductNotFound
	}

	return model.Product{}, err
}

func (r *Product) ListAvailable() ([]model.Product, error) {
	var products []model.Product

	err := r.db.Where("sold = ?", false).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

// MarkSold flips sold exactly once. The sold = false predicate is the
// compare-and-swap that decides which of two racing buyers wins; the
// loser sees ErrNoRowsAffected.
func (r *Product) MarkSold(ctx context.Context, productID, buyerID, buyerName string) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	result := db.Model(&model.Product{}).
		Where("product_id = ? AND sold = ?", productID, false).
		Updates(map[string]interface{}{
			"sold":       true,
			"buyer_id":   buyerID,
			"buyer_name": buyerName,
			"sold_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
