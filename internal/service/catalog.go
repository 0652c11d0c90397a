package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/repository"
)

var ErrInvalidPrice = errors.New("INVALID_PRICE")
var ErrMissingName = errors.New("MISSING_NAME")

// Catalog lists and creates products. Purchasing lives in Escrow;
// once sold a product is immutable here.
type Catalog interface {
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (model.Product, error)
	Get(productID string) (model.Product, error)
	ListAvailable() ([]model.Product, error)
}

type catalog struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCatalog(products repository.ProductRepository, logger *zap.Logger) Catalog {
	return &catalog{products: products, logger: logger}
}

func (c *catalog) CreateProduct(ctx context.Context, cmd CreateProductCommand) (model.Product, error) {
	if cmd.Name == "" {
		return model.Product{}, NewServiceError(constants.ErrCodeValidationFailed, ErrMissingName)
	}

	if cmd.Price <= 0 {
		return model.Product{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidPrice)
	}

	product := model.Product{
		ProductID:  uuid.NewString(),
		Name:       cmd.Name,
		Price:      cmd.Price,
		SellerID:   cmd.SellerID,
		SellerName: cmd.SellerName,
		Category:   cmd.Category,
		Payload:    cmd.Payload,
		CreatedAt:  time.Now(),
	}

	if err := c.products.Create(ctx, &product); err != nil {
		c.logger.Error("Failed to create product",
			zap.Error(err),
			zap.String("sellerID", cmd.SellerID))
		return model.Product{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	c.logger.Info("Product listed",
		zap.String("productID", product.ProductID),
		zap.String("name", product.Name),
		zap.Float64("price", product.Price))

	return product, nil
}

func (c *catalog) Get(productID string) (model.Product, error) {
	product, err := c.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, NewServiceError(constants.ErrCodeItemNotFound, err)
		}
		return model.Product{}, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return product, nil
}

func (c *catalog) ListAvailable() ([]model.Product, error) {
	products, err := c.products.ListAvailable()
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeStoreUnavailable, err)
	}

	return products, nil
}
