package service

import "github.com/obadahasan/souqgateway/internal/model"

type RegisterContactCommand struct {
	UserID string
	Name   string
}

type AdjustBalanceCommand struct {
	UserID string
	Delta  float64
}

type CreateOrderCommand struct {
	BuyerID   string
	BuyerName string
	ProductID string
}

type ClaimOrderCommand struct {
	OrderID     string
	FulfillerID string
}

type CompleteOrderCommand struct {
	OrderID     string
	FulfillerID string
}

type ConfirmOrderCommand struct {
	OrderID string
	BuyerID string
}

type GenerateKeysCommand struct {
	Amount float64
	Count  int
}

type RedeemKeyCommand struct {
	Code   string
	UserID string
}

type CreateProductCommand struct {
	Name       string
	Price      float64
	Category   string
	Payload    string
	SellerID   string
	SellerName string
}

type AddFulfillerCommand struct {
	UserID  string
	Name    string
	AddedBy string
}

type PurchaseResult struct {
	Order      model.Order
	NewBalance float64
}

type ClaimResult struct {
	Order model.Order
}

type CompleteResult struct {
	Order model.Order
}

type ConfirmResult struct {
	AlreadyConfirmed bool
}

type RedeemResult struct {
	Amount     float64
	NewBalance float64
}

// Session is the identity binding returned by a successful
// verification-code redemption.
type Session struct {
	UserID string
	Name   string
}
