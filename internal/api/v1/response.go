package v1

type VerifyResponse struct {
	Token   string  `json:"token"`
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type BalanceResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

type PurchaseResponse struct {
	OrderID    string  `json:"order_id"`
	ItemName   string  `json:"item_name"`
	Price      float64 `json:"price"`
	Payload    string  `json:"payload"`
	NewBalance float64 `json:"new_balance"`
}

type ChargeResponse struct {
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

type GetProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

type ProductResponse struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
	SellerName string  `json:"seller_name"`
}

type GetOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type OrderResponse struct {
	OrderID   string  `json:"order_id"`
	ItemName  string  `json:"item_name"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}
