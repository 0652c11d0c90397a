package v1

type VerifyRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

type PurchaseRequest struct {
	ProductID string `json:"product_id"`
}

type ChargeRequest struct {
	Key string `json:"key"`
}
