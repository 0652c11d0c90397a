package v1

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/middleware"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/internal/service"
)

type Handler struct {
	logger     *zap.Logger
	cfg        *config.Config
	verifier   service.Verifier
	ledger     service.Ledger
	catalog    service.Catalog
	escrow     service.Escrow
	vault      service.Vault
	dispatcher notify.Dispatcher
}

func NewHandler(logger *zap.Logger, cfg *config.Config, verifier service.Verifier,
	ledger service.Ledger, catalog service.Catalog, escrow service.Escrow,
	vault service.Vault, dispatcher notify.Dispatcher) *Handler {
	return &Handler{
		logger:     logger,
		cfg:        cfg,
		verifier:   verifier,
		ledger:     ledger,
		catalog:    catalog,
		escrow:     escrow,
		vault:      vault,
		dispatcher: dispatcher,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Verify exchanges a bot-issued one-time code for a bearer token.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var request VerifyRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, err)
	}

	session, err := h.verifier.RedeemCode(request.UserID, request.Code)
	if err != nil {
		h.logger.Warn("Code verification failed",
			zap.Error(err),
			zap.String("userID", request.UserID))
		return err
	}

	token, err := h.issueToken(session)
	if err != nil {
		h.logger.Error("Failed to sign session token",
			zap.Error(err),
			zap.String("userID", session.UserID))
		return service.NewServiceError(constants.ErrCodeInternalError, err)
	}

	balance, err := h.ledger.GetBalance(session.UserID)
	if err != nil {
		return err
	}

	h.logger.Info("Web session opened", zap.String("userID", session.UserID))

	return c.JSON(VerifyResponse{
		Token:   token,
		UserID:  session.UserID,
		Name:    session.Name,
		Balance: balance,
	})
}

func (h *Handler) Balance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	balance, err := h.ledger.GetBalance(userID)
	if err != nil {
		return err
	}

	return c.JSON(BalanceResponse{UserID: userID, Balance: balance})
}

func (h *Handler) Products(c *fiber.Ctx) error {
	products, err := h.catalog.ListAvailable()
	if err != nil {
		return err
	}

	resp := GetProductsResponse{Products: make([]ProductResponse, 0, len(products)), Total: len(products)}
	for _, p := range products {
		resp.Products = append(resp.Products, ProductResponse{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Price:      p.Price,
			Category:   p.Category,
			SellerName: p.SellerName,
		})
	}

	return c.JSON(resp)
}

// Purchase runs the escrow purchase and hands the payload both back on
// the wire and to the buyer's Telegram chat.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	var request PurchaseRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, err)
	}

	cmd := service.CreateOrderCommand{
		BuyerID:   middleware.UserID(c),
		BuyerName: middleware.UserName(c),
		ProductID: request.ProductID,
	}

	result, err := h.escrow.CreateOrder(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.dispatcher.DeliverPayload(c.UserContext(), result.Order)

	return c.Status(fiber.StatusCreated).JSON(PurchaseResponse{
		OrderID:    result.Order.OrderID,
		ItemName:   result.Order.ItemName,
		Price:      result.Order.Price,
		Payload:    result.Order.Payload,
		NewBalance: result.NewBalance,
	})
}

func (h *Handler) Charge(c *fiber.Ctx) error {
	var request ChargeRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, err)
	}

	cmd := service.RedeemKeyCommand{Code: request.Key, UserID: middleware.UserID(c)}

	result, err := h.vault.RedeemKey(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(ChargeResponse{Amount: result.Amount, NewBalance: result.NewBalance})
}

func (h *Handler) Orders(c *fiber.Ctx) error {
	orders, err := h.escrow.BuyerOrders(middleware.UserID(c))
	if err != nil {
		return err
	}

	resp := GetOrdersResponse{Orders: make([]OrderResponse, 0, len(orders)), Total: len(orders)}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, OrderResponse{
			OrderID:   o.OrderID,
			ItemName:  o.ItemName,
			Price:     o.Price,
			Status:    string(o.Status),
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(resp)
}

func (h *Handler) issueToken(session service.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":  session.UserID,
		"name": session.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(h.cfg.Auth.PrivateKey))
}

func (h *Handler) badRequest(c *fiber.Ctx, err error) error {
	h.logger.Warn("Failed to parse body",
		zap.Error(err),
		zap.String("body", string(c.Body())))

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    constants.ErrCodeInvalidRequestBody,
		"message": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
	})
}
