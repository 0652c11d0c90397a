package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/pkg/mq"
)

// Dispatcher queues state-change messages for buyers, sellers,
// fulfillers and the operator. Delivery is fire-and-forget: a failure
// to enqueue is logged and never surfaces to the ledger mutation that
// triggered it.
type Dispatcher interface {
	BroadcastClaimOffer(ctx context.Context, order model.Order, fulfillerIDs []string)
	RetractClaimOffers(ctx context.Context, orderID, winnerID string)
	NotifySellerPaid(ctx context.Context, order model.Order)
	SendConfirmRequest(ctx context.Context, order model.Order)
	DeliverPayload(ctx context.Context, order model.Order)
	NotifyOperator(ctx context.Context, text string)
}

type dispatcher struct {
	publisher  mq.Publisher
	operatorID int64
	logger     *zap.Logger
}

func NewDispatcher(publisher mq.Publisher, operatorID int64, logger *zap.Logger) Dispatcher {
	return &dispatcher{publisher: publisher, operatorID: operatorID, logger: logger}
}

func (d *dispatcher) BroadcastClaimOffer(ctx context.Context, order model.Order, fulfillerIDs []string) {
	text := fmt.Sprintf("New order #%s\n\nItem: %s\nPrice: %.2f\nBuyer: %s\n\nFirst to claim fulfills it.",
		order.OrderID, order.ItemName, order.Price, order.BuyerName)

	for _, id := range fulfillerIDs {
		chatID, ok := d.chatID(id)
		if !ok {
			continue
		}

		d.publish(ctx, Event{
			Type:    EventClaimOffer,
			ChatID:  chatID,
			Text:    text,
			OrderID: order.OrderID,
			Button:  &Button{Label: "Claim this order", Unique: BtnClaim, Data: order.OrderID},
		})
	}
}

func (d *dispatcher) RetractClaimOffers(ctx context.Context, orderID, winnerID string) {
	winner, _ := d.chatID(winnerID)
	d.publish(ctx, Event{Type: EventRetractClaims, OrderID: orderID, ChatID: winner})
}

func (d *dispatcher) NotifySellerPaid(ctx context.Context, order model.Order) {
	chatID, ok := d.chatID(order.SellerID)
	if !ok {
		return
	}

	d.publish(ctx, Event{
		Type:   EventPlain,
		ChatID: chatID,
		Text: fmt.Sprintf("Your item sold!\n\nItem: %s\nAmount: %.2f\n\nThe amount was credited to your balance.",
			order.ItemName, order.Price),
	})
}

func (d *dispatcher) SendConfirmRequest(ctx context.Context, order model.Order) {
	chatID, ok := d.chatID(order.BuyerID)
	if !ok {
		return
	}

	d.publish(ctx, Event{
		Type:    EventConfirmRequest,
		ChatID:  chatID,
		OrderID: order.OrderID,
		Text: fmt.Sprintf("Your order #%s was fulfilled!\n\nItem: %s\n\nPlease check your account and confirm delivery.",
			order.OrderID, order.ItemName),
		Button: &Button{Label: "Confirm delivery", Unique: BtnBuyerConfirm, Data: order.OrderID},
	})
}

// DeliverPayload pushes the sensitive fulfillment data to the buyer.
// If the worker cannot reach the buyer the operator receives it for
// hand delivery.
func (d *dispatcher) DeliverPayload(ctx context.Context, order model.Order) {
	chatID, ok := d.chatID(order.BuyerID)
	if !ok {
		chatID = 0
	}

	payload := order.Payload
	if payload == "" {
		payload = "no delivery data attached to this item"
	}

	d.publish(ctx, Event{
		Type:           EventPayload,
		ChatID:         chatID,
		FallbackChatID: d.operatorID,
		OrderID:        order.OrderID,
		Text: fmt.Sprintf("Purchase successful!\n\nItem: %s\nPrice: %.2f\nOrder: #%s\n\nDelivery data:\n%s\n\nKeep this somewhere safe.",
			order.ItemName, order.Price, order.OrderID, payload),
	})
}

func (d *dispatcher) NotifyOperator(ctx context.Context, text string) {
	if d.operatorID == 0 {
		return
	}

	d.publish(ctx, Event{Type: EventPlain, ChatID: d.operatorID, Text: text})
}

func (d *dispatcher) publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("Failed to encode notification", zap.Error(err), zap.String("type", event.Type))
		return
	}

	if err := d.publisher.Publish(ctx, "", Queue, body); err != nil {
		d.logger.Error("Failed to queue notification",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.Int64("chatID", event.ChatID))
	}
}

func (d *dispatcher) chatID(userID string) (int64, bool) {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		d.logger.Warn("Recipient id is not a chat id", zap.String("userID", userID))
		return 0, false
	}
	return chatID, true
}
