package consumers

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/pkg/mq"
)

// Messenger is the delivery surface the worker needs from Telegram.
type Messenger interface {
	Send(chatID int64, text string) (int, error)
	SendWithButton(chatID int64, text, label, unique, data string) (int, error)
	Delete(chatID int64, messageID int) error
}

type NotifyConsumer interface {
	Consume(ctx context.Context) error
}

type offerRef struct {
	chatID    int64
	messageID int
}

type notifyConsumer struct {
	consumer  mq.Consumer
	messenger Messenger
	logger    *zap.Logger

	// offers remembers which fulfiller got which claim-offer message
	// for an order, so a claim can retract the losers' buttons. Local
	// state only: if it is lost the stale buttons stay visible but the
	// status guard still rejects their claims.
	mu     sync.Mutex
	offers map[string][]offerRef
}

func NewNotifyConsumer(consumer mq.Consumer, messenger Messenger, logger *zap.Logger) NotifyConsumer {
	return &notifyConsumer{
		consumer:  consumer,
		messenger: messenger,
		logger:    logger,
		offers:    map[string][]offerRef{},
	}
}

func (n *notifyConsumer) Consume(ctx context.Context) error {
	return n.consumer.Consume(ctx, 1, notify.Queue, n.handle)
}

func (n *notifyConsumer) handle(ctx context.Context, body []byte) error {
	var event notify.Event
	if err := json.Unmarshal(body, &event); err != nil {
		n.logger.Warn("Dropping malformed notification", zap.Error(err))
		return nil
	}

	switch event.Type {
	case notify.EventClaimOffer:
		n.handleClaimOffer(event)
	case notify.EventRetractClaims:
		n.handleRetract(event)
	case notify.EventConfirmRequest:
		n.handleButtonSend(event)
	case notify.EventPayload:
		n.handlePayload(event)
	case notify.EventPlain:
		n.handlePlain(event)
	default:
		n.logger.Warn("Dropping notification of unknown type", zap.String("type", event.Type))
	}

	// Delivery failures are logged inside the handlers and never
	// requeued: the underlying ledger mutation already succeeded and a
	// redelivery would double-post for the recipients that did get it.
	return nil
}

func (n *notifyConsumer) handleClaimOffer(event notify.Event) {
	if event.Button == nil {
		n.logger.Warn("Claim offer without a button", zap.String("orderID", event.OrderID))
		return
	}

	msgID, err := n.messenger.SendWithButton(event.ChatID, event.Text,
		event.Button.Label, event.Button.Unique, event.Button.Data)
	if err != nil {
		n.logger.Error("Failed to deliver claim offer",
			zap.Error(err),
			zap.Int64("chatID", event.ChatID),
			zap.String("orderID", event.OrderID))
		return
	}

	n.mu.Lock()
	n.offers[event.OrderID] = append(n.offers[event.OrderID], offerRef{chatID: event.ChatID, messageID: msgID})
	n.mu.Unlock()
}

func (n *notifyConsumer) handleRetract(event notify.Event) {
	n.mu.Lock()
	refs := n.offers[event.OrderID]
	delete(n.offers, event.OrderID)
	n.mu.Unlock()

	for _, ref := range refs {
		// The winner's message is edited by the bot itself when it
		// answers the callback; only the losers' offers go away.
		if ref.chatID == event.ChatID {
			continue
		}

		if err := n.messenger.Delete(ref.chatID, ref.messageID); err != nil {
			n.logger.Warn("Failed to retract claim offer",
				zap.Error(err),
				zap.Int64("chatID", ref.chatID),
				zap.String("orderID", event.OrderID))
		}
	}
}

func (n *notifyConsumer) handleButtonSend(event notify.Event) {
	if event.Button == nil {
		n.handlePlain(event)
		return
	}

	_, err := n.messenger.SendWithButton(event.ChatID, event.Text,
		event.Button.Label, event.Button.Unique, event.Button.Data)
	if err != nil {
		n.logger.Error("Failed to deliver notification",
			zap.Error(err),
			zap.Int64("chatID", event.ChatID),
			zap.String("type", event.Type))
	}
}

// handlePayload falls back to the operator when the buyer is
// unreachable, so the delivery data is never silently lost.
func (n *notifyConsumer) handlePayload(event notify.Event) {
	if event.ChatID != 0 {
		_, err := n.messenger.Send(event.ChatID, event.Text)
		if err == nil {
			return
		}

		n.logger.Error("Failed to deliver payload to buyer",
			zap.Error(err),
			zap.Int64("chatID", event.ChatID),
			zap.String("orderID", event.OrderID))
	}

	if event.FallbackChatID == 0 {
		return
	}

	if _, err := n.messenger.Send(event.FallbackChatID,
		"Buyer unreachable, hand-deliver this order:\n\n"+event.Text); err != nil {
		n.logger.Error("Failed to deliver payload to operator",
			zap.Error(err),
			zap.String("orderID", event.OrderID))
	}
}

func (n *notifyConsumer) handlePlain(event notify.Event) {
	if _, err := n.messenger.Send(event.ChatID, event.Text); err != nil {
		n.logger.Error("Failed to deliver notification",
			zap.Error(err),
			zap.Int64("chatID", event.ChatID),
			zap.String("type", event.Type))
	}
}
