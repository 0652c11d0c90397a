package notify_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/mocks"
	"github.com/obadahasan/souqgateway/internal/model"
	"github.com/obadahasan/souqgateway/internal/notify"
)

func decodeEvents(t *testing.T, publisher *mocks.Publisher) []notify.Event {
	t.Helper()

	var events []notify.Event
	for _, call := range publisher.Calls {
		if call.Method != "Publish" {
			continue
		}

		var event notify.Event
		require.NoError(t, json.Unmarshal(call.Arguments.Get(3).([]byte), &event))
		events = append(events, event)
	}

	return events
}

func TestDispatcher_BroadcastClaimOffer(t *testing.T) {
	logger := zap.NewNop()

	order := model.Order{
		OrderID:   "ORD_000001",
		BuyerID:   "6001",
		BuyerName: "Buyer",
		SellerID:  "9001",
		ItemName:  "Streaming account",
		Price:     40,
		Payload:   "user:pass",
	}

	t.Run("queues one offer per fulfiller with a claim button", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		publisher.On("Publish", mock.Anything, "", notify.Queue, mock.Anything).Return(nil)

		dispatcher := notify.NewDispatcher(publisher, 1, logger)
		dispatcher.BroadcastClaimOffer(context.Background(), order, []string{"8001", "8002"})

		events := decodeEvents(t, publisher)
		require.Len(t, events, 2)

		assert.Equal(t, int64(8001), events[0].ChatID)
		assert.Equal(t, int64(8002), events[1].ChatID)

		for _, event := range events {
			assert.Equal(t, notify.EventClaimOffer, event.Type)
			assert.Equal(t, "ORD_000001", event.OrderID)
			require.NotNil(t, event.Button)
			assert.Equal(t, notify.BtnClaim, event.Button.Unique)
			assert.Equal(t, "ORD_000001", event.Button.Data)
			// The offer must never leak the payload.
			assert.NotContains(t, event.Text, "user:pass")
		}
	})

	t.Run("skips recipients whose id is not a chat id", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		publisher.On("Publish", mock.Anything, "", notify.Queue, mock.Anything).Return(nil)

		dispatcher := notify.NewDispatcher(publisher, 1, logger)
		dispatcher.BroadcastClaimOffer(context.Background(), order, []string{"not-a-number", "8001"})

		events := decodeEvents(t, publisher)
		require.Len(t, events, 1)
		assert.Equal(t, int64(8001), events[0].ChatID)
	})
}

func TestDispatcher_DeliverPayload(t *testing.T) {
	logger := zap.NewNop()

	t.Run("routes the payload to the buyer with the operator as fallback", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		publisher.On("Publish", mock.Anything, "", notify.Queue, mock.Anything).Return(nil)

		dispatcher := notify.NewDispatcher(publisher, 42, logger)
		dispatcher.DeliverPayload(context.Background(), model.Order{
			OrderID:  "ORD_000002",
			BuyerID:  "6001",
			ItemName: "Gift card",
			Price:    15,
			Payload:  "CODE-XYZ",
		})

		events := decodeEvents(t, publisher)
		require.Len(t, events, 1)

		assert.Equal(t, notify.EventPayload, events[0].Type)
		assert.Equal(t, int64(6001), events[0].ChatID)
		assert.Equal(t, int64(42), events[0].FallbackChatID)
		assert.Contains(t, events[0].Text, "CODE-XYZ")
	})
}

func TestDispatcher_SendConfirmRequest(t *testing.T) {
	logger := zap.NewNop()

	t.Run("asks the buyer to confirm with a button", func(t *testing.T) {
		publisher := &mocks.Publisher{}
		publisher.On("Publish", mock.Anything, "", notify.Queue, mock.Anything).Return(nil)

		dispatcher := notify.NewDispatcher(publisher, 1, logger)
		dispatcher.SendConfirmRequest(context.Background(), model.Order{
			OrderID:  "ORD_000003",
			BuyerID:  "6001",
			ItemName: "Gift card",
		})

		events := decodeEvents(t, publisher)
		require.Len(t, events, 1)

		assert.Equal(t, notify.EventConfirmRequest, events[0].Type)
		require.NotNil(t, events[0].Button)
		assert.Equal(t, notify.BtnBuyerConfirm, events[0].Button.Unique)
		assert.Equal(t, "ORD_000003", events[0].Button.Data)
	})
}

func TestDispatcher_NotifyOperator(t *testing.T) {
	logger := zap.NewNop()

	t.Run("drops operator notices when no operator is configured", func(t *testing.T) {
		publisher := &mocks.Publisher{}

		dispatcher := notify.NewDispatcher(publisher, 0, logger)
		dispatcher.NotifyOperator(context.Background(), "key redeemed")

		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
