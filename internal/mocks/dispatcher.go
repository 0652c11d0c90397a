package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/model"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) BroadcastClaimOffer(ctx context.Context, order model.Order, fulfillerIDs []string) {
	m.Called(ctx, order, fulfillerIDs)
}

func (m *Dispatcher) RetractClaimOffers(ctx context.Context, orderID, winnerID string) {
	m.Called(ctx, orderID, winnerID)
}

func (m *Dispatcher) NotifySellerPaid(ctx context.Context, order model.Order) {
	m.Called(ctx, order)
}

func (m *Dispatcher) SendConfirmRequest(ctx context.Context, order model.Order) {
	m.Called(ctx, order)
}

func (m *Dispatcher) DeliverPayload(ctx context.Context, order model.Order) {
	m.Called(ctx, order)
}

func (m *Dispatcher) NotifyOperator(ctx context.Context, text string) {
	m.Called(ctx, text)
}
