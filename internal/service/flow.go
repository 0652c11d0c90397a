package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type FlowStep string

const (
	StepName     FlowStep = "name"
	StepPrice    FlowStep = "price"
	StepCategory FlowStep = "category"
	StepPayload  FlowStep = "payload"
	StepConfirm  FlowStep = "confirm"
)

// ProductFlow collects a new product listing over several messages.
// Each user has at most one flow in progress, keyed by user id, with
// an explicit cancel; the state is process-local and simply evaporates
// on restart.
type ProductFlow struct {
	catalog Catalog
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*flowSession
}

type flowSession struct {
	step  FlowStep
	draft CreateProductCommand
}

func NewProductFlow(catalog Catalog, logger *zap.Logger) *ProductFlow {
	return &ProductFlow{
		catalog:  catalog,
		logger:   logger,
		sessions: map[string]*flowSession{},
	}
}

// Start opens a flow for the user, replacing any abandoned one.
func (f *ProductFlow) Start(sellerID, sellerName string) string {
	f.mu.Lock()
	f.sessions[sellerID] = &flowSession{
		step:  StepName,
		draft: CreateProductCommand{SellerID: sellerID, SellerName: sellerName},
	}
	f.mu.Unlock()

	return "Let's list a new product. What is the product name?\n(Send /cancel to stop at any time.)"
}

func (f *ProductFlow) Active(userID string) bool {
	f.mu.Lock()
	_, ok := f.sessions[userID]
	f.mu.Unlock()
	return ok
}

func (f *ProductFlow) Cancel(userID string) bool {
	f.mu.Lock()
	_, ok := f.sessions[userID]
	delete(f.sessions, userID)
	f.mu.Unlock()
	return ok
}

// Input feeds one message into the flow and returns the next prompt.
// done is true when the flow finished (created or rejected the
// product) and the session was discarded.
func (f *ProductFlow) Input(ctx context.Context, userID, text string) (reply string, done bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[userID]
	if !ok {
		return "", true, nil
	}

	text = strings.TrimSpace(text)

	switch session.step {
	case StepName:
		if text == "" {
			return "The name cannot be empty. What is the product name?", false, nil
		}
		session.draft.Name = text
		session.step = StepPrice
		return "Got it. What is the price?", false, nil

	case StepPrice:
		price, convErr := strconv.ParseFloat(text, 64)
		if convErr != nil || price <= 0 {
			return "Please send the price as a positive number.", false, nil
		}
		session.draft.Price = price
		session.step = StepCategory
		return "Which category does it belong to?", false, nil

	case StepCategory:
		session.draft.Category = text
		session.step = StepPayload
		return "Now send the delivery data (credentials, codes). It is shown only to the buyer and the assigned fulfiller.", false, nil

	case StepPayload:
		session.draft.Payload = text
		session.step = StepConfirm
		return fmt.Sprintf("Review the listing:\n\nName: %s\nPrice: %.2f\nCategory: %s\n\nSend 'yes' to publish or /cancel to drop it.",
			session.draft.Name, session.draft.Price, session.draft.Category), false, nil

	case StepConfirm:
		if !strings.EqualFold(text, "yes") {
			return "Send 'yes' to publish or /cancel to drop it.", false, nil
		}

		product, createErr := f.catalog.CreateProduct(ctx, session.draft)
		delete(f.sessions, userID)
		if createErr != nil {
			f.logger.Error("Product flow failed at creation",
				zap.Error(createErr),
				zap.String("sellerID", userID))
			return "Could not publish the listing, nothing was saved. Try again later.", true, createErr
		}

		return fmt.Sprintf("Published! %s is now listed for %.2f.", product.Name, product.Price), true, nil
	}

	delete(f.sessions, userID)
	return "", true, nil
}
