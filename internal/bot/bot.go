package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/tucnak/telebot.v2"

	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/constants"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/internal/service"
)

// Bot is the interactive Telegram front end: commands for users and
// the operator, and the claim/complete/confirm callback affordances.
type Bot struct {
	tele     *telebot.Bot
	cfg      *config.Config
	ledger   service.Ledger
	verifier service.Verifier
	vault    service.Vault
	escrow   service.Escrow
	roster   service.Roster
	flow     *service.ProductFlow
	logger   *zap.Logger
}

func New(tele *telebot.Bot, cfg *config.Config, ledger service.Ledger, verifier service.Verifier,
	vault service.Vault, escrow service.Escrow, roster service.Roster, flow *service.ProductFlow,
	logger *zap.Logger) *Bot {
	return &Bot{
		tele:     tele,
		cfg:      cfg,
		ledger:   ledger,
		verifier: verifier,
		vault:    vault,
		escrow:   escrow,
		roster:   roster,
		flow:     flow,
		logger:   logger,
	}
}

// Start registers all handlers and blocks on the long poller.
func (b *Bot) Start() {
	b.tele.Handle("/start", b.handleStart)
	b.tele.Handle("/code", b.handleCode)
	b.tele.Handle("/balance", b.handleBalance)
	b.tele.Handle("/redeem", b.handleRedeem)
	b.tele.Handle("/generate", b.handleGenerate)
	b.tele.Handle("/keys", b.handleKeyStats)
	b.tele.Handle("/add", b.handleManualCredit)
	b.tele.Handle("/add_admin", b.handleAddFulfiller)
	b.tele.Handle("/remove_admin", b.handleRemoveFulfiller)
	b.tele.Handle("/list_admins", b.handleListFulfillers)
	b.tele.Handle("/add_product", b.handleAddProduct)
	b.tele.Handle("/cancel", b.handleCancel)
	b.tele.Handle("/orders", b.handleActiveOrders)
	b.tele.Handle(telebot.OnText, b.handleText)

	b.tele.Handle(&telebot.InlineButton{Unique: notify.BtnClaim}, b.handleClaim)
	b.tele.Handle(&telebot.InlineButton{Unique: notify.BtnComplete}, b.handleComplete)
	b.tele.Handle(&telebot.InlineButton{Unique: notify.BtnBuyerConfirm}, b.handleBuyerConfirm)

	b.tele.Start()
}

func (b *Bot) Stop() {
	b.tele.Stop()
}

func (b *Bot) handleStart(m *telebot.Message) {
	userID := strconv.Itoa(m.Sender.ID)

	cmd := service.RegisterContactCommand{UserID: userID, Name: m.Sender.FirstName}
	if err := b.ledger.RegisterContact(context.Background(), cmd); err != nil {
		b.reply(m, "Registration failed, try again later.")
		return
	}

	balance, _ := b.ledger.GetBalance(userID)
	b.reply(m, fmt.Sprintf("Welcome to the shop, %s!\n\nYour balance: %.2f\n\nUse /code to log in on the web, /redeem <key> to top up.",
		m.Sender.FirstName, balance))
}

func (b *Bot) handleCode(m *telebot.Message) {
	userID := strconv.Itoa(m.Sender.ID)
	code := b.verifier.IssueCode(userID, m.Sender.FirstName)

	b.reply(m, fmt.Sprintf("Your login code: %s\n\nIt is valid for 10 minutes and works once.", code))
}

func (b *Bot) handleBalance(m *telebot.Message) {
	balance, err := b.ledger.GetBalance(strconv.Itoa(m.Sender.ID))
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	b.reply(m, fmt.Sprintf("Your balance: %.2f", balance))
}

func (b *Bot) handleRedeem(m *telebot.Message) {
	parts := strings.Fields(m.Text)
	if len(parts) < 2 {
		b.reply(m, "Usage: /redeem KEY-12345-6789")
		return
	}

	cmd := service.RedeemKeyCommand{Code: parts[1], UserID: strconv.Itoa(m.Sender.ID)}
	result, err := b.vault.RedeemKey(context.Background(), cmd)
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	b.reply(m, fmt.Sprintf("Balance charged!\n\nAdded: %.2f\nYour balance: %.2f", result.Amount, result.NewBalance))
}

func (b *Bot) handleGenerate(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	parts := strings.Fields(m.Text)
	if len(parts) < 2 {
		b.reply(m, "Usage: /generate <amount> [count]")
		return
	}

	amount, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		b.reply(m, "The amount must be a number.")
		return
	}

	count := 1
	if len(parts) > 2 {
		count, err = strconv.Atoi(parts[2])
		if err != nil {
			b.reply(m, "The count must be a whole number.")
			return
		}
	}

	codes, genErr := b.vault.GenerateKeys(context.Background(), service.GenerateKeysCommand{Amount: amount, Count: count})
	if genErr != nil {
		b.reply(m, b.errorText(genErr))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated %d key(s) worth %.2f each:\n\n", len(codes), amount)
	for _, code := range codes {
		sb.WriteString(code)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nRedeem with /redeem <key>.")

	b.reply(m, sb.String())
}

func (b *Bot) handleKeyStats(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	stats, err := b.vault.Stats()
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	b.reply(m, fmt.Sprintf("Charge keys\n\nActive: %d\nUsed: %d\nOutstanding value: %.2f",
		stats.Active, stats.Used, stats.OutstandingValue))
}

func (b *Bot) handleManualCredit(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	parts := strings.Fields(m.Text)
	if len(parts) < 3 {
		b.reply(m, "Usage: /add <user id> <amount>")
		return
	}

	delta, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		b.reply(m, "The amount must be a number.")
		return
	}

	balance, adjErr := b.ledger.Adjust(context.Background(), service.AdjustBalanceCommand{UserID: parts[1], Delta: delta})
	if adjErr != nil {
		b.reply(m, b.errorText(adjErr))
		return
	}

	b.reply(m, fmt.Sprintf("Done. New balance for %s: %.2f", parts[1], balance))
}

func (b *Bot) handleAddFulfiller(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	parts := strings.Fields(m.Text)
	if len(parts) < 2 {
		b.reply(m, "Usage: /add_admin <user id> [name]")
		return
	}

	name := ""
	if len(parts) > 2 {
		name = strings.Join(parts[2:], " ")
	}

	cmd := service.AddFulfillerCommand{UserID: parts[1], Name: name, AddedBy: strconv.Itoa(m.Sender.ID)}
	if err := b.roster.Add(context.Background(), cmd); err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	b.reply(m, fmt.Sprintf("%s can now claim orders.", parts[1]))
}

func (b *Bot) handleRemoveFulfiller(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	parts := strings.Fields(m.Text)
	if len(parts) < 2 {
		b.reply(m, "Usage: /remove_admin <user id>")
		return
	}

	if err := b.roster.Remove(context.Background(), parts[1]); err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	b.reply(m, fmt.Sprintf("%s removed from the roster.", parts[1]))
}

func (b *Bot) handleListFulfillers(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for the owner only.")
		return
	}

	fulfillers, err := b.roster.List()
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	if len(fulfillers) == 0 {
		b.reply(m, "The roster is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Fulfiller roster:\n\n")
	for _, f := range fulfillers {
		fmt.Fprintf(&sb, "- %s %s\n", f.UserID, f.Name)
	}

	b.reply(m, sb.String())
}

func (b *Bot) handleAddProduct(m *telebot.Message) {
	if !b.isOperator(m.Sender.ID) {
		b.reply(m, "Only the owner can list products.")
		return
	}

	b.reply(m, b.flow.Start(strconv.Itoa(m.Sender.ID), m.Sender.FirstName))
}

func (b *Bot) handleCancel(m *telebot.Message) {
	if b.flow.Cancel(strconv.Itoa(m.Sender.ID)) {
		b.reply(m, "Cancelled. Nothing was saved.")
		return
	}

	b.reply(m, "Nothing to cancel.")
}

func (b *Bot) handleActiveOrders(m *telebot.Message) {
	userID := strconv.Itoa(m.Sender.ID)

	isFulfiller, err := b.roster.IsFulfiller(userID)
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	if !isFulfiller && !b.isOperator(m.Sender.ID) {
		b.reply(m, "This command is for fulfillers only.")
		return
	}

	orders, err := b.escrow.ActiveOrders()
	if err != nil {
		b.reply(m, b.errorText(err))
		return
	}

	if len(orders) == 0 {
		b.reply(m, "No active orders.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Active orders:\n\n")
	for _, o := range orders {
		fmt.Fprintf(&sb, "#%s  %s  %.2f  [%s]\n", o.OrderID, o.ItemName, o.Price, o.Status)
	}

	b.reply(m, sb.String())
}

// handleText feeds plain messages into an in-progress product flow.
func (b *Bot) handleText(m *telebot.Message) {
	userID := strconv.Itoa(m.Sender.ID)
	if !b.flow.Active(userID) {
		return
	}

	reply, _, err := b.flow.Input(context.Background(), userID, m.Text)
	if err != nil {
		b.logger.Error("Product flow input failed", zap.Error(err), zap.String("userID", userID))
	}

	if reply != "" {
		b.reply(m, reply)
	}
}

func (b *Bot) handleClaim(c *telebot.Callback) {
	orderID := strings.TrimSpace(c.Data)
	fulfillerID := strconv.Itoa(c.Sender.ID)

	result, err := b.escrow.ClaimOrder(context.Background(), service.ClaimOrderCommand{
		OrderID:     orderID,
		FulfillerID: fulfillerID,
	})
	if err != nil {
		b.respond(c, b.errorText(err), true)
		return
	}

	order := result.Order

	// Replace the offer with a claimed summary; the worker deletes the
	// other fulfillers' offers.
	if c.Message != nil {
		_, _ = b.tele.Edit(c.Message, fmt.Sprintf(
			"Order #%s claimed.\n\nItem: %s\nPrice: %.2f\n\nYou are responsible for this order.",
			order.OrderID, order.ItemName, order.Price))
	}

	payload := order.Payload
	if payload == "" {
		payload = "no delivery data attached to this item"
	}

	completeBtn := telebot.InlineButton{Unique: notify.BtnComplete, Text: "Delivered to buyer", Data: order.OrderID}
	markup := &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{{completeBtn}}}

	_, sendErr := b.tele.Send(c.Sender, fmt.Sprintf(
		"Order #%s delivery data\n\nItem: %s\nBuyer: %s (%s)\n\n%s\n\nFulfill the order, then press the button below.",
		order.OrderID, order.ItemName, order.BuyerName, order.BuyerID, payload), markup)
	if sendErr != nil {
		b.logger.Error("Failed to send order payload to fulfiller",
			zap.Error(sendErr),
			zap.String("orderID", order.OrderID),
			zap.String("fulfillerID", fulfillerID))
	}

	b.respond(c, "Order claimed! Check your private messages.", false)
}

func (b *Bot) handleComplete(c *telebot.Callback) {
	orderID := strings.TrimSpace(c.Data)
	fulfillerID := strconv.Itoa(c.Sender.ID)

	result, err := b.escrow.CompleteOrder(context.Background(), service.CompleteOrderCommand{
		OrderID:     orderID,
		FulfillerID: fulfillerID,
	})
	if err != nil {
		b.respond(c, b.errorText(err), true)
		return
	}

	// Scrub the payload from the fulfiller's chat once delivered.
	if c.Message != nil {
		_, _ = b.tele.Edit(c.Message, fmt.Sprintf(
			"Order #%s completed. The delivery data was removed for safety.", result.Order.OrderID))
	}

	b.respond(c, "Order completed, seller credited.", false)
}

func (b *Bot) handleBuyerConfirm(c *telebot.Callback) {
	orderID := strings.TrimSpace(c.Data)
	buyerID := strconv.Itoa(c.Sender.ID)

	result, err := b.escrow.ConfirmOrder(context.Background(), service.ConfirmOrderCommand{
		OrderID: orderID,
		BuyerID: buyerID,
	})
	if err != nil {
		b.respond(c, b.errorText(err), true)
		return
	}

	if result.AlreadyConfirmed {
		b.respond(c, "This order was already confirmed. Thank you!", false)
		return
	}

	if c.Message != nil {
		_, _ = b.tele.Edit(c.Message, "Thanks for confirming! The order is complete. Enjoy!")
	}

	b.respond(c, "Thank you!", false)
}

func (b *Bot) isOperator(senderID int) bool {
	return int64(senderID) == b.cfg.Market.OperatorID
}

func (b *Bot) reply(m *telebot.Message, text string) {
	if _, err := b.tele.Send(m.Sender, text); err != nil {
		b.logger.Warn("Failed to send reply",
			zap.Error(err),
			zap.Int("chatID", m.Sender.ID))
	}
}

func (b *Bot) respond(c *telebot.Callback, text string, alert bool) {
	err := b.tele.Respond(c, &telebot.CallbackResponse{Text: text, ShowAlert: alert})
	if err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) errorText(err error) string {
	var serviceErr service.Error
	if errors.As(err, &serviceErr) {
		if msg := constants.GetErrorMessage(serviceErr.Code); msg != "" {
			return msg
		}
	}

	return "Something went wrong, try again later."
}
