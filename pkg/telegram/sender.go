package telegram

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/tucnak/telebot.v2"
)

// NewBot creates a long-polling bot for the interactive front end.
func NewBot(token string, pollTimeout int) (*telebot.Bot, error) {
	if pollTimeout <= 0 {
		pollTimeout = 10
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: time.Duration(pollTimeout) * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return bot, nil
}

// NewSendOnlyBot creates a bot without a poller. Used by the notify
// worker, which only delivers messages; updates are consumed by the
// interactive bot process.
func NewSendOnlyBot(token string) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token, Synchronous: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return bot, nil
}

// Sender is a thin delivery wrapper over telebot used wherever the
// application only needs to push messages to a chat id.
type Sender struct {
	bot *telebot.Bot
}

func NewSender(bot *telebot.Bot) *Sender {
	return &Sender{bot: bot}
}

func (s *Sender) Send(chatID int64, text string) (int, error) {
	msg, err := s.bot.Send(telebot.ChatID(chatID), text)
	if err != nil {
		return 0, err
	}

	return msg.ID, nil
}

// SendWithButton sends text with a single inline button. The unique
// part routes the callback to the handler the interactive bot
// registered for it; data carries the entity id.
func (s *Sender) SendWithButton(chatID int64, text, label, unique, data string) (int, error) {
	btn := telebot.InlineButton{Unique: unique, Text: label, Data: data}
	markup := &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{{btn}}}

	msg, err := s.bot.Send(telebot.ChatID(chatID), text, markup)
	if err != nil {
		return 0, err
	}

	return msg.ID, nil
}

func (s *Sender) Edit(chatID int64, messageID int, text string) error {
	ref := &telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := s.bot.Edit(ref, text)
	return err
}

func (s *Sender) Delete(chatID int64, messageID int) error {
	ref := &telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	return s.bot.Delete(ref)
}
