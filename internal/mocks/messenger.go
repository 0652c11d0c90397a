package mocks

import (
	"github.com/stretchr/testify/mock"
)

type Messenger struct {
	mock.Mock
}

func (m *Messenger) Send(chatID int64, text string) (int, error) {
	args := m.Called(chatID, text)
	return args.Int(0), args.Error(1)
}

func (m *Messenger) SendWithButton(chatID int64, text, label, unique, data string) (int, error) {
	args := m.Called(chatID, text, label, unique, data)
	return args.Int(0), args.Error(1)
}

func (m *Messenger) Delete(chatID int64, messageID int) error {
	args := m.Called(chatID, messageID)
	return args.Error(0)
}
