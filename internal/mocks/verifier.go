package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/obadahasan/souqgateway/internal/service"
)

type Verifier struct {
	mock.Mock
}

func (m *Verifier) IssueCode(userID, name string) string {
	args := m.Called(userID, name)
	return args.String(0)
}

func (m *Verifier) RedeemCode(userID, submitted string) (service.Session, error) {
	args := m.Called(userID, submitted)
	return args.Get(0).(service.Session), args.Error(1)
}
