package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/constants"
)

// codeTTL is how long an issued verification code stays redeemable.
const codeTTL = 600 * time.Second

var ErrCodeNotIssued = errors.New("CODE_NOT_ISSUED")
var ErrCodeExpired = errors.New("CODE_EXPIRED")
var ErrCodeMismatch = errors.New("CODE_MISMATCH")

// Verifier issues and redeems the one-time numeric codes that bind a
// web session to a Telegram identity. Codes live in process memory
// only; losing them on restart just means the user requests a new one.
type Verifier interface {
	IssueCode(userID, name string) string
	RedeemCode(userID, submitted string) (Session, error)
}

type codeEntry struct {
	code     string
	name     string
	issuedAt time.Time
}

type verifier struct {
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	codes map[string]codeEntry
}

func NewVerifier(logger *zap.Logger) Verifier {
	return &verifier{
		logger: logger,
		now:    time.Now,
		codes:  map[string]codeEntry{},
	}
}

// IssueCode replaces any earlier code for the user; only the latest
// one is ever valid.
func (v *verifier) IssueCode(userID, name string) string {
	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	v.mu.Lock()
	v.codes[userID] = codeEntry{code: code, name: name, issuedAt: v.now()}
	v.mu.Unlock()

	v.logger.Info("Verification code issued", zap.String("userID", userID))

	return code
}

// RedeemCode consumes the code on first success. An expired entry is
// discarded on sight so it cannot be matched later.
func (v *verifier) RedeemCode(userID, submitted string) (Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.codes[userID]
	if !ok {
		return Session{}, NewServiceError(constants.ErrCodeCodeNotFound, ErrCodeNotIssued)
	}

	if v.now().Sub(entry.issuedAt) > codeTTL {
		delete(v.codes, userID)
		v.logger.Info("Verification code expired", zap.String("userID", userID))
		return Session{}, NewServiceError(constants.ErrCodeCodeExpired, ErrCodeExpired)
	}

	if entry.code != submitted {
		return Session{}, NewServiceError(constants.ErrCodeCodeMismatch, ErrCodeMismatch)
	}

	delete(v.codes, userID)

	v.logger.Info("Verification code redeemed", zap.String("userID", userID))

	return Session{UserID: userID, Name: entry.name}, nil
}
