package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVerifier(now *time.Time) *verifier {
	return &verifier{
		logger: zap.NewNop(),
		now:    func() time.Time { return *now },
		codes:  map[string]codeEntry{},
	}
}

func TestVerifier_RedeemCode(t *testing.T) {
	t.Run("redeems a fresh code exactly once", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		code := v.IssueCode("7001", "Omar")
		require.Len(t, code, 6)

		session, err := v.RedeemCode("7001", code)
		require.NoError(t, err)
		assert.Equal(t, "7001", session.UserID)
		assert.Equal(t, "Omar", session.Name)

		_, err = v.RedeemCode("7001", code)
		assert.ErrorIs(t, err, ErrCodeNotIssued)
	})

	t.Run("returns not issued for unknown user", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		_, err := v.RedeemCode("7002", "123456")
		assert.ErrorIs(t, err, ErrCodeNotIssued)
	})

	t.Run("rejects a wrong code without burning it", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		code := v.IssueCode("7003", "Sara")

		_, err := v.RedeemCode("7003", "000000")
		assert.ErrorIs(t, err, ErrCodeMismatch)

		session, err := v.RedeemCode("7003", code)
		require.NoError(t, err)
		assert.Equal(t, "7003", session.UserID)
	})

	t.Run("rejects a code past its lifetime", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		code := v.IssueCode("7004", "Lina")

		now = now.Add(601 * time.Second)

		_, err := v.RedeemCode("7004", code)
		assert.ErrorIs(t, err, ErrCodeExpired)

		// The expired entry is gone, not just stale.
		_, err = v.RedeemCode("7004", code)
		assert.ErrorIs(t, err, ErrCodeNotIssued)
	})

	t.Run("accepts a code just inside its lifetime", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		code := v.IssueCode("7005", "Nour")

		now = now.Add(599 * time.Second)

		session, err := v.RedeemCode("7005", code)
		require.NoError(t, err)
		assert.Equal(t, "7005", session.UserID)
	})

	t.Run("a new code replaces the previous one", func(t *testing.T) {
		now := time.Now()
		v := newTestVerifier(&now)

		first := v.IssueCode("7006", "Hadi")
		second := v.IssueCode("7006", "Hadi")

		if first != second {
			_, err := v.RedeemCode("7006", first)
			assert.ErrorIs(t, err, ErrCodeMismatch)
		}

		session, err := v.RedeemCode("7006", second)
		require.NoError(t, err)
		assert.Equal(t, "7006", session.UserID)
	})
}
