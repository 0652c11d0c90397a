package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/obadahasan/souqgateway/internal/model"
)

var ErrUserNotFound = errors.New("USER_NOT_FOUND")

// ErrNoRowsAffected signals that a guarded conditional update matched
// nothing. The guard is the authoritative arbiter for races: callers
// translate it into the precondition failure their flow implies.
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type UserAccountRepository interface {
	Upsert(ctx context.Context, account *model.UserAccount) error
	FindByID(userID string) (model.UserAccount, error)
	AdjustBalance(ctx context.Context, userID string, delta float64) error
}

type UserAccount struct {
	db *gorm.DB
}

func NewUserAccountRepository(db *gorm.DB) UserAccountRepository {
	return &UserAccount{db: db}
}

// Upsert creates the account on first contact and refreshes name and
// last_seen afterwards. The balance column is never touched here.
func (r *UserAccount) Upsert(ctx context.Context, account *model.UserAccount) error {
	db := GetTx(ctx, r.db)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_seen"}),
	}).Create(account).Error
}

func (r *UserAccount) FindByID(userID string) (model.UserAccount, error) {
	var account model.UserAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.UserAccount{}, ErrUserNotFound
		}
		return model.UserAccount{}, err
	}
	return account, nil
}

// AdjustBalance applies a relative balance change in a single guarded
// UPDATE. Debits carry a balance >= |delta| predicate so a concurrent
// spend can never drive the balance negative; a miss surfaces as
// ErrNoRowsAffected.
func (r *UserAccount) AdjustBalance(ctx context.Context, userID string, delta float64) error {
	db := GetTx(ctx, r.db)

	query := db.Model(&model.UserAccount{}).Where("user_id = ?", userID)
	if delta < 0 {
		query = query.Where("balance >= ?", -delta)
	}

	result := query.Updates(map[string]interface{}{
		"balance":    gorm.Expr("balance + ?", delta),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
