package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"account-pool-system.com/account-pool-system/internal/constants"
	model "account-pool-system.com/account-pool-system/internal/models"
)

// AccountRepository is the gorm backed account store. On SQLite the locking
// clause is dropped by the dialector and the claim relies on SQLite's
// single-writer transactions instead.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindFirstUnused(ctx context.Context) (*model.Account, bool, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("status = ?", constants.StatusUnused).
		Order("created_at asc").Order("id asc").
		Limit(1).Find(&account).Error
	if err != nil {
		return nil, false, fmt.Errorf("find first unused account: %w", err)
	}
	if account.ID == 0 {
		return nil, false, nil
	}

	return &account, true, nil
}

func (r *AccountRepository) ClaimOneUnused(ctx context.Context) (string, bool, error) {
	var claimed string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account model.Account
		err := r.lockForClaim(tx).
			Where("status = ?", constants.StatusUnused).
			Order("created_at asc").Order("id asc").
			Limit(1).Find(&account).Error
		if err != nil {
			return err
		}
		if account.ID == 0 {
			return nil
		}

		res := tx.Model(&model.Account{}).
			Where("id = ? AND status = ?", account.ID, constants.StatusUnused).
			Update("status", constants.StatusPending)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			claimed = account.AccountNumber
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("claim unused account: %w", err)
	}

	return claimed, claimed != "", nil
}

func (r *AccountRepository) MarkAssigned(ctx context.Context, accountNumber string) error {
	return r.SetStatus(ctx, accountNumber, constants.StatusAssigned)
}

func (r *AccountRepository) MarkUnused(ctx context.Context, accountNumber string) error {
	return r.SetStatus(ctx, accountNumber, constants.StatusUnused)
}

func (r *AccountRepository) SetStatus(ctx context.Context, accountNumber string, status constants.AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid account status %q", status)
	}

	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("account_number = ?", accountNumber).
		Update("status", status)

	if res.Error != nil {
		return fmt.Errorf("set status of account %s to %s: %w", accountNumber, status, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Insert(ctx context.Context, accountNumber string) error {
	account := &model.Account{
		AccountNumber: accountNumber,
		Status:        constants.StatusUnused,
		CreatedAt:     time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("insert account %s: %w", accountNumber, err)
	}

	return nil
}

func (r *AccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).First(&account, "account_number = ?", accountNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account %s: %w", accountNumber, err)
	}
	return &account, nil
}

// ReleasePending flips every PENDING account back to UNUSED and reports how
// many rows changed.
func (r *AccountRepository) ReleasePending(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("status = ?", constants.StatusPending).
		Update("status", constants.StatusUnused)

	if res.Error != nil {
		return 0, fmt.Errorf("release pending accounts: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// lockForClaim adds FOR UPDATE SKIP LOCKED on dialects with row locks.
func (r *AccountRepository) lockForClaim(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
}

// isDuplicateKey relies on the gorm.Config TranslateError option.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
