package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"account-pool-system.com/account-pool-system/internal/constants"
	model "account-pool-system.com/account-pool-system/internal/models"
)

//go:embed sql/postgres_schema.sql
var postgresSchemaSQL string

const pgUniqueViolation = "23505"

const (
	findFirstUnusedSQL = `
SELECT id, account_number, status, created_at
FROM account_entity
WHERE status = $1
ORDER BY created_at ASC, id ASC
LIMIT 1`

	claimOneUnusedSQL = `
UPDATE account_entity
SET status = $2
WHERE id = (
    SELECT id FROM account_entity
    WHERE status = $1
    ORDER BY created_at ASC, id ASC
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING account_number`

	setStatusSQL = `UPDATE account_entity SET status = $2 WHERE account_number = $1`

	insertSQL = `INSERT INTO account_entity (account_number, status, created_at) VALUES ($1, $2, now())`

	findByNumberSQL = `
SELECT id, account_number, status, created_at
FROM account_entity
WHERE account_number = $1`

	releasePendingSQL = `UPDATE account_entity SET status = $2 WHERE status = $1`
)

// PgAccountRepository talks to PostgreSQL directly through pgx. The claim is
// a single UPDATE ... FOR UPDATE SKIP LOCKED statement so concurrent
// processes never wait on, or double-claim, the same row.
type PgAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPgAccountRepository(pool *pgxpool.Pool) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

// Setup creates the account table and its indexes when missing.
func (r *PgAccountRepository) Setup(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchemaSQL); err != nil {
		return fmt.Errorf("create account table: %w", err)
	}
	return nil
}

func (r *PgAccountRepository) FindFirstUnused(ctx context.Context) (*model.Account, bool, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, findFirstUnusedSQL, constants.StatusUnused))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find first unused account: %w", err)
	}
	return account, true, nil
}

func (r *PgAccountRepository) ClaimOneUnused(ctx context.Context) (string, bool, error) {
	var accountNumber string
	err := r.pool.QueryRow(ctx, claimOneUnusedSQL, constants.StatusUnused, constants.StatusPending).Scan(&accountNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("claim unused account: %w", err)
	}
	return accountNumber, true, nil
}

func (r *PgAccountRepository) MarkAssigned(ctx context.Context, accountNumber string) error {
	return r.SetStatus(ctx, accountNumber, constants.StatusAssigned)
}

func (r *PgAccountRepository) MarkUnused(ctx context.Context, accountNumber string) error {
	return r.SetStatus(ctx, accountNumber, constants.StatusUnused)
}

func (r *PgAccountRepository) SetStatus(ctx context.Context, accountNumber string, status constants.AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid account status %q", status)
	}

	tag, err := r.pool.Exec(ctx, setStatusSQL, accountNumber, status)
	if err != nil {
		return fmt.Errorf("set status of account %s to %s: %w", accountNumber, status, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PgAccountRepository) Insert(ctx context.Context, accountNumber string) error {
	_, err := r.pool.Exec(ctx, insertSQL, accountNumber, constants.StatusUnused)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("insert account %s: %w", accountNumber, err)
	}
	return nil
}

func (r *PgAccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, findByNumberSQL, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account %s: %w", accountNumber, err)
	}
	return account, nil
}

func (r *PgAccountRepository) ReleasePending(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, releasePendingSQL, constants.StatusPending, constants.StatusUnused)
	if err != nil {
		return 0, fmt.Errorf("release pending accounts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		account model.Account
		id      int64
		status  string
	)
	if err := row.Scan(&id, &account.AccountNumber, &status, &account.CreatedAt); err != nil {
		return nil, err
	}
	account.ID = uint(id)
	account.Status = constants.AccountStatus(status)
	return &account, nil
}
