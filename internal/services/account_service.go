package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"account-pool-system.com/account-pool-system/internal/constants"
	model "account-pool-system.com/account-pool-system/internal/models"
	"account-pool-system.com/account-pool-system/internal/queue"
	repository "account-pool-system.com/account-pool-system/internal/repositories"
)

const DefaultBatchSize = 10

// AccountStore is the durable side of the pool. Status columns in the store
// are authoritative; the ready queue only caches claimable numbers.
type AccountStore interface {
	FindFirstUnused(ctx context.Context) (*model.Account, bool, error)
	ClaimOneUnused(ctx context.Context) (string, bool, error)
	MarkAssigned(ctx context.Context, accountNumber string) error
	MarkUnused(ctx context.Context, accountNumber string) error
	SetStatus(ctx context.Context, accountNumber string, status constants.AccountStatus) error
	Insert(ctx context.Context, accountNumber string) error
	FindByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
}

type AccountNumberGenerator interface {
	Generate() string
}

// AccountService hands out account numbers from the ready queue and refills
// the queue from the store when it runs dry.
//
// Each Allocate and Return runs as one critical section, store status update
// included, so a popped number is ASSIGNED before any other caller can look
// at the queue or the store. The store's row locks remain the only guard
// between processes.
type AccountService struct {
	mu sync.Mutex

	store     AccountStore
	queue     queue.ReadyQueue
	generator AccountNumberGenerator
	batchSize int
	strategy  constants.ReplenishStrategy
	logger    *zap.Logger
}

func NewAccountService(
	store AccountStore,
	readyQueue queue.ReadyQueue,
	generator AccountNumberGenerator,
	batchSize int,
	strategy constants.ReplenishStrategy,
	logger *zap.Logger,
) *AccountService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if !strategy.Valid() {
		strategy = constants.StrategyClaim
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AccountService{
		store:     store,
		queue:     readyQueue,
		generator: generator,
		batchSize: batchSize,
		strategy:  strategy,
		logger:    logger,
	}
}

// Allocate returns the next account number and marks it ASSIGNED. ok is
// false when the queue is empty and a replenish pass produced nothing.
//
// Queued numbers the store no longer knows are stale cache entries: they are
// dropped and the next one is tried. Replenish runs at most once per call.
func (s *AccountService) Allocate(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replenished := false
	for {
		empty, err := s.queue.IsEmpty(ctx)
		if err != nil {
			return "", false, fmt.Errorf("check ready queue: %w", err)
		}

		if empty {
			if replenished {
				return "", false, nil
			}
			if err := s.replenish(ctx); err != nil {
				return "", false, err
			}
			replenished = true
		}

		accountNumber, ok, err := s.queue.Pop(ctx)
		if err != nil {
			return "", false, fmt.Errorf("pop ready queue: %w", err)
		}
		if !ok {
			return "", false, nil
		}

		err = s.store.MarkAssigned(ctx, accountNumber)
		if err == nil {
			return accountNumber, true, nil
		}

		if errors.Is(err, repository.ErrAccountNotFound) {
			s.logger.Warn("dropping queued account unknown to the store",
				zap.String("account_number", accountNumber))
			continue
		}

		s.logger.Error("failed to mark account assigned",
			zap.String("account_number", accountNumber), zap.Error(err))
		s.requeue(ctx, accountNumber)
		return "", false, fmt.Errorf("mark account %s assigned: %w", accountNumber, err)
	}
}

// Return puts the account number back into the queue and marks it UNUSED.
// The push comes first; a store failure is reported to the caller.
func (s *AccountService) Return(ctx context.Context, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.queue.Push(ctx, accountNumber); err != nil {
		return fmt.Errorf("push returned account %s: %w", accountNumber, err)
	}

	if err := s.store.MarkUnused(ctx, accountNumber); err != nil {
		s.logger.Error("failed to restore returned account",
			zap.String("account_number", accountNumber), zap.Error(err))
		return fmt.Errorf("mark account %s unused: %w", accountNumber, err)
	}

	return nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountNumber string) (*model.Account, error) {
	return s.store.FindByNumber(ctx, accountNumber)
}

// replenish makes exactly one pass: recover a single existing UNUSED account
// or, failing that, try to insert batchSize fresh numbers. Duplicates are
// dropped and not retried.
func (s *AccountService) replenish(ctx context.Context) error {
	recovered, ok, err := s.recoverUnused(ctx)
	if err != nil {
		return err
	}

	if ok {
		if err := s.queue.Push(ctx, recovered); err != nil {
			s.restoreClaimed(ctx, recovered)
			return fmt.Errorf("push recovered account %s: %w", recovered, err)
		}
		return nil
	}

	s.logger.Warn("generating new accounts, ready queue is depleted", zap.Int("batch_size", s.batchSize))
	return s.generateNewAccounts(ctx)
}

func (s *AccountService) recoverUnused(ctx context.Context) (string, bool, error) {
	if s.strategy == constants.StrategyFind {
		account, ok, err := s.store.FindFirstUnused(ctx)
		if err != nil || !ok {
			return "", false, err
		}
		return account.AccountNumber, true, nil
	}

	return s.store.ClaimOneUnused(ctx)
}

func (s *AccountService) generateNewAccounts(ctx context.Context) error {
	for i := 0; i < s.batchSize; i++ {
		accountNumber := s.generator.Generate()

		if err := s.store.Insert(ctx, accountNumber); err != nil {
			if errors.Is(err, repository.ErrDuplicateAccount) {
				s.logger.Error("generated an existing account number, dropping it",
					zap.String("account_number", accountNumber))
				continue
			}
			return err
		}

		if err := s.queue.Push(ctx, accountNumber); err != nil {
			return fmt.Errorf("push generated account %s: %w", accountNumber, err)
		}
	}

	return nil
}

// requeue puts back a popped number whose store update failed for a reason
// other than the row being gone. Callers hold s.mu.
func (s *AccountService) requeue(ctx context.Context, accountNumber string) {
	if err := s.queue.Push(ctx, accountNumber); err != nil {
		s.logger.Error("failed to requeue account",
			zap.String("account_number", accountNumber), zap.Error(err))
	}
}

// restoreClaimed undoes a claim whose number never reached the queue.
func (s *AccountService) restoreClaimed(ctx context.Context, accountNumber string) {
	if s.strategy != constants.StrategyClaim {
		return
	}
	if err := s.store.MarkUnused(ctx, accountNumber); err != nil {
		s.logger.Error("failed to release claimed account",
			zap.String("account_number", accountNumber), zap.Error(err))
	}
}
