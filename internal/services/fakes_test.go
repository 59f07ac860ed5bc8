package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"account-pool-system.com/account-pool-system/internal/constants"
	model "account-pool-system.com/account-pool-system/internal/models"
	repository "account-pool-system.com/account-pool-system/internal/repositories"
)

// fakeStore is an in-memory AccountStore that records how it was used.
type fakeStore struct {
	mu       sync.Mutex
	accounts []*model.Account
	byNumber map[string]*model.Account

	findCalls   int
	claimCalls  int
	insertCalls int
	inserted    []string
	assigned    []string

	markAssignedErr error
	insertErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byNumber: make(map[string]*model.Account)}
}

func (f *fakeStore) seed(accountNumber string, status constants.AccountStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := &model.Account{
		ID:            uint(len(f.accounts) + 1),
		AccountNumber: accountNumber,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	f.accounts = append(f.accounts, a)
	f.byNumber[accountNumber] = a
}

func (f *fakeStore) status(accountNumber string) constants.AccountStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.byNumber[accountNumber]; ok {
		return a.Status
	}
	return ""
}

func (f *fakeStore) replenishCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.findCalls + f.claimCalls + f.insertCalls
}

func (f *fakeStore) FindFirstUnused(_ context.Context) (*model.Account, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++
	for _, a := range f.accounts {
		if a.Status == constants.StatusUnused {
			cp := *a
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeStore) ClaimOneUnused(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.claimCalls++
	for _, a := range f.accounts {
		if a.Status == constants.StatusUnused {
			a.Status = constants.StatusPending
			return a.AccountNumber, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) MarkAssigned(ctx context.Context, accountNumber string) error {
	f.mu.Lock()
	err := f.markAssignedErr
	f.mu.Unlock()
	if err != nil {
		return err
	}

	if err := f.SetStatus(ctx, accountNumber, constants.StatusAssigned); err != nil {
		return err
	}

	f.mu.Lock()
	f.assigned = append(f.assigned, accountNumber)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) MarkUnused(ctx context.Context, accountNumber string) error {
	return f.SetStatus(ctx, accountNumber, constants.StatusUnused)
}

func (f *fakeStore) SetStatus(_ context.Context, accountNumber string, status constants.AccountStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.byNumber[accountNumber]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeStore) Insert(_ context.Context, accountNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.byNumber[accountNumber]; ok {
		return repository.ErrDuplicateAccount
	}

	a := &model.Account{
		ID:            uint(len(f.accounts) + 1),
		AccountNumber: accountNumber,
		Status:        constants.StatusUnused,
		CreatedAt:     time.Now().UTC(),
	}
	f.accounts = append(f.accounts, a)
	f.byNumber[accountNumber] = a
	f.inserted = append(f.inserted, accountNumber)
	return nil
}

func (f *fakeStore) FindByNumber(_ context.Context, accountNumber string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.byNumber[accountNumber]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// scriptedGenerator returns its numbers in order and panics when exhausted.
type scriptedGenerator struct {
	mu      sync.Mutex
	numbers []string
	calls   int
}

func (g *scriptedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.numbers[g.calls]
	g.calls++
	return n
}

var errStoreUnavailable = errors.New("store unavailable")
