// internal/repository/memory/account_mem.go
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"atm-ledger/internal/domain"
	"atm-ledger/internal/repository"
	"atm-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// AccountRepository implements repository.AccountRepository in process memory.
// Accounts live in an append-only arena indexed by ID-1; a username index
// maps keys to IDs.
type AccountRepository struct {
	mu         sync.RWMutex
	accounts   []*domain.Account
	byUsername map[string]domain.AccountID
}

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return newAccountRepository()
}

func newAccountRepository() *AccountRepository {
	return &AccountRepository{
		byUsername: make(map[string]domain.AccountID),
	}
}

// CreateAccount appends the account to the arena and sets account.ID.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[account.Username]; exists {
		return util.ErrDuplicateUsername
	}

	id := domain.AccountID(len(r.accounts) + 1)
	stored := account.Snapshot()
	stored.ID = id
	r.accounts = append(r.accounts, stored)
	r.byUsername[stored.Username] = id

	account.ID = id
	return nil
}

// GetAccountByID retrieves a copy of the account with the given ID.
func (r *AccountRepository) GetAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return account.Snapshot(), nil
}

// GetAccountByUsername retrieves a copy of the account registered under username.
func (r *AccountRepository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, util.ErrNotFound
	}
	account, err := r.lookup(id)
	if err != nil {
		return nil, fmt.Errorf("username index points at missing account %d: %w", id, err)
	}
	return account.Snapshot(), nil
}

// AdjustBalance applies delta to the balance while holding the write lock.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id domain.AccountID, delta decimal.Decimal) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, util.ErrInsufficientFunds
	}
	account.Balance = newBalance
	account.UpdatedAt = time.Now().UTC()
	return account.Snapshot(), nil
}

// CountAccounts returns the arena size.
func (r *AccountRepository) CountAccounts(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}

// lookup must be called with r.mu held.
func (r *AccountRepository) lookup(id domain.AccountID) (*domain.Account, error) {
	if id < 1 || int(id) > len(r.accounts) {
		return nil, util.ErrAccountNotFound
	}
	return r.accounts[id-1], nil
}
