// internal/repository/account_repo.go
package repository

import (
	"context"

	"atm-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
// Implementations hand out copies; a returned *domain.Account never aliases stored state.
type AccountRepository interface {
	// CreateAccount stores a new account and assigns its ID.
	// It returns util.ErrDuplicateUsername if the username is already taken.
	CreateAccount(ctx context.Context, account *domain.Account) error
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	// GetAccountByUsername retrieves an account by its exact, case-sensitive username.
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	// AdjustBalance adds delta to the balance of an account in one atomic step.
	// A change that would make the balance negative fails with util.ErrInsufficientFunds
	// and leaves the account untouched.
	AdjustBalance(ctx context.Context, id domain.AccountID, delta decimal.Decimal) (*domain.Account, error)
	// CountAccounts returns the number of stored accounts.
	CountAccounts(ctx context.Context) (int, error)
}
