// internal/service/atm_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"atm-ledger/internal/domain"
	"atm-ledger/internal/repository"
	"atm-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// ATMService defines the interface for the ATM's account business logic.
type ATMService interface {
	Register(ctx context.Context, username, pin string, initialBalance decimal.Decimal) (*domain.Account, error)
	Authenticate(ctx context.Context, username, pin string) (*domain.Account, error)
	Login(ctx context.Context, username, pin string) (*Session, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	GetBalance(ctx context.Context, accountID domain.AccountID) (decimal.Decimal, error)
	Deposit(ctx context.Context, accountID domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error)
}

// atmService implements the ATMService interface.
type atmService struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// NewATMService creates a new instance of ATMService.
func NewATMService(accountRepo repository.AccountRepository, logger *slog.Logger) ATMService {
	if logger == nil {
		logger = util.GetLogger()
	}
	return &atmService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Register creates a new account after checking the username and the caller's
// pre-validated PIN and initial balance.
func (s *atmService) Register(ctx context.Context, username, pin string, initialBalance decimal.Decimal) (*domain.Account, error) {
	if username == "" {
		return nil, util.ErrEmptyUsername
	}

	_, err := s.accountRepo.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrDuplicateUsername
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing account: %w", err)
	}

	if !domain.IsValidPIN(pin) {
		return nil, util.ErrInvalidPIN
	}
	if initialBalance.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidAmount
	}

	account := domain.NewAccount(username, pin, initialBalance)
	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		if util.IsError(err, util.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("register: failed to create account: %w", err)
	}

	s.logger.Info("Account registered", "account_id", account.ID, "username", username)
	registered := account.Snapshot()
	registered.PIN = ""
	return registered, nil
}

// Authenticate verifies a username/PIN pair. Unknown usernames and wrong PINs
// produce the same error.
func (s *atmService) Authenticate(ctx context.Context, username, pin string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(ctx, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			s.logger.Info("Authentication failed", "username", username)
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: failed to look up account: %w", err)
	}
	if account.PIN != pin {
		s.logger.Info("Authentication failed", "username", username)
		return nil, util.ErrInvalidCredentials
	}
	account.PIN = "" // The caller only needs the ID and a view for display
	return account, nil
}

// UsernameTaken reports whether an account is already registered under username.
func (s *atmService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.accountRepo.GetAccountByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if util.IsError(err, util.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("username taken: failed to look up account: %w", err)
}

// Login authenticates and opens a Session bound to the account's ID.
func (s *atmService) Login(ctx context.Context, username, pin string) (*Session, error) {
	account, err := s.Authenticate(ctx, username, pin)
	if err != nil {
		return nil, err
	}
	session := newSession(s, account)
	s.logger.Info("Session opened", "session_id", session.ID, "account_id", account.ID, "username", account.Username)
	return session, nil
}

// GetBalance returns the current balance of an account.
func (s *atmService) GetBalance(ctx context.Context, accountID domain.AccountID) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: failed to get account %d: %w", accountID, err)
	}
	return account.Balance, nil
}

// Deposit adds money to an account and returns the new balance.
func (s *atmService) Deposit(ctx context.Context, accountID domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, util.ErrInvalidAmount
	}

	updated, err := s.accountRepo.AdjustBalance(ctx, accountID, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposit: failed to update balance of account %d: %w", accountID, err)
	}

	s.logger.Info("Deposit completed", "account_id", accountID, "amount", amount.String())
	return updated.Balance, nil
}

// Withdraw takes money from an account and returns the new balance.
// An empty account is rejected before the amount is looked at.
func (s *atmService) Withdraw(ctx context.Context, accountID domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw: failed to get account %d: %w", accountID, err)
	}
	if account.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, util.ErrInsufficientFunds
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, util.ErrInvalidAmount
	}
	if amount.GreaterThan(account.Balance) {
		s.logger.Info("Withdrawal rejected", "account_id", accountID, "amount", amount.String(), "reason", "insufficient funds")
		return decimal.Zero, util.ErrInsufficientFunds
	}

	// The repository re-checks the balance under its lock.
	updated, err := s.accountRepo.AdjustBalance(ctx, accountID, amount.Neg())
	if err != nil {
		if util.IsError(err, util.ErrInsufficientFunds) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("withdraw: failed to update balance of account %d: %w", accountID, err)
	}

	s.logger.Info("Withdrawal completed", "account_id", accountID, "amount", amount.String())
	return updated.Balance, nil
}
