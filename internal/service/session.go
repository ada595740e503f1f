// internal/service/session.go
package service

import (
	"context"
	"sync"

	"atm-ledger/internal/domain"
	"atm-ledger/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is an authenticated interaction bound to one account.
// It holds the account's stable ID, never a pointer into the store.
type Session struct {
	ID        string
	AccountID domain.AccountID
	Username  string

	svc    ATMService
	mu     sync.Mutex
	closed bool
}

func newSession(svc ATMService, account *domain.Account) *Session {
	return &Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Username:  account.Username,
		svc:       svc,
	}
}

// Balance returns the current balance of the session's account.
func (s *Session) Balance(ctx context.Context) (decimal.Decimal, error) {
	if err := s.checkOpen(); err != nil {
		return decimal.Zero, err
	}
	return s.svc.GetBalance(ctx, s.AccountID)
}

// Deposit adds amount to the session's account.
func (s *Session) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkOpen(); err != nil {
		return decimal.Zero, err
	}
	return s.svc.Deposit(ctx, s.AccountID, amount)
}

// Withdraw takes amount from the session's account.
func (s *Session) Withdraw(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkOpen(); err != nil {
		return decimal.Zero, err
	}
	return s.svc.Withdraw(ctx, s.AccountID, amount)
}

// Logout closes the session. It is safe to call more than once.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Logout has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) checkOpen() error {
	if s.Closed() {
		return util.ErrSessionClosed
	}
	return nil
}
