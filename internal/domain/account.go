// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// AccountID is the stable identifier the store assigns to an account.
// It is never reused and stays valid for the life of the process.
type AccountID int64

// Account represents a ledger entry: a username, its PIN credential and a balance.
type Account struct {
	ID        AccountID       `json:"id"`
	Username  string          `json:"username"` // Unique, case-sensitive
	PIN       string          `json:"-"`        // 4 ASCII digits kept as text to preserve leading zeros
	Balance   decimal.Decimal `json:"balance"`  // Never negative
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAccount creates a new Account instance. The ID is assigned by the store.
func NewAccount(username, pin string, initialBalance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		Username:  username,
		PIN:       pin,
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a copy of the account that callers may keep or modify
// without affecting the stored one.
func (a *Account) Snapshot() *Account {
	cp := *a
	return &cp
}
