// internal/console/console_test.go
package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"atm-ledger/internal/repository/memory"
	"atm-ledger/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runScript feeds lines to a fresh console and returns what it printed.
func runScript(t *testing.T, svc service.ATMService, lines ...string) (string, *Console) {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := New(svc, in, &out, "SEK", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, StateTerminated, c.State())
	return out.String(), c
}

func newService(t *testing.T) service.ATMService {
	t.Helper()
	return service.NewATMService(memory.NewAccountRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConsoleFullSession(t *testing.T) {
	svc := newService(t)

	out, _ := runScript(t, svc,
		"1", "user", "1234", "1500.00", // register
		"2", "user", "1234", // login
		"2", "200.50", // deposit
		"1",            // balance
		"3", "2000",    // withdraw too much
		"3", "1700.50", // withdraw everything
		"3",            // withdraw from an empty account
		"4",            // logout
		"0",            // exit
	)

	assert.Contains(t, out, "Account created for 'user'.")
	assert.Contains(t, out, "Welcome, user!")
	assert.Contains(t, out, "ATM for user")
	assert.Contains(t, out, "Deposited 200.50 SEK.")
	assert.Contains(t, out, "Current balance: 1700.50 SEK")
	assert.Contains(t, out, "Insufficient funds. You only have 1700.50 SEK.")
	assert.Contains(t, out, "Withdrew 1700.50 SEK.")
	assert.Contains(t, out, "Current balance: 0.00 SEK")
	assert.Contains(t, out, "Insufficient funds.\n")
	assert.Contains(t, out, "Logging out...")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	// The empty-account withdrawal never asked for an amount.
	assert.Equal(t, 2, strings.Count(out, "Enter amount to withdraw"))

	account, err := svc.Authenticate(context.Background(), "user", "1234")
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())
}

func TestConsoleWrongCredentials(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), "user", "1234", decimal.NewFromInt(1500))
	require.NoError(t, err)

	out, _ := runScript(t, svc,
		"2", "user", "9999",
		"2", "nouser", "1234",
		"0",
	)

	assert.Equal(t, 2, strings.Count(out, "Wrong username or PIN."))
	assert.NotContains(t, out, "Welcome, ")
}

func TestConsoleRegistrationReprompts(t *testing.T) {
	svc := newService(t)

	out, _ := runScript(t, svc,
		"1", "alice",
		"12a", "abcd", "0042", // PIN attempts
		"", "1.2.3", "0", "1.005", "10", // amount attempts
		"0",
	)

	assert.Contains(t, out, "PIN must be exactly 4 digits.")
	assert.Contains(t, out, "PIN must contain digits only.")
	assert.Contains(t, out, "Amount cannot be empty.")
	assert.Contains(t, out, "Invalid amount, use digits and at most one dot.")
	assert.Contains(t, out, "Amount must be positive.")
	assert.Contains(t, out, "Amount can have at most 2 decimals.")
	assert.Contains(t, out, "Account created for 'alice'.")

	account, err := svc.Authenticate(context.Background(), "alice", "0042")
	require.NoError(t, err)
	assert.Equal(t, "10.00", account.Balance.StringFixed(2))
}

func TestConsoleRegistrationRejected(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), "user", "1234", decimal.NewFromInt(1))
	require.NoError(t, err)

	out, _ := runScript(t, svc,
		"1", "user", // taken: back to the menu before any PIN prompt
		"1", "",
		"0",
	)

	assert.Contains(t, out, "Choose username: Username already taken.")
	assert.Contains(t, out, "Username cannot be empty.")
	assert.NotContains(t, out, "Choose a 4-digit PIN")
	assert.NotContains(t, out, "Initial deposit")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	_, err = svc.Authenticate(context.Background(), "user", "1111")
	assert.Error(t, err, "duplicate registration must not replace the PIN")
}

func TestConsoleInvalidMenuInput(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), "user", "1234", decimal.NewFromInt(1))
	require.NoError(t, err)

	out, _ := runScript(t, svc,
		"x", "7", "-1",
		"2", "user", "1234",
		"abc", "9", "-2", "4",
		"0",
	)

	assert.Equal(t, 2, strings.Count(out, "Please enter a number."))
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Use 0, 1, or 2."))
	assert.Equal(t, 2, strings.Count(out, "Invalid choice (1-4)."))
}

func TestConsoleEndOfInputClosesSession(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), "user", "1234", decimal.NewFromInt(1))
	require.NoError(t, err)

	var out bytes.Buffer
	c := New(svc, strings.NewReader("2\nuser\n1234\n"), &out, "SEK", nil)

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, StateTerminated, c.State())
	assert.Nil(t, c.session)
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestConsoleCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(newService(t), strings.NewReader("0\n"), io.Discard, "SEK", nil)
	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateWelcome, c.State())
}

func TestConsoleReadError(t *testing.T) {
	readErr := errors.New("tty gone")
	c := New(newService(t), iotest.ErrReader(readErr), io.Discard, "SEK", nil)

	err := c.Run(context.Background())
	assert.ErrorIs(t, err, readErr)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "welcome", StateWelcome.String())
	assert.Equal(t, "session", StateSession.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(99).String())
}
