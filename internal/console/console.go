// internal/console/console.go
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"atm-ledger/internal/domain"
	"atm-ledger/internal/service"
	"atm-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// Console is the text front end of the ATM. It owns all prompts, menus and
// input re-prompting; the ledger itself only ever sees validated values.
type Console struct {
	svc      service.ATMService
	in       *bufio.Scanner
	out      io.Writer
	currency string
	logger   *slog.Logger

	state   State
	session *service.Session
}

// New creates a Console reading commands from in and writing screens to out.
func New(svc service.ATMService, in io.Reader, out io.Writer, currency string, logger *slog.Logger) *Console {
	if logger == nil {
		logger = util.GetLogger()
	}
	return &Console{
		svc:      svc,
		in:       bufio.NewScanner(in),
		out:      out,
		currency: currency,
		logger:   logger,
		state:    StateWelcome,
	}
}

// State returns the current state of the console.
func (c *Console) State() State {
	return c.state
}

// Run drives the state machine until the user exits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	defer c.logout()

	for c.state != StateTerminated {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			next State
			err  error
		)
		switch c.state {
		case StateWelcome:
			next, err = c.welcome()
		case StateRegistering:
			next, err = c.register(ctx)
		case StateAuthenticating:
			next, err = c.authenticate(ctx)
		case StateSession:
			next, err = c.atm(ctx)
		default:
			return fmt.Errorf("console: unexpected state %s", c.state)
		}

		if errors.Is(err, io.EOF) {
			c.println("\nGoodbye!")
			next, err = StateTerminated, nil
		}
		if err != nil {
			return err
		}

		if next != c.state {
			c.logger.Debug("Console state change", "from", c.state.String(), "to", next.String())
		}
		c.state = next
	}
	return nil
}

func (c *Console) welcome() (State, error) {
	c.println("\n=========== ATM Console ===========")
	c.println("1) Register new account")
	c.println("2) Login")
	c.println("0) Exit")
	c.println("-----------------------------------")

	choice, ok, err := c.readChoice()
	if err != nil || !ok {
		return c.state, err
	}
	switch choice {
	case 0:
		c.println("Goodbye!")
		return StateTerminated, nil
	case 1:
		return StateRegistering, nil
	case 2:
		return StateAuthenticating, nil
	default:
		c.println("Invalid choice. Use 0, 1, or 2.")
		return StateWelcome, nil
	}
}

func (c *Console) register(ctx context.Context) (State, error) {
	username, err := c.readLine("Choose username: ")
	if err != nil {
		return c.state, err
	}
	if username == "" {
		c.println("Username cannot be empty.")
		return StateWelcome, nil
	}
	taken, err := c.svc.UsernameTaken(ctx, username)
	if err != nil {
		c.failed("register", err)
		return StateWelcome, nil
	}
	if taken {
		c.println("Username already taken.")
		return StateWelcome, nil
	}

	pin, err := c.readPIN("Choose a 4-digit PIN: ")
	if err != nil {
		return c.state, err
	}
	initial, err := c.readAmount(fmt.Sprintf("Initial deposit (%s): ", c.currency))
	if err != nil {
		return c.state, err
	}

	account, err := c.svc.Register(ctx, username, pin, initial)
	switch {
	case err == nil:
		c.printf("Account created for '%s'.\n", account.Username)
	case util.IsError(err, util.ErrDuplicateUsername):
		c.println("Username already taken.")
	case util.IsError(err, util.ErrEmptyUsername):
		c.println("Username cannot be empty.")
	default:
		c.failed("register", err)
	}
	return StateWelcome, nil
}

func (c *Console) authenticate(ctx context.Context) (State, error) {
	username, err := c.readLine("Username: ")
	if err != nil {
		return c.state, err
	}
	pin, err := c.readPIN("PIN: ")
	if err != nil {
		return c.state, err
	}

	session, err := c.svc.Login(ctx, username, pin)
	if err != nil {
		if util.IsError(err, util.ErrInvalidCredentials) {
			c.println("Wrong username or PIN.")
		} else {
			c.failed("login", err)
		}
		return StateWelcome, nil
	}

	c.session = session
	c.printf("Welcome, %s!\n", session.Username)
	return StateSession, nil
}

func (c *Console) atm(ctx context.Context) (State, error) {
	c.printf("\n----------- ATM for %s -----------\n", c.session.Username)
	c.println("1) Show balance")
	c.println("2) Deposit")
	c.println("3) Withdraw")
	c.println("4) Logout")
	c.println("-----------------------------------")

	choice, ok, err := c.readChoice()
	if err != nil || !ok {
		return c.state, err
	}
	switch choice {
	case 1:
		c.showBalance(ctx)
	case 2:
		if err := c.deposit(ctx); err != nil {
			return c.state, err
		}
	case 3:
		if err := c.withdraw(ctx); err != nil {
			return c.state, err
		}
	case 4:
		c.println("Logging out...")
		c.logout()
		return StateWelcome, nil
	default:
		c.println("Invalid choice (1-4).")
	}
	return StateSession, nil
}

func (c *Console) showBalance(ctx context.Context) {
	balance, err := c.session.Balance(ctx)
	if err != nil {
		c.failed("balance", err)
		return
	}
	c.printf("Current balance: %s\n", c.money(balance))
}

func (c *Console) deposit(ctx context.Context) error {
	amount, err := c.readAmount(fmt.Sprintf("Enter amount to deposit (%s): ", c.currency))
	if err != nil {
		return err
	}
	if _, err := c.session.Deposit(ctx, amount); err != nil {
		c.failed("deposit", err)
		return nil
	}
	c.printf("Deposited %s.\n", c.money(amount))
	c.showBalance(ctx)
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	// An empty account is turned away before asking for an amount.
	balance, err := c.session.Balance(ctx)
	if err != nil {
		c.failed("withdraw", err)
		return nil
	}
	if !balance.IsPositive() {
		c.println("Insufficient funds.")
		return nil
	}

	amount, err := c.readAmount(fmt.Sprintf("Enter amount to withdraw (%s): ", c.currency))
	if err != nil {
		return err
	}
	if _, err := c.session.Withdraw(ctx, amount); err != nil {
		if util.IsError(err, util.ErrInsufficientFunds) {
			current, balErr := c.session.Balance(ctx)
			if balErr != nil {
				c.println("Insufficient funds.")
				return nil
			}
			c.printf("Insufficient funds. You only have %s.\n", c.money(current))
			return nil
		}
		c.failed("withdraw", err)
		return nil
	}
	c.printf("Withdrew %s.\n", c.money(amount))
	c.showBalance(ctx)
	return nil
}

func (c *Console) logout() {
	if c.session == nil {
		return
	}
	c.session.Logout()
	c.logger.Info("Session closed", "session_id", c.session.ID, "account_id", c.session.AccountID)
	c.session = nil
}

// failed reports an unexpected error without leaving the current screen.
func (c *Console) failed(op string, err error) {
	c.logger.Error("ATM operation failed", "op", op, "error", err)
	c.println("Something went wrong, please try again.")
}

func (c *Console) money(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " " + c.currency
}

// readChoice reads a menu number. ok is false when the input was not a
// number; the user has already been told so.
func (c *Console) readChoice() (choice int, ok bool, err error) {
	line, err := c.readLine("> ")
	if err != nil {
		return 0, false, err
	}
	choice, convErr := strconv.Atoi(line)
	if convErr != nil {
		c.println("Please enter a number.")
		return 0, false, nil
	}
	return choice, true, nil
}

// readLine prints prompt and returns the next trimmed input line, or io.EOF.
func (c *Console) readLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = io.WriteString(c.out, prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("console: failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// readPIN re-prompts until the input is a well-formed PIN.
func (c *Console) readPIN(prompt string) (string, error) {
	for {
		pin, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		switch err := domain.ValidatePIN(pin); {
		case err == nil:
			return pin, nil
		case errors.Is(err, domain.ErrPINDigits):
			c.println("PIN must contain digits only.")
		default:
			c.println("PIN must be exactly 4 digits.")
		}
	}
}

// readAmount re-prompts until the input is a positive amount.
func (c *Console) readAmount(prompt string) (decimal.Decimal, error) {
	for {
		raw, err := c.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := domain.ParseAmount(raw)
		if err == nil {
			return amount, nil
		}
		switch {
		case errors.Is(err, domain.ErrAmountEmpty):
			c.println("Amount cannot be empty.")
		case errors.Is(err, domain.ErrAmountSign):
			c.println("Amount must be positive.")
		case errors.Is(err, domain.ErrAmountScale):
			c.println("Amount can have at most 2 decimals.")
		default:
			c.println("Invalid amount, use digits and at most one dot.")
		}
	}
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
