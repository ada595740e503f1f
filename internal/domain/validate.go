// internal/domain/validate.go
package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PINLength is the exact number of digits in a PIN.
const PINLength = 4

// MaxAmountDecimals is the number of fractional digits accepted from user input.
const MaxAmountDecimals = 2

// Shape errors returned by the validators.
var (
	ErrPINLength    = errors.New("pin must be exactly 4 digits")
	ErrPINDigits    = errors.New("pin must contain digits only")
	ErrAmountEmpty  = errors.New("amount cannot be empty")
	ErrAmountFormat = errors.New("invalid amount, use digits and at most one dot")
	ErrAmountScale  = errors.New("amount can have at most 2 decimals")
	ErrAmountSign   = errors.New("amount must be positive")
)

// ValidatePIN checks that pin is exactly 4 ASCII decimal digits.
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return ErrPINLength
	}
	if !isDigits(pin) {
		return ErrPINDigits
	}
	return nil
}

// IsValidPIN is the boolean form of ValidatePIN.
func IsValidPIN(pin string) bool {
	return ValidatePIN(pin) == nil
}

// ParseAmount turns raw user text into a positive monetary amount.
// Accepted input is digits with at most one '.' separator, e.g. "200", "200.5", ".75".
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, ErrAmountEmpty
	}

	whole, frac, hasDot := strings.Cut(raw, ".")
	if strings.Contains(frac, ".") {
		return decimal.Zero, ErrAmountFormat
	}
	if (whole != "" && !isDigits(whole)) || (frac != "" && !isDigits(frac)) {
		return decimal.Zero, ErrAmountFormat
	}
	if whole == "" && frac == "" {
		return decimal.Zero, ErrAmountFormat
	}
	if len(frac) > MaxAmountDecimals {
		return decimal.Zero, ErrAmountScale
	}

	if whole == "" {
		whole = "0"
	}
	normalized := whole
	if hasDot && frac != "" {
		normalized = whole + "." + frac
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrAmountFormat
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountSign
	}
	return amount, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
