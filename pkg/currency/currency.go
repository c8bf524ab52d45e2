// Package currency provides the currency code type used across the ledger.
package currency

import "errors"

// DefaultCurrency is the fallback currency code for new accounts and
// transactions that do not specify one.
const DefaultCurrency = Code("XOF")

var (
	// ErrInvalidCurrencyCode is returned when a currency code is not a
	// 3-letter uppercase code.
	ErrInvalidCurrencyCode = errors.New("invalid currency code format")
	// ErrUnsupportedCurrency is returned when a currency code is well-formed
	// but not supported by the ledger.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Code represents an ISO 4217 currency code (e.g. "XOF", "EUR").
type Code string

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}

// supported is the set of currencies accounts can be denominated in.
var supported = map[Code]struct{}{
	"XOF": {},
	"EUR": {},
	"USD": {},
	"GBP": {},
	"MAD": {},
	"GNF": {},
}

// IsValidFormat reports whether code is exactly three uppercase ASCII letters.
func IsValidFormat(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsSupported reports whether the ledger supports the given currency code.
func IsSupported(code string) bool {
	_, ok := supported[Code(code)]
	return ok
}

// Parse validates a raw currency code and returns it as a Code. An empty
// input falls back to DefaultCurrency.
func Parse(code string) (Code, error) {
	if code == "" {
		return DefaultCurrency, nil
	}
	if !IsValidFormat(code) {
		return "", ErrInvalidCurrencyCode
	}
	if !IsSupported(code) {
		return "", ErrUnsupportedCurrency
	}
	return Code(code), nil
}
