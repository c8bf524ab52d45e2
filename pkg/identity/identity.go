// Package identity holds the format validators for Senegalese national
// identity numbers (NCI) and phone numbers. They are pure functions over raw
// strings: each returns nil or a sentinel error naming the exact rule that
// was violated.
package identity

import (
	"errors"
	"strings"
)

var (
	// ErrNCILength is returned when the NCI is not exactly 13 characters.
	ErrNCILength = errors.New("nci must be 13 digits")
	// ErrNCINotDigits is returned when the NCI contains non-digit characters.
	ErrNCINotDigits = errors.New("nci must contain only digits")
	// ErrNCIFirstDigit is returned when the NCI does not start with 1 or 2.
	ErrNCIFirstDigit = errors.New("nci must start with 1 or 2")
	// ErrNCIChecksum is returned when the NCI check digit does not match.
	ErrNCIChecksum = errors.New("nci checksum is invalid")

	// ErrPhoneFormat is returned when the number is neither +221XXXXXXXXX
	// nor a bare 9-digit local number.
	ErrPhoneFormat = errors.New("phone number must be +221 followed by 9 digits, or 9 digits")
	// ErrPhonePrefix is returned when the local number does not start with a
	// known Senegalese operator prefix.
	ErrPhonePrefix = errors.New("phone number must start with 77, 78, 76, 70, 75 or 33")
	// ErrPhoneNotDigits is returned when the local number contains non-digit
	// characters.
	ErrPhoneNotDigits = errors.New("phone number must contain only digits")
)

// ValidateNCI checks a raw national identity number: 13 digits, first digit
// 1 or 2, and a Luhn-style checksum of digits 0..11 against check digit 12.
func ValidateNCI(raw string) error {
	nci := strings.TrimSpace(raw)
	if len(nci) != 13 {
		return ErrNCILength
	}
	if !allDigits(nci) {
		return ErrNCINotDigits
	}
	if nci[0] != '1' && nci[0] != '2' {
		return ErrNCIFirstDigit
	}
	if checkDigit(nci) != int(nci[12]-'0') {
		return ErrNCIChecksum
	}
	return nil
}

// checkDigit computes the expected check digit over the first 12 digits:
// every even-indexed digit is doubled (minus 9 when the double exceeds 9),
// summed with the odd-indexed ones, and the digit is (10 - sum%10) % 10.
func checkDigit(nci string) int {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(nci[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// phonePrefixes are the operator prefixes of valid Senegalese numbers.
var phonePrefixes = map[string]struct{}{
	"77": {}, "78": {}, "76": {}, "70": {}, "75": {}, "33": {},
}

// ValidatePhone checks a raw phone number. Accepted forms are the
// international "+221" prefix followed by 9 digits, or a bare 9-digit local
// number. The local number must start with a known operator prefix.
func ValidatePhone(raw string) error {
	phone := strings.TrimSpace(raw)

	var local string
	switch {
	case strings.HasPrefix(phone, "+221"):
		local = phone[len("+221"):]
		if len(local) != 9 {
			return ErrPhoneFormat
		}
	case len(phone) == 9:
		local = phone
	default:
		return ErrPhoneFormat
	}

	if _, ok := phonePrefixes[local[:2]]; !ok {
		return ErrPhonePrefix
	}
	if !allDigits(local) {
		return ErrPhoneNotDigits
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
