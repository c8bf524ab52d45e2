// Package client contains the client entity owning ledger accounts.
package client

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/identity"
	"github.com/sunubank/ledger/pkg/utils"
)

var (
	// ErrClientNotFound is returned when a client cannot be found.
	ErrClientNotFound = fmt.Errorf("%w: client", domain.ErrNotFound)
	// ErrHasActiveAccounts is returned when deleting a client that still
	// owns active accounts.
	ErrHasActiveAccounts = fmt.Errorf("%w: client has active accounts", domain.ErrBusinessRule)
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email address", domain.ErrBusinessRule)
	// ErrNameRequired is returned when the first or last name is empty.
	ErrNameRequired = fmt.Errorf("%w: first and last name required", domain.ErrBusinessRule)
)

// Client is the owner of one or more accounts. A client exclusively owns its
// accounts for deletion cascading purposes.
type Client struct {
	ID               uuid.UUID
	Number           string
	FirstName        string
	LastName         string
	NCI              string
	Email            string
	Phone            string
	Address          string
	PasswordHash     string
	VerificationCode string
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName returns the client's display name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// NewClient validates the identity fields and returns a new client together
// with the generated plaintext password. The plaintext exists only for the
// welcome notification; the entity stores the bcrypt hash.
func NewClient(firstName, lastName, nci, email, phone, address string) (*Client, string, error) {
	if firstName == "" || lastName == "" {
		return nil, "", ErrNameRequired
	}
	if err := identity.ValidateNCI(nci); err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrBusinessRule, err)
	}
	if err := identity.ValidatePhone(phone); err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrBusinessRule, err)
	}
	if !utils.IsEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	password := randomString(passwordCharset, 10)
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	return &Client{
		ID:               uuid.New(),
		Number:           "CLI-" + randomString(numberCharset, 8),
		FirstName:        firstName,
		LastName:         lastName,
		NCI:              nci,
		Email:            email,
		Phone:            phone,
		Address:          address,
		PasswordHash:     hash,
		VerificationCode: verificationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, password, nil
}

// Delete soft-deletes the client.
func (c *Client) Delete(now time.Time) {
	c.DeletedAt = &now
}

const (
	numberCharset   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	passwordCharset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func randomString(charset string, n int) string {
	max := big.NewInt(int64(len(charset)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = charset[idx.Int64()]
	}
	return string(buf)
}

// verificationCode returns a zero-padded 6-digit SMS verification code.
func verificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
