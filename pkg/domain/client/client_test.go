package client_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/client"
	"github.com/sunubank/ledger/pkg/utils"
)

func TestNewClient(t *testing.T) {
	c, password, err := client.NewClient("Awa", "Diop", "1234567890123", "awa.diop@example.sn", "+221771234567", "Dakar")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.Number, "CLI-"))
	assert.Equal(t, "Awa Diop", c.FullName())
	assert.Len(t, c.VerificationCode, 6)
	assert.Len(t, password, 10)
	assert.NotEqual(t, password, c.PasswordHash)
	assert.True(t, utils.CheckPasswordHash(password, c.PasswordHash))
}

func TestNewClient_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		first string
		nci   string
		email string
		phone string
	}{
		{"bad nci", "Awa", "9994567890123", "a@b.sn", "771234567"},
		{"bad phone", "Awa", "1234567890123", "a@b.sn", "991234567"},
		{"bad email", "Awa", "1234567890123", "not-an-email", "771234567"},
		{"missing name", "", "1234567890123", "a@b.sn", "771234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := client.NewClient(tt.first, "Diop", tt.nci, tt.email, tt.phone, "")
			assert.ErrorIs(t, err, domain.ErrBusinessRule)
		})
	}
}
