package account

import (
	"crypto/rand"
	"math/big"
)

// numberCharset excludes lookalike characters so numbers read cleanly over
// the phone.
const (
	numberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	numberLength  = 10
)

// NewAccountNumber generates a human-readable account number of the form
// {prefix}-{random}, with the prefix derived from the account type.
func NewAccountNumber(t Type) string {
	return t.NumberPrefix() + "-" + randomSuffix(numberLength)
}

// NewTransactionNumber generates a human-readable transaction number of the
// form TRX-{random}.
func NewTransactionNumber() string {
	return "TRX-" + randomSuffix(numberLength)
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(numberCharset)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		buf[i] = numberCharset[idx.Int64()]
	}
	return string(buf)
}
