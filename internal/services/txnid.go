package services

import (
	"crypto/rand"
	"math/big"
)

const (
	PrefixDonation = "TXN_"
	PrefixTerminal = "VT_"

	txnIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	txnIDLength   = 9
)

var alphabetSize = big.NewInt(int64(len(txnIDAlphabet)))

// NewTransactionID returns prefix followed by 9 uniformly random characters from [A-Z0-9].
func NewTransactionID(prefix string) (string, error) {
	b := make([]byte, txnIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = txnIDAlphabet[n.Int64()]
	}
	return prefix + string(b), nil
}
