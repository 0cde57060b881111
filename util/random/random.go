// Package random generates secrets from crypto/rand.
package random

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Seq returns n random alphanumeric characters.
func Seq(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(alphanumeric)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = alphanumeric[idx.Int64()]
	}
	return string(b)
}
