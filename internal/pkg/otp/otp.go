// Package otp generates the fixed-length numeric one-time codes used by
// the registration and password-reset pipelines.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	min  = 100000
	span = 900000 // codes are uniform over [100000, 999999]
)

// Generate returns a 6-digit decimal code drawn from crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+min), nil
}
