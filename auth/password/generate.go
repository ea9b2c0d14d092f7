package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const generateAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// Generate creates a random password of the given length from letters,
// digits, and a small set of special characters. Lengths below 1 fall
// back to 12.
func Generate(length int) (string, error) {
	if length < 1 {
		length = 12
	}
	max := big.NewInt(int64(len(generateAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("password: generate: %w", err)
		}
		out[i] = generateAlphabet[n.Int64()]
	}
	return string(out), nil
}
