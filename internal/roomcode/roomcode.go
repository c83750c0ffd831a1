package roomcode

import (
	"crypto/rand"
	"math/big"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength gives 36^6 (about 2.2e9) possible codes.
const DefaultLength = 6

// Generate returns a random upper-case alphanumeric code of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Generator binds length so the result can be handed to a registry.
func Generator(length int) func() (string, error) {
	return func() (string, error) { return Generate(length) }
}
