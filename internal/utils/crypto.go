// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func GenerateAPIKey() (string, error) {
	prefix := "sp_"
	randomPart, err := GenerateRandomString(32)
	if err != nil {
		return "", err
	}
	return prefix + randomPart, nil
}

// APIKeyPrefix returns the stored lookup prefix of a key.
func APIKeyPrefix(key string) string {
	if len(key) > 11 {
		return key[:11]
	}
	return key
}
