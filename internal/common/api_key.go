package common

import (
	"github.com/theraswitchrx/backend/pkg/crypto"
)

const apiKeyPrefix = "tsx_"

// KeyIDLength is how much of the plaintext key is kept as the public
// identifier of a key record.
const KeyIDLength = 12

// GenerateAPIKey mints a new plaintext key together with the digest that is
// persisted and the id derived from the key prefix. The plaintext is shown
// to the caller exactly once.
func GenerateAPIKey() (plaintext, hash, keyID string, err error) {
	random, err := crypto.GenerateRandomString()
	if err != nil {
		return "", "", "", err
	}

	plaintext = apiKeyPrefix + random
	return plaintext, HashAPIKey(plaintext), plaintext[:KeyIDLength], nil
}

func HashAPIKey(plaintext string) string {
	return crypto.SHA256([]byte(plaintext))
}

// IsWellFormedAPIKey filters out values that cannot be issued keys before
// any database lookup happens.
func IsWellFormedAPIKey(plaintext string) bool {
	return len(plaintext) > KeyIDLength && plaintext[:len(apiKeyPrefix)] == apiKeyPrefix
}
