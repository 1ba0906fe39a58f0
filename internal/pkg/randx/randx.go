/*
Package randx provides functions for generating cryptographically secure random identifiers.

It generates the opaque per-session user IDs (UUID v4) and the Base62 tokens
used as browser session cookie values.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// SessionTokenLength is the fixed length of a session cookie token.
	SessionTokenLength = 24
)

// UserID generates a UUID v4 string serving as the opaque session identity.
// Generated once per client session and never reused across sessions.
func UserID() string {
	return uuid.New().String()
}

// SessionToken generates a Base62 encoded token using crypto/rand.
// It returns a string of length SessionTokenLength and any error encountered.
func SessionToken() (string, error) {
	result := make([]byte, SessionTokenLength)

	for i := 0; i < SessionTokenLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for session token: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsValidSessionToken checks if the given string is a well-formed session token.
// Validity criteria: length equals SessionTokenLength and all characters belong
// to the Base62Chars set.
func IsValidSessionToken(token string) bool {
	if len(token) != SessionTokenLength {
		return false
	}

	for _, char := range token {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
