package utils

import (
	"crypto/rand"
)

// GenerateAccessCode returns a fixed-length numeric code for joining a
// consultation.
func GenerateAccessCode(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b)
}
