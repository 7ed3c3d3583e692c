package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAccessCode(t *testing.T) {
	code := GenerateAccessCode(6)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
	}

	assert.Len(t, GenerateAccessCode(10), 10)
}
