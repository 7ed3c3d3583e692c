package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessCodeTTL(t *testing.T) {
	t.Setenv("ACCESS_CODE_TTL_MINUTES", "")
	assert.Equal(t, 15*time.Minute, AccessCodeTTL())

	t.Setenv("ACCESS_CODE_TTL_MINUTES", "30")
	assert.Equal(t, 30*time.Minute, AccessCodeTTL())

	t.Setenv("ACCESS_CODE_TTL_MINUTES", "0")
	assert.Equal(t, 15*time.Minute, AccessCodeTTL())

	t.Setenv("ACCESS_CODE_TTL_MINUTES", "garbage")
	assert.Equal(t, 15*time.Minute, AccessCodeTTL())
}
