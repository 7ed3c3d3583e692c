package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultationBeginAndFinish(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	end := start.Add(42 * time.Minute)

	var c Consultation
	require.NoError(t, c.Begin(start))
	require.NotNil(t, c.StartTime)
	assert.Equal(t, start, *c.StartTime)

	require.NoError(t, c.Finish(end))
	require.NotNil(t, c.EndTime)
	assert.Equal(t, 42*time.Minute, c.Duration)
}

func TestConsultationDoubleStart(t *testing.T) {
	now := time.Now()

	var c Consultation
	require.NoError(t, c.Begin(now))
	assert.ErrorIs(t, c.Begin(now.Add(time.Minute)), ErrAlreadyStarted)
}

func TestConsultationFinishBeforeStart(t *testing.T) {
	var c Consultation
	assert.ErrorIs(t, c.Finish(time.Now()), ErrNotStarted)
}

func TestConsultationDoubleFinish(t *testing.T) {
	now := time.Now()

	var c Consultation
	require.NoError(t, c.Begin(now))
	require.NoError(t, c.Finish(now.Add(time.Minute)))
	assert.ErrorIs(t, c.Finish(now.Add(2*time.Minute)), ErrAlreadyEnded)
}

func TestVerifyAccessCodeSuccessConsumes(t *testing.T) {
	now := time.Now()

	var c Consultation
	c.SetAccessCode("482916", now.Add(15*time.Minute))

	assert.True(t, c.VerifyAccessCode("482916", now))
	assert.Empty(t, c.AccessCode, "a redeemed code is single use")
	assert.Nil(t, c.AccessCodeExpires)

	assert.False(t, c.VerifyAccessCode("482916", now), "replay is rejected")
}

func TestVerifyAccessCodeWrongCodeRetains(t *testing.T) {
	now := time.Now()

	var c Consultation
	c.SetAccessCode("482916", now.Add(15*time.Minute))

	assert.False(t, c.VerifyAccessCode("000000", now))
	assert.Equal(t, "482916", c.AccessCode, "a failed attempt leaves the code intact")

	assert.True(t, c.VerifyAccessCode("482916", now), "retry with the right code succeeds")
}

func TestVerifyAccessCodeExpired(t *testing.T) {
	now := time.Now()

	var c Consultation
	c.SetAccessCode("482916", now.Add(15*time.Minute))

	assert.False(t, c.VerifyAccessCode("482916", now.Add(15*time.Minute)),
		"the expiry instant itself is already too late")
	assert.False(t, c.VerifyAccessCode("482916", now.Add(time.Hour)))
}

func TestVerifyAccessCodeNoneIssued(t *testing.T) {
	var c Consultation
	assert.False(t, c.VerifyAccessCode("482916", time.Now()))
}

func TestSetAccessCodeReplacesPrevious(t *testing.T) {
	now := time.Now()

	var c Consultation
	c.SetAccessCode("111111", now.Add(15*time.Minute))
	c.SetAccessCode("222222", now.Add(15*time.Minute))

	assert.False(t, c.VerifyAccessCode("111111", now), "an old code is invalid once replaced")
	assert.True(t, c.VerifyAccessCode("222222", now))
}
