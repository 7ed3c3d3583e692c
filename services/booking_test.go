package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsOverlapViolation(t *testing.T) {
	exclusion := &pgconn.PgError{
		Code:           "23P01",
		ConstraintName: "appointments_no_overlap",
	}
	assert.True(t, isOverlapViolation(exclusion))
	assert.True(t, isOverlapViolation(fmt.Errorf("create failed: %w", exclusion)),
		"wrapped driver errors must still map to a conflict")

	unique := &pgconn.PgError{Code: "23505"}
	assert.False(t, isOverlapViolation(unique), "other constraint classes pass through")

	assert.False(t, isOverlapViolation(errors.New("connection reset")))
	assert.False(t, isOverlapViolation(nil))
}
