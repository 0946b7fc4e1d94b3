package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThrough(t *testing.T) {
	original := NewConflict("already resolved", map[string]any{"appeal_id": "a-1"})

	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "a-1", mapped.Details["appeal_id"])
}

func TestToDomainError_WrapsNoRowsAsNotFound(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainError_MapsFiberError(t *testing.T) {
	mapped := ToDomainError(fiber.NewError(fiber.StatusForbidden, "admin role required"))
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
	assert.Equal(t, "admin role required", mapped.Message)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailable("operator directory unavailable", cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", domainErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}
