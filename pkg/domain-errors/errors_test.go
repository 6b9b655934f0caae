package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	t.Run("New carries code and message", func(t *testing.T) {
		err := New(CodeValidation, "name cannot be empty")
		assert.Equal(t, "validation: name cannot be empty", err.Error())
		assert.Equal(t, CodeValidation, err.Code)
	})

	t.Run("Wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "failed to count persons")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("WithArg chains and accumulates", func(t *testing.T) {
		err := New(CodeConflict, "name must be unique").
			WithArg("name", "Ana").
			WithArg("attempt", 2)
		assert.Equal(t, "Ana", err.InvalidArgs["name"])
		assert.Equal(t, 2, err.InvalidArgs["attempt"])
	})
}

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "name must be unique")

	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
	assert.False(t, HasCode(nil, CodeConflict))

	t.Run("sees through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", err)
		assert.True(t, HasCode(wrapped, CodeConflict))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, CodeOf(New(CodeUnauthorized, "wrong credentials")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeBadRequest:   http.StatusBadRequest,
		CodeConflict:     http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		require.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
