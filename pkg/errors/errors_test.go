package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Message(t *testing.T) {
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())
	assert.Equal(t, "no such user: 42", NewNotFoundError("user", "no such user: 42").Error())
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to list users", cause)

	assert.Equal(t, "failed to list users: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFoundError("user", ""), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFoundError("user", "")), http.StatusNotFound},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrInternal))
	assert.False(t, IsNotFound(nil))
}
