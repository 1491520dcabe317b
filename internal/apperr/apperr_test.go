package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("missing fields", "email"), http.StatusBadRequest},
		{"conflict", Conflict("account already exists"), http.StatusConflict},
		{"auth", Auth("invalid password"), http.StatusUnauthorized},
		{"unauthorized", Unauthorized("no token provided", nil), http.StatusUnauthorized},
		{"not found", NotFound("note not found"), http.StatusNotFound},
		{"store", Store("failed to create user", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", Conflict("dup")), http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("failed to fetch user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store: failed to fetch user: connection refused", err.Error())

	v := Validation("missing required fields", "name", "password")
	assert.Equal(t, "validation: missing required fields [name, password]", v.Error())
	assert.Equal(t, KindValidation, KindOf(v))
}
