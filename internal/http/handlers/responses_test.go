package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/notes-be/internal/apperr"
	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/models/dto"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDecodeBody(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","password":"pw"}`))
		r.Header.Set("Content-Type", "application/json")
		var req dto.LoginRequest
		require.NoError(t, decodeBody(httptest.NewRecorder(), r, &req))
		assert.Equal(t, "a@x.com", req.Email)
		assert.Equal(t, "pw", req.Password)
	})

	t.Run("form", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a%40x.com&password=pw"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
		var req dto.LoginRequest
		require.NoError(t, decodeBody(httptest.NewRecorder(), r, &req))
		assert.Equal(t, "a@x.com", req.Email)
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		var req dto.LoginRequest
		err := decodeBody(httptest.NewRecorder(), r, &req)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("too large", func(t *testing.T) {
		big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		var req dto.LoginRequest
		assert.Error(t, decodeBody(httptest.NewRecorder(), r, &req))
	})
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Validation("provide necessary credentials", "email"), http.StatusBadRequest, "provide necessary credentials"},
		{"conflict", apperr.Conflict("account already exists"), http.StatusConflict, "account already exists"},
		{"not found", apperr.NotFound("note not found"), http.StatusNotFound, "note not found"},
		{"store", apperr.Store("failed to create user", errors.New("db down")), http.StatusInternalServerError, "failed to create user"},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "request timed out"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), quiet, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body respond.ErrorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.message, body.Message)
			assert.NotContains(t, body.Message, "db down")
		})
	}
}
