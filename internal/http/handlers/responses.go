package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/hongminglow/notes-be/internal/apperr"
	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/logging"
)

const maxBodyBytes = 1 << 20

var errBadPayload = apperr.Validation("invalid request payload")

// decodeBody reads a JSON or form-encoded body into dst. Form values are
// routed through JSON so the same struct tags apply to both.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return errBadPayload
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return errBadPayload
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return errBadPayload
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadPayload
	}
	return nil
}

// writeError translates err into a response. Server-side failures are logged
// with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, fallback *slog.Logger, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		logging.FromContext(r.Context(), fallback).WarnContext(r.Context(), "request timed out", slog.Any("error", err))
		respond.Error(w, http.StatusGatewayTimeout, "request timed out")
		return
	}

	status := apperr.HTTPStatus(err)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logging.FromContext(r.Context(), fallback).ErrorContext(r.Context(), "unhandled error", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), fallback).ErrorContext(r.Context(), appErr.Message, slog.Any("error", appErr.Err))
	}
	respond.Error(w, status, appErr.Message, appErr.Fields...)
}
