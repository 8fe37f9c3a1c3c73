package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

type response struct {
	Success bool        `json:"success"`
	Code    errorx.Code `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    any         `json:"data,omitempty"`
}

func writeResponse(ctx context.Context, w http.ResponseWriter, data any) {
	if err := writeJSON(w, http.StatusOK, response{Success: true, Data: data}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	errx := errorx.Unknown
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	resp := response{Success: false, Code: errx.Code, Error: errx.Message}
	if err := writeJSON(w, httpStatus(errx.Code), resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest, errorx.AlreadyExists:
		return http.StatusBadRequest
	case errorx.Unauthenticated, errorx.KeyExpired, errorx.KeyDeactivated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
