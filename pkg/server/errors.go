package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/spritepack/pkg/errors"
)

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// statusFor maps an error to an HTTP status by its class.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499 // client closed request
	}
	var maxBytes *http.MaxBytesError
	if stderrors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.ClassOf(err) {
	case errors.ClassInput:
		return http.StatusBadRequest
	case errors.ClassMissing:
		return http.StatusNotFound
	case errors.ClassUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Code: errors.GetCode(err), Error: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(what string) error {
	return errors.New(errors.ErrCodeNotFound, "%s not found", what)
}
