package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	dekbox "github.com/dekbox/console-go"
)

// errorResponse is the uniform failure shape every handler returns. The
// message is meant for a human reading the console, not for machines.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON renders a 2xx JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", "err", err)
	}
}

// writeError is the action boundary: every failure from the SDK or from
// request parsing ends up here and is rendered as {"error": msg} with a
// status derived from the error kind. Nothing a handler does is fatal to
// the process.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)

	if logger != nil {
		logger.Debug("request failed", "status", status, "err", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps SDK errors to HTTP statuses: structural and input problems
// are the caller's fault (400/404), cryptographic rejections are
// unprocessable content (422), anything else is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dekbox.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, dekbox.ErrUnknownCipher),
		errors.Is(err, dekbox.ErrUnknownScheme),
		errors.Is(err, dekbox.ErrInvalidEnvelope),
		errors.Is(err, dekbox.ErrInvalidBundle),
		errors.Is(err, dekbox.ErrInvalidVector),
		errors.Is(err, dekbox.ErrInvalidWrappedKey),
		errors.Is(err, dekbox.ErrInvalidRecipientKey):
		return http.StatusBadRequest
	case errors.Is(err, dekbox.ErrUnwrapFailed),
		errors.Is(err, dekbox.ErrDecryptionFailed),
		errors.Is(err, dekbox.ErrHashMismatch):
		return http.StatusUnprocessableEntity
	}

	var badInput *badRequestError
	if errors.As(err, &badInput) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// badRequestError marks request-decoding failures so statusFor can tell
// them apart from internal ones.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}
