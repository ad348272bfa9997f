package authapi

import (
	"errors"
	"log/slog"
	"net/http"

	"relay/cmd/identity"
	"relay/cmd/internal/media"
)

// invalidCredentialsMessage is deliberately identical for unknown-email and
// wrong-password failures so responses never reveal which emails exist.
const invalidCredentialsMessage = "Invalid email or password"

// errInvalidCredentials is the generic login failure.
var errInvalidCredentials = errors.New("authapi: invalid credentials")

// validationError is a client input failure with a message safe to return.
type validationError struct{ msg string }

func (e validationError) Error() string { return "authapi: " + e.msg }

func invalidInput(msg string) error { return validationError{msg: msg} }

// writeDomainError is the single boundary translator: it maps a domain error
// to a status code and client message. Client-fault errors carry a short
// message; everything else collapses to a generic 500 with the full error
// logged for operators and nothing internal leaked.
func writeDomainError(log *slog.Logger, w http.ResponseWriter, op string, err error) {
	var vErr validationError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "invalid_request", vErr.msg)

	case errors.Is(err, errInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", invalidCredentialsMessage)

	case identity.IsConflict(err):
		writeError(w, http.StatusConflict, "email_taken", "Email already exists")

	case identity.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")

	case errors.Is(err, media.ErrInvalidDataURL):
		writeError(w, http.StatusBadRequest, "invalid_image", "profile picture must be a base64 image data URL")

	case errors.Is(err, media.ErrImageTooLarge):
		writeError(w, http.StatusBadRequest, "image_too_large", "profile picture is too large")

	default:
		log.Error(op, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
