package agent

import (
	"net/http"

	"github.com/jobradar/radar/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AGENT")

var (
	CodeMissingIdentifiers = ErrRegistry.Register("MISSING_IDENTIFIERS", errx.TypeValidation, http.StatusBadRequest, "user_id and resume_id are required")
	CodeInvalidIdentifier  = ErrRegistry.Register("INVALID_IDENTIFIER", errx.TypeValidation, http.StatusBadRequest, "Identifier is not a valid UUID")
	CodeActivationFailed   = ErrRegistry.Register("ACTIVATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to activate agent")
)

func ErrMissingIdentifiers() *errx.Error {
	return ErrRegistry.New(CodeMissingIdentifiers)
}

func ErrInvalidIdentifier() *errx.Error {
	return ErrRegistry.New(CodeInvalidIdentifier)
}

func ErrActivationFailed() *errx.Error {
	return ErrRegistry.New(CodeActivationFailed)
}
