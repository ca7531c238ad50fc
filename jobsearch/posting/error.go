package posting

import (
	"net/http"

	"github.com/jobradar/radar/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("POSTING")

var (
	CodePostingNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job posting not found")
	CodePostingSaveFailed = ErrRegistry.Register("SAVE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to save job posting")
	CodeSourceUnavailable = ErrRegistry.Register("SOURCE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Job source unavailable")
	CodeInvalidPosting    = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid job posting data")
)

func ErrPostingNotFound() *errx.Error {
	return ErrRegistry.New(CodePostingNotFound)
}

func ErrPostingSaveFailed() *errx.Error {
	return ErrRegistry.New(CodePostingSaveFailed)
}

func ErrSourceUnavailable() *errx.Error {
	return ErrRegistry.New(CodeSourceUnavailable)
}

func ErrInvalidPosting() *errx.Error {
	return ErrRegistry.New(CodeInvalidPosting)
}
