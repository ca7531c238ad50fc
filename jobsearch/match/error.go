package match

import (
	"net/http"

	"github.com/jobradar/radar/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("MATCH")

var (
	CodeMatchNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Match not found")
	CodeRefreshFailed      = ErrRegistry.Register("REFRESH_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to refresh matches")
	CodeMatchUpdateFailed  = ErrRegistry.Register("UPDATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to update match")
	CodeEnhancementSkipped = ErrRegistry.Register("ENHANCEMENT_SKIPPED", errx.TypeExternal, http.StatusServiceUnavailable, "Match enhancement unavailable")
)

func ErrMatchNotFound() *errx.Error {
	return ErrRegistry.New(CodeMatchNotFound)
}

func ErrRefreshFailed() *errx.Error {
	return ErrRegistry.New(CodeRefreshFailed)
}

func ErrMatchUpdateFailed() *errx.Error {
	return ErrRegistry.New(CodeMatchUpdateFailed)
}
