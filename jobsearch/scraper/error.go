package scraper

import (
	"net/http"

	"github.com/jobradar/radar/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SCRAPER")

// Error codes - Configuration Operations
var (
	CodeConfigNotFound   = ErrRegistry.Register("CONFIG_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Scraper configuration not found")
	CodeInvalidConfig    = ErrRegistry.Register("INVALID_CONFIG", errx.TypeValidation, http.StatusBadRequest, "Invalid scraper configuration")
	CodeConfigSaveFailed = ErrRegistry.Register("CONFIG_SAVE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to save scraper configuration")
)

// Error codes - Queue Operations
var (
	CodeQueueItemNotFound  = ErrRegistry.Register("QUEUE_ITEM_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Queue item not found")
	CodeInvalidTransition  = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeConflict, http.StatusConflict, "Illegal queue status transition")
	CodeQueueItemTerminal  = ErrRegistry.Register("ITEM_TERMINAL", errx.TypeConflict, http.StatusConflict, "Queue item already reached a terminal status")
	CodeEnqueueFailed      = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to enqueue scrape run")
	CodeDequeueFailed      = ErrRegistry.Register("DEQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to dequeue scrape run")
	CodeQueueUnavailable   = ErrRegistry.Register("QUEUE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Queue service unavailable")
	CodeQueueUpdateFailed  = ErrRegistry.Register("QUEUE_UPDATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to update queue item")
	CodeScrapeRunFailed    = ErrRegistry.Register("RUN_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Scrape run failed")
	CodeMaxRetriesExceeded = ErrRegistry.Register("MAX_RETRIES", errx.TypeInternal, http.StatusInternalServerError, "Scrape run exceeded maximum retry attempts")
)

// Helper functions - Configuration Operations
func ErrConfigNotFound() *errx.Error {
	return ErrRegistry.New(CodeConfigNotFound)
}

func ErrInvalidConfig() *errx.Error {
	return ErrRegistry.New(CodeInvalidConfig)
}

func ErrConfigSaveFailed() *errx.Error {
	return ErrRegistry.New(CodeConfigSaveFailed)
}

// Helper functions - Queue Operations
func ErrQueueItemNotFound() *errx.Error {
	return ErrRegistry.New(CodeQueueItemNotFound)
}

func ErrInvalidTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition)
}

func ErrQueueItemTerminal() *errx.Error {
	return ErrRegistry.New(CodeQueueItemTerminal)
}

func ErrEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeEnqueueFailed)
}

func ErrDequeueFailed() *errx.Error {
	return ErrRegistry.New(CodeDequeueFailed)
}

func ErrQueueUnavailable() *errx.Error {
	return ErrRegistry.New(CodeQueueUnavailable)
}

func ErrQueueUpdateFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueUpdateFailed)
}

func ErrScrapeRunFailed() *errx.Error {
	return ErrRegistry.New(CodeScrapeRunFailed)
}

func ErrMaxRetriesExceeded() *errx.Error {
	return ErrRegistry.New(CodeMaxRetriesExceeded)
}
