package matchapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/pkg/kernel"
)

type MatchHandlers struct {
	service *matchsrv.Service
}

func NewMatchHandlers(service *matchsrv.Service) *MatchHandlers {
	return &MatchHandlers{service: service}
}

func (h *MatchHandlers) RegisterRoutes(app *fiber.App) {
	matches := app.Group("/api/v1/matches")

	matches.Get("/", h.ListMatches)       // List for a user
	matches.Post("/refresh", h.Refresh)   // Rebuild against all postings
	matches.Post("/enhance", h.Enhance)   // LLM second-opinion pass
}

// ListMatches lists a user's matches, best first.
// GET /api/v1/matches?user_id=...&min_score=50
func (h *MatchHandlers) ListMatches(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	minScore := c.QueryInt("min_score", 0)
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	result, err := h.service.ListMatches(c.Context(), kernel.NewUserID(userID), minScore, pagination)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

type refreshRequest struct {
	UserID   string `json:"user_id"`
	ResumeID string `json:"resume_id"`
}

// Refresh rebuilds a user's matches from their parsed resume.
// POST /api/v1/matches/refresh
func (h *MatchHandlers) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.UserID == "" || req.ResumeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and resume_id are required",
		})
	}

	report, err := h.service.RefreshMatches(c.Context(),
		kernel.NewUserID(req.UserID), kernel.NewResumeID(req.ResumeID))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

type enhanceRequest struct {
	UserID string `json:"user_id"`
}

// Enhance runs the LLM enhancement pass over a user's matches.
// POST /api/v1/matches/enhance
func (h *MatchHandlers) Enhance(c *fiber.Ctx) error {
	var req enhanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	report, err := h.service.EnhanceMatches(c.Context(), kernel.NewUserID(req.UserID), nil)
	if err != nil {
		return err
	}
	return c.JSON(report)
}
