package agentapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jobradar/radar/jobsearch/agent"
	"github.com/jobradar/radar/jobsearch/agent/agentsrv"
	"github.com/jobradar/radar/pkg/kernel"
)

type AgentHandlers struct {
	service *agentsrv.Service
}

func NewAgentHandlers(service *agentsrv.Service) *AgentHandlers {
	return &AgentHandlers{service: service}
}

func (h *AgentHandlers) RegisterRoutes(app *fiber.App) {
	agentGroup := app.Group("/api/v1/agent")

	agentGroup.Post("/activate", h.Activate)
}

type activateRequest struct {
	UserID      string            `json:"user_id"`
	ResumeID    string            `json:"resume_id"`
	Preferences agent.Preferences `json:"preferences"`
}

// Activate starts the agent: analyze the resume, create a search
// configuration, run a priority scrape and enhance the matches.
// POST /api/v1/agent/activate
func (h *AgentHandlers) Activate(c *fiber.Ctx) error {
	var req activateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.service.Activate(c.Context(), agent.ActivateRequest{
		UserID:      kernel.NewUserID(req.UserID),
		ResumeID:    kernel.NewResumeID(req.ResumeID),
		Preferences: req.Preferences,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}
