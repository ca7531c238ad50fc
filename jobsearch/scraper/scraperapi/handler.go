package scraperapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/pkg/kernel"
)

type ScraperHandlers struct {
	service *scrapersrv.Service
}

func NewScraperHandlers(service *scrapersrv.Service) *ScraperHandlers {
	return &ScraperHandlers{service: service}
}

func (h *ScraperHandlers) RegisterRoutes(app *fiber.App) {
	configs := app.Group("/api/v1/scraper/configs")
	configs.Post("/", h.CreateConfig)         // Save a search configuration
	configs.Get("/", h.ListConfigs)           // List for a user
	configs.Get("/:id", h.GetConfig)          // Get by ID
	configs.Delete("/:id", h.DeleteConfig)    // Delete
	configs.Post("/:id/run", h.RunConfig)     // Enqueue a run now

	queue := app.Group("/api/v1/scraper/queue")
	queue.Get("/stats", h.QueueStats)     // Counts by status
	queue.Get("/:id", h.GetQueueItem)     // One item's status + result stats
}

// CreateConfig saves a search configuration.
// POST /api/v1/scraper/configs
func (h *ScraperHandlers) CreateConfig(c *fiber.Ctx) error {
	var req scraper.CreateConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	config, err := h.service.CreateConfiguration(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(config)
}

// ListConfigs lists a user's configurations.
// GET /api/v1/scraper/configs?user_id=...
func (h *ScraperHandlers) ListConfigs(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	configs, err := h.service.ListConfigurations(c.Context(), kernel.NewUserID(userID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": configs})
}

// GetConfig retrieves one configuration.
// GET /api/v1/scraper/configs/:id
func (h *ScraperHandlers) GetConfig(c *fiber.Ctx) error {
	config, err := h.service.GetConfiguration(c.Context(), kernel.NewConfigID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(config)
}

// DeleteConfig removes a configuration.
// DELETE /api/v1/scraper/configs/:id
func (h *ScraperHandlers) DeleteConfig(c *fiber.Ctx) error {
	id := kernel.NewConfigID(c.Params("id"))
	if err := h.service.DeleteConfiguration(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": id.String()})
}

// RunConfig enqueues a scrape run immediately. An optional resume_id
// query pins the post-run match refresh to that resume.
// POST /api/v1/scraper/configs/:id/run
func (h *ScraperHandlers) RunConfig(c *fiber.Ctx) error {
	priority := c.QueryInt("priority", 0)
	resumeID := kernel.NewResumeID(c.Query("resume_id"))
	resp, err := h.service.EnqueueRun(c.Context(), kernel.NewConfigID(c.Params("id")), priority, resumeID)
	if err != nil {
		return err
	}
	// The run is asynchronous; hand back the queue item to poll.
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"queue_item": resp,
		"status_url": "/api/v1/scraper/queue/" + resp.QueueItemID.String(),
	})
}

// GetQueueItem reports a queue item's status and result stats.
// GET /api/v1/scraper/queue/:id
func (h *ScraperHandlers) GetQueueItem(c *fiber.Ctx) error {
	resp, err := h.service.GetQueueItem(c.Context(), kernel.NewQueueItemID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// QueueStats reports queue item counts by status.
// GET /api/v1/scraper/queue/stats
func (h *ScraperHandlers) QueueStats(c *fiber.Ctx) error {
	stats, err := h.service.GetQueueStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
