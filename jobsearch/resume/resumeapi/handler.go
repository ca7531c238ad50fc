package resumeapi

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/jobsearch/resume/resumesrv"
	"github.com/jobradar/radar/pkg/fsx"
	"github.com/jobradar/radar/pkg/kernel"
)

type ResumeHandlers struct {
	service    *resumesrv.Service
	fileSystem fsx.FileSystem
}

func NewResumeHandlers(service *resumesrv.Service, fileSystem fsx.FileSystem) *ResumeHandlers {
	return &ResumeHandlers{
		service:    service,
		fileSystem: fileSystem,
	}
}

func (h *ResumeHandlers) RegisterRoutes(app *fiber.App) {
	resumes := app.Group("/api/v1/resumes")

	resumes.Post("/parse", h.ParseResume)      // Upload, extract, parse
	resumes.Get("/:id", h.GetResume)           // Get by ID
	resumes.Post("/:id/reparse", h.Reparse)    // Re-run the parse pipeline
	resumes.Delete("/:id", h.DeleteResume)     // Delete
	resumes.Get("/", h.ListResumes)            // List for a user
}

// ParseResume uploads a resume file and runs the parse pipeline on it.
// POST /api/v1/resumes/parse
func (h *ResumeHandlers) ParseResume(c *fiber.Ctx) error {
	userID := c.FormValue("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	maxSize := int64(10 * 1024 * 1024) // 10MB
	if file.Size > maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "file too large",
			"max_size": "10MB",
			"size":     file.Size,
		})
	}

	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if fileType == "" {
		fileType = "txt"
	}

	uploadedFile, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer uploadedFile.Close()

	filePath := h.fileSystem.Join("resumes", userID, uuid.New().String()+"_"+file.Filename)
	if err := h.fileSystem.WriteFileStream(c.Context(), filePath, uploadedFile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store uploaded file",
		})
	}

	resp, err := h.service.ParseAndCreateResume(c.Context(), resume.ParseResumeRequest{
		UserID:   kernel.NewUserID(userID),
		FilePath: filePath,
		FileName: file.Filename,
		FileType: fileType,
	})
	if err != nil {
		// Keep storage consistent with the failed create.
		_ = h.fileSystem.DeleteFile(c.Context(), filePath)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetResume returns a resume with its parse result when present.
// GET /api/v1/resumes/:id
func (h *ResumeHandlers) GetResume(c *fiber.Ctx) error {
	id := kernel.NewResumeID(c.Params("id"))
	model, err := h.service.GetResume(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(model)
}

// Reparse re-runs extraction and parsing on the stored file.
// POST /api/v1/resumes/:id/reparse
func (h *ResumeHandlers) Reparse(c *fiber.Ctx) error {
	id := kernel.NewResumeID(c.Params("id"))
	model, err := h.service.ReparseResume(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(model)
}

// DeleteResume removes a resume and its stored file.
// DELETE /api/v1/resumes/:id
func (h *ResumeHandlers) DeleteResume(c *fiber.Ctx) error {
	id := kernel.NewResumeID(c.Params("id"))

	model, err := h.service.GetResume(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.service.DeleteResume(c.Context(), id); err != nil {
		return err
	}
	_ = h.fileSystem.DeleteFile(c.Context(), model.FileURL)

	return c.JSON(fiber.Map{"deleted": id.String()})
}

// ListResumes lists a user's resumes, newest first.
// GET /api/v1/resumes?user_id=...&page=1&page_size=20
func (h *ResumeHandlers) ListResumes(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	result, err := h.service.ListResumes(c.Context(), kernel.NewUserID(userID), pagination)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
