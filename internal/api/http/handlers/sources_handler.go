package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appeal-router/internal/api/dto"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/service"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// SourcesHandler manages source administration endpoints.
type SourcesHandler struct {
	service *service.SourceService
}

// NewSourcesHandler constructs handler.
func NewSourcesHandler(sourceService *service.SourceService) *SourcesHandler {
	return &SourcesHandler{service: sourceService}
}

// Create POST /sources.
func (h *SourcesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	source, err := h.service.CreateSource(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sourceResponse(source)})
}

// List GET /sources.
func (h *SourcesHandler) List(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	sources, err := h.service.ListSources(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.SourceResponse, 0, len(sources))
	for i := range sources {
		items = append(items, sourceResponse(&sources[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func sourceResponse(source *domain.Source) dto.SourceResponse {
	return dto.SourceResponse{
		ID:        source.ID,
		Name:      source.Name,
		CreatedAt: source.CreatedAt,
	}
}
