package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appeal-router/internal/api/dto"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
	"github.com/spec-kit/appeal-router/internal/service"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// AppealsHandler manages appeal intake and lifecycle endpoints.
type AppealsHandler struct {
	service *service.AppealService
}

// NewAppealsHandler constructs handler.
func NewAppealsHandler(appealService *service.AppealService) *AppealsHandler {
	return &AppealsHandler{service: appealService}
}

// Create POST /appeals. Open endpoint: external source systems call it.
func (h *AppealsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAppealRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ExternalID) == "" || strings.TrimSpace(req.SourceID) == "" {
		return apperrors.NewValidationError("external_id, source_id required", nil)
	}

	appeal, err := h.service.CreateAppeal(c.UserContext(), service.AppealCreateInput{
		ExternalID: req.ExternalID,
		SourceID:   req.SourceID,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": appealResponse(appeal)})
}

// List GET /appeals.
func (h *AppealsHandler) List(c *fiber.Ctx) error {
	filter := repository.AppealFilter{}
	if v := c.Query("lead_id"); v != "" {
		filter.LeadID = &v
	}
	if v := c.Query("source_id"); v != "" {
		filter.SourceID = &v
	}
	if v := c.Query("operator_id"); v != "" {
		filter.OperatorID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.AppealStatus(strings.ToUpper(strings.TrimSpace(v)))
		filter.Status = &status
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	appeals, err := h.service.ListAppeals(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AppealResponse, 0, len(appeals))
	for i := range appeals {
		items = append(items, appealResponse(&appeals[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /appeals/:id.
func (h *AppealsHandler) Get(c *fiber.Ctx) error {
	appeal, err := h.service.GetAppeal(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appealResponse(appeal)})
}

// Resolve POST /appeals/:id/resolve.
func (h *AppealsHandler) Resolve(c *fiber.Ctx) error {
	appeal, err := h.service.ResolveAppeal(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appealResponse(appeal)})
}

func appealResponse(appeal *domain.Appeal) dto.AppealResponse {
	return dto.AppealResponse{
		ID:         appeal.ID,
		LeadID:     appeal.LeadID,
		SourceID:   appeal.SourceID,
		OperatorID: appeal.OperatorID,
		Status:     appeal.Status,
		Message:    appeal.Message,
		CreatedAt:  appeal.CreatedAt,
		ResolvedAt: appeal.ResolvedAt,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
