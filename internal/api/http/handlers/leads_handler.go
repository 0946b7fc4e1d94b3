package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appeal-router/internal/api/dto"
	"github.com/spec-kit/appeal-router/internal/service"
)

// LeadsHandler manages lead read endpoints.
type LeadsHandler struct {
	service *service.AppealService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(appealService *service.AppealService) *LeadsHandler {
	return &LeadsHandler{service: appealService}
}

// List GET /leads.
func (h *LeadsHandler) List(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	leads, err := h.service.ListLeads(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.LeadSummary, 0, len(leads))
	for _, item := range leads {
		items = append(items, dto.LeadSummary{
			ID:          item.Lead.ID,
			ExternalID:  item.Lead.ExternalID,
			AppealCount: item.AppealCount,
			CreatedAt:   item.Lead.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /leads/:id.
func (h *LeadsHandler) Get(c *fiber.Ctx) error {
	lead, appeals, err := h.service.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	appealItems := make([]dto.AppealResponse, 0, len(appeals))
	for i := range appeals {
		appealItems = append(appealItems, appealResponse(&appeals[i]))
	}
	return c.JSON(fiber.Map{"data": dto.LeadDetailResponse{
		ID:         lead.ID,
		ExternalID: lead.ExternalID,
		CreatedAt:  lead.CreatedAt,
		Appeals:    appealItems,
	}})
}
