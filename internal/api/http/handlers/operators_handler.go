package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appeal-router/internal/api/dto"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
	"github.com/spec-kit/appeal-router/internal/service"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// OperatorsHandler manages operator administration endpoints.
type OperatorsHandler struct {
	service *service.OperatorService
}

// NewOperatorsHandler constructs handler.
func NewOperatorsHandler(operatorService *service.OperatorService) *OperatorsHandler {
	return &OperatorsHandler{service: operatorService}
}

// Create POST /operators.
func (h *OperatorsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	operator, err := h.service.CreateOperator(c.UserContext(), service.OperatorCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
		MaxLoad:  req.MaxLoad,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": operatorResponse(operator)})
}

// List GET /operators.
func (h *OperatorsHandler) List(c *fiber.Ctx) error {
	filter := repository.OperatorFilter{}
	if v := c.Query("role"); v != "" {
		role := domain.OperatorRole(strings.ToUpper(strings.TrimSpace(v)))
		filter.Role = &role
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	operators, err := h.service.ListOperators(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.OperatorResponse, 0, len(operators))
	for i := range operators {
		items = append(items, operatorResponse(&operators[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /operators/:id.
func (h *OperatorsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	operator, err := h.service.UpdateOperator(c.UserContext(), c.Params("id"), service.OperatorUpdateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		MaxLoad:  req.MaxLoad,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": operatorResponse(operator)})
}

// SetAffinity POST /operator-sources.
func (h *OperatorsHandler) SetAffinity(c *fiber.Ctx) error {
	var req dto.SetAffinityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OperatorID == "" || req.SourceID == "" {
		return apperrors.NewValidationError("operator_id, source_id required", nil)
	}

	affinity, err := h.service.SetAffinity(c.UserContext(), service.AffinityInput{
		OperatorID: req.OperatorID,
		SourceID:   req.SourceID,
		Weight:     req.Weight,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": affinityResponse(affinity)})
}

// ListAffinities GET /operator-sources.
func (h *OperatorsHandler) ListAffinities(c *fiber.Ctx) error {
	filter := repository.AffinityFilter{}
	if v := c.Query("operator_id"); v != "" {
		filter.OperatorID = &v
	}
	if v := c.Query("source_id"); v != "" {
		filter.SourceID = &v
	}

	affinities, err := h.service.ListAffinities(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AffinityResponse, 0, len(affinities))
	for i := range affinities {
		items = append(items, affinityResponse(&affinities[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func operatorResponse(operator *domain.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:        operator.ID,
		Name:      operator.Name,
		Email:     operator.Email,
		Role:      operator.Role,
		IsActive:  operator.IsActive,
		MaxLoad:   operator.MaxLoad,
		CreatedAt: operator.CreatedAt,
		UpdatedAt: operator.UpdatedAt,
	}
}

func affinityResponse(affinity *domain.Affinity) dto.AffinityResponse {
	return dto.AffinityResponse{
		ID:         affinity.ID,
		OperatorID: affinity.OperatorID,
		SourceID:   affinity.SourceID,
		Weight:     affinity.Weight,
		CreatedAt:  affinity.CreatedAt,
		UpdatedAt:  affinity.UpdatedAt,
	}
}
