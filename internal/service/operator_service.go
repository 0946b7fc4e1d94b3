package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/appeal-router/internal/auth"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/events"
	"github.com/spec-kit/appeal-router/internal/repository"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

const defaultMaxLoad = 10

// OperatorService handles operator administration and affinity weights.
type OperatorService struct {
	operators  repository.OperatorRepository
	sources    repository.SourceRepository
	affinities repository.AffinityRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// OperatorDependencies bundles repositories for the operator service.
type OperatorDependencies struct {
	OperatorRepo repository.OperatorRepository
	SourceRepo   repository.SourceRepository
	AffinityRepo repository.AffinityRepository
	Dispatcher   events.Dispatcher
}

// OperatorCreateInput describes operator creation payload.
type OperatorCreateInput struct {
	Name     string
	Email    *string
	Password *string
	Role     domain.OperatorRole
	IsActive *bool
	MaxLoad  int
}

// OperatorUpdateInput describes a partial administrative update.
type OperatorUpdateInput struct {
	Name     *string
	IsActive *bool
	MaxLoad  *int
}

// AffinityInput describes an operator-source weight upsert.
type AffinityInput struct {
	OperatorID string
	SourceID   string
	Weight     int
}

// NewOperatorService constructs the service.
func NewOperatorService(deps OperatorDependencies, bcryptCost int) *OperatorService {
	return &OperatorService{
		operators:  deps.OperatorRepo,
		sources:    deps.SourceRepo,
		affinities: deps.AffinityRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: bcryptCost,
	}
}

// CreateOperator registers a new operator.
func (s *OperatorService) CreateOperator(ctx context.Context, input OperatorCreateInput) (*domain.Operator, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.MaxLoad < 0 {
		return nil, apperrors.NewValidationError("max_load must be positive", nil)
	}
	if input.Email != nil {
		if _, err := s.operators.GetByEmail(ctx, *input.Email); err == nil {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": *input.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	operator := &domain.Operator{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Role:     input.Role,
		IsActive: true,
		MaxLoad:  input.MaxLoad,
	}
	if operator.Role == "" {
		operator.Role = domain.OperatorRoleOperator
	}
	if operator.MaxLoad == 0 {
		operator.MaxLoad = defaultMaxLoad
	}
	if input.IsActive != nil {
		operator.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		operator.PasswordHash = &hash
	}

	if err := s.operators.Create(ctx, operator); err != nil {
		return nil, apperrors.MapError(err)
	}
	return operator, nil
}

// UpdateOperator applies a partial update. Activity and capacity changes take
// effect at the next routing snapshot; in-flight assignments are untouched.
func (s *OperatorService) UpdateOperator(ctx context.Context, operatorID string, input OperatorUpdateInput) (*domain.Operator, error) {
	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": operatorID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.NewValidationError("name required", nil)
		}
		operator.Name = strings.TrimSpace(*input.Name)
	}
	if input.IsActive != nil {
		operator.IsActive = *input.IsActive
	}
	if input.MaxLoad != nil {
		if *input.MaxLoad <= 0 {
			return nil, apperrors.NewValidationError("max_load must be positive", nil)
		}
		operator.MaxLoad = *input.MaxLoad
	}

	if err := s.operators.Update(ctx, operator); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventOperatorUpdated,
		EntityID: operator.ID,
		Payload: events.OperatorUpdatedPayload{
			IsActive: operator.IsActive,
			MaxLoad:  operator.MaxLoad,
			Role:     operator.Role,
		},
	})
	return operator, nil
}

// ListOperators returns operators matching the filter.
func (s *OperatorService) ListOperators(ctx context.Context, filter repository.OperatorFilter) ([]domain.Operator, error) {
	operators, err := s.operators.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return operators, nil
}

// SetAffinity upserts the weight for an operator-source pair. Weight zero is
// a valid link that keeps the pair out of random selection.
func (s *OperatorService) SetAffinity(ctx context.Context, input AffinityInput) (*domain.Affinity, error) {
	if input.Weight < 0 {
		return nil, apperrors.NewValidationError("weight must be non-negative", map[string]any{"weight": input.Weight})
	}
	if _, err := s.operators.GetByID(ctx, input.OperatorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": input.OperatorID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.sources.GetByID(ctx, input.SourceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("source", map[string]any{"source_id": input.SourceID})
		}
		return nil, apperrors.MapError(err)
	}

	affinity := &domain.Affinity{
		OperatorID: input.OperatorID,
		SourceID:   input.SourceID,
		Weight:     input.Weight,
	}
	if err := s.affinities.Upsert(ctx, affinity); err != nil {
		return nil, apperrors.MapError(err)
	}
	return affinity, nil
}

// ListAffinities returns affinity links matching the filter.
func (s *OperatorService) ListAffinities(ctx context.Context, filter repository.AffinityFilter) ([]domain.Affinity, error) {
	affinities, err := s.affinities.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return affinities, nil
}

func (s *OperatorService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
