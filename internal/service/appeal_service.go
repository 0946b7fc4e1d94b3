package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/appeal-router/internal/assignment"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/events"
	"github.com/spec-kit/appeal-router/internal/observability"
	"github.com/spec-kit/appeal-router/internal/repository"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// AppealService coordinates appeal intake, routing, and resolution.
type AppealService struct {
	sources    repository.SourceRepository
	leads      repository.LeadRepository
	appeals    repository.AppealRepository
	router     *assignment.Router
	guard      assignment.Guard
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AppealDependencies bundles collaborators for the appeal service.
type AppealDependencies struct {
	SourceRepo repository.SourceRepository
	LeadRepo   repository.LeadRepository
	AppealRepo repository.AppealRepository
	Router     *assignment.Router
	Guard      assignment.Guard
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// AppealCreateInput describes appeal intake payload.
type AppealCreateInput struct {
	ExternalID string
	SourceID   string
	Message    *string
}

// NewAppealService constructs the service.
func NewAppealService(deps AppealDependencies) *AppealService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppealService{
		sources:    deps.SourceRepo,
		leads:      deps.LeadRepo,
		appeals:    deps.AppealRepo,
		router:     deps.Router,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreateAppeal records an inbound contact event and routes it to at most one
// operator. The routed operator is fixed at creation time and never
// reassigned. Each call creates a new appeal even for a known lead; only the
// lead record itself is deduplicated.
func (s *AppealService) CreateAppeal(ctx context.Context, input AppealCreateInput) (*domain.Appeal, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, apperrors.NewValidationError("external_id required", nil)
	}
	source, err := s.sources.GetByID(ctx, input.SourceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("source", map[string]any{"source_id": input.SourceID})
		}
		return nil, apperrors.NewUnavailable("source lookup failed", err)
	}

	lead, err := s.leads.GetOrCreate(ctx, input.ExternalID)
	if err != nil {
		return nil, apperrors.NewUnavailable("lead lookup failed", err)
	}

	decision, err := s.router.Assign(ctx, source.ID)
	if err != nil {
		return nil, apperrors.NewUnavailable("operator directory unavailable", err)
	}
	s.metrics.RecordAssignment(source.ID, string(decision.Reason))

	appeal := &domain.Appeal{
		LeadID:   lead.ID,
		SourceID: source.ID,
		Status:   domain.AppealStatusOpen,
		Message:  input.Message,
	}
	if decision.Assigned() {
		operatorID := decision.OperatorID
		appeal.OperatorID = &operatorID
	}

	if err := s.appeals.Create(ctx, appeal); err != nil {
		// the reservation must not outlive a failed write
		if decision.Assigned() {
			if releaseErr := s.guard.Release(ctx, decision.OperatorID); releaseErr != nil {
				s.logger.Error("failed to release reservation after write failure",
					zap.String("operator_id", decision.OperatorID),
					zap.Error(releaseErr))
			}
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("appeal routed",
		zap.String("appeal_id", appeal.ID),
		zap.String("source_id", source.ID),
		zap.String("reason", string(decision.Reason)))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventAppealCreated,
		EntityID: appeal.ID,
		Payload: events.AppealCreatedPayload{
			LeadID:   appeal.LeadID,
			SourceID: appeal.SourceID,
			Reason:   decision.Reason,
		},
	})
	if decision.Assigned() {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventAppealAssigned,
			EntityID: appeal.ID,
			Payload: events.AppealAssignedPayload{
				OperatorID: decision.OperatorID,
				SourceID:   appeal.SourceID,
			},
		})
	}
	return appeal, nil
}

// ResolveAppeal marks an appeal resolved and releases its operator's load
// unit. Resolution is terminal; resolving twice is a conflict.
func (s *AppealService) ResolveAppeal(ctx context.Context, appealID string) (*domain.Appeal, error) {
	appeal, err := s.appeals.MarkResolved(ctx, appealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := s.appeals.GetByID(ctx, appealID); getErr == nil {
				return nil, apperrors.NewConflict("appeal already resolved", map[string]any{"appeal_id": appealID})
			}
			return nil, apperrors.NewNotFound("appeal", map[string]any{"appeal_id": appealID})
		}
		return nil, apperrors.MapError(err)
	}

	if appeal.OperatorID != nil {
		if err := s.guard.Release(ctx, *appeal.OperatorID); err != nil {
			s.logger.Error("failed to release load on resolve",
				zap.String("operator_id", *appeal.OperatorID),
				zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventAppealResolved,
		EntityID: appeal.ID,
		Payload: events.AppealResolvedPayload{
			OperatorID: appeal.OperatorID,
			SourceID:   appeal.SourceID,
		},
	})
	return appeal, nil
}

// GetAppeal fetches one appeal.
func (s *AppealService) GetAppeal(ctx context.Context, appealID string) (*domain.Appeal, error) {
	appeal, err := s.appeals.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appeal", map[string]any{"appeal_id": appealID})
		}
		return nil, apperrors.MapError(err)
	}
	return appeal, nil
}

// ListAppeals returns appeals matching the filter.
func (s *AppealService) ListAppeals(ctx context.Context, filter repository.AppealFilter) ([]domain.Appeal, error) {
	appeals, err := s.appeals.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appeals, nil
}

// ListLeads returns leads with their appeal counts.
func (s *AppealService) ListLeads(ctx context.Context, limit, offset int) ([]repository.LeadWithCount, error) {
	leads, err := s.leads.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leads, nil
}

// GetLead fetches one lead with its appeals.
func (s *AppealService) GetLead(ctx context.Context, leadID string) (*domain.Lead, []domain.Appeal, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("lead", map[string]any{"lead_id": leadID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	appeals, err := s.appeals.ListWithFilter(ctx, repository.AppealFilter{LeadID: &lead.ID})
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return lead, appeals, nil
}

// SeedLoads reconciles the guard counters from the open appeal counts in
// storage, called once at startup.
func (s *AppealService) SeedLoads(ctx context.Context) error {
	loads, err := s.appeals.OpenLoads(ctx)
	if err != nil {
		return err
	}
	if err := s.guard.Seed(ctx, loads); err != nil {
		return err
	}
	s.logger.Info("load counters seeded", zap.Int("operators", len(loads)))
	return nil
}

func (s *AppealService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
