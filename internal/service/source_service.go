package service

import (
	"context"
	"strings"

	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// SourceService handles inbound channel administration.
type SourceService struct {
	sources repository.SourceRepository
}

// NewSourceService constructs the service.
func NewSourceService(sources repository.SourceRepository) *SourceService {
	return &SourceService{sources: sources}
}

// CreateSource registers a new inbound channel.
func (s *SourceService) CreateSource(ctx context.Context, name string) (*domain.Source, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	source := &domain.Source{Name: strings.TrimSpace(name)}
	if err := s.sources.Create(ctx, source); err != nil {
		return nil, apperrors.MapError(err)
	}
	return source, nil
}

// ListSources returns registered sources.
func (s *SourceService) ListSources(ctx context.Context, limit, offset int) ([]domain.Source, error) {
	sources, err := s.sources.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sources, nil
}
