package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
)

// In-memory repository fakes. The pgx-backed implementations are thin SQL
// mappings; these fakes mirror their contracts, including pgx.ErrNoRows on
// missing rows, so services can be exercised without a database.

type fakeOperatorRepo struct {
	mu        sync.Mutex
	operators map[string]domain.Operator
}

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{operators: make(map[string]domain.Operator)}
}

func (r *fakeOperatorRepo) Create(_ context.Context, operator *domain.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	operator.ID = uuid.NewString()
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = operator.CreatedAt
	r.operators[operator.ID] = *operator
	return nil
}

func (r *fakeOperatorRepo) Update(_ context.Context, operator *domain.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operators[operator.ID]; !ok {
		return pgx.ErrNoRows
	}
	operator.UpdatedAt = time.Now()
	r.operators[operator.ID] = *operator
	return nil
}

func (r *fakeOperatorRepo) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	operator, ok := r.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &operator, nil
}

func (r *fakeOperatorRepo) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, operator := range r.operators {
		if operator.Email != nil && *operator.Email == email {
			found := operator
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOperatorRepo) List(_ context.Context, filter repository.OperatorFilter) ([]domain.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Operator
	for _, operator := range r.operators {
		if filter.Role != nil && operator.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && operator.IsActive != *filter.IsActive {
			continue
		}
		result = append(result, operator)
	}
	return result, nil
}

type fakeSourceRepo struct {
	mu      sync.Mutex
	sources map[string]domain.Source
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{sources: make(map[string]domain.Source)}
}

func (r *fakeSourceRepo) Create(_ context.Context, source *domain.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source.ID = uuid.NewString()
	source.CreatedAt = time.Now()
	r.sources[source.ID] = *source
	return nil
}

func (r *fakeSourceRepo) GetByID(_ context.Context, id string) (*domain.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &source, nil
}

func (r *fakeSourceRepo) List(_ context.Context, _, _ int) ([]domain.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Source
	for _, source := range r.sources {
		result = append(result, source)
	}
	return result, nil
}

type fakeAffinityRepo struct {
	mu         sync.Mutex
	affinities map[string]domain.Affinity // keyed operatorID|sourceID
	operators  *fakeOperatorRepo
	listErr    error
}

func newFakeAffinityRepo(operators *fakeOperatorRepo) *fakeAffinityRepo {
	return &fakeAffinityRepo{
		affinities: make(map[string]domain.Affinity),
		operators:  operators,
	}
}

func (r *fakeAffinityRepo) Upsert(_ context.Context, affinity *domain.Affinity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := affinity.OperatorID + "|" + affinity.SourceID
	if existing, ok := r.affinities[key]; ok {
		affinity.ID = existing.ID
		affinity.CreatedAt = existing.CreatedAt
	} else {
		affinity.ID = uuid.NewString()
		affinity.CreatedAt = time.Now()
	}
	affinity.UpdatedAt = time.Now()
	r.affinities[key] = *affinity
	return nil
}

func (r *fakeAffinityRepo) List(_ context.Context, filter repository.AffinityFilter) ([]domain.Affinity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Affinity
	for _, affinity := range r.affinities {
		if filter.OperatorID != nil && affinity.OperatorID != *filter.OperatorID {
			continue
		}
		if filter.SourceID != nil && affinity.SourceID != *filter.SourceID {
			continue
		}
		result = append(result, affinity)
	}
	return result, nil
}

func (r *fakeAffinityRepo) ListEligible(ctx context.Context, sourceID string) ([]domain.SourceLink, error) {
	r.mu.Lock()
	if r.listErr != nil {
		r.mu.Unlock()
		return nil, r.listErr
	}
	var affinities []domain.Affinity
	for _, affinity := range r.affinities {
		if affinity.SourceID == sourceID {
			affinities = append(affinities, affinity)
		}
	}
	r.mu.Unlock()

	var result []domain.SourceLink
	for _, affinity := range affinities {
		operator, err := r.operators.GetByID(ctx, affinity.OperatorID)
		if err != nil {
			continue
		}
		if !operator.IsActive {
			continue
		}
		result = append(result, domain.SourceLink{
			OperatorID: operator.ID,
			Weight:     affinity.Weight,
			MaxLoad:    operator.MaxLoad,
		})
	}
	return result, nil
}

type fakeLeadRepo struct {
	mu         sync.Mutex
	byExternal map[string]domain.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{byExternal: make(map[string]domain.Lead)}
}

func (r *fakeLeadRepo) GetOrCreate(_ context.Context, externalID string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead, ok := r.byExternal[externalID]; ok {
		return &lead, nil
	}
	lead := domain.Lead{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		CreatedAt:  time.Now(),
	}
	r.byExternal[externalID] = lead
	return &lead, nil
}

func (r *fakeLeadRepo) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.byExternal {
		if lead.ID == id {
			found := lead
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLeadRepo) List(_ context.Context, _, _ int) ([]repository.LeadWithCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []repository.LeadWithCount
	for _, lead := range r.byExternal {
		result = append(result, repository.LeadWithCount{Lead: lead})
	}
	return result, nil
}

func (r *fakeLeadRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byExternal)
}

type fakeAppealRepo struct {
	mu        sync.Mutex
	appeals   map[string]domain.Appeal
	createErr error
}

func newFakeAppealRepo() *fakeAppealRepo {
	return &fakeAppealRepo{appeals: make(map[string]domain.Appeal)}
}

func (r *fakeAppealRepo) Create(_ context.Context, appeal *domain.Appeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	appeal.ID = uuid.NewString()
	appeal.CreatedAt = time.Now()
	r.appeals[appeal.ID] = *appeal
	return nil
}

func (r *fakeAppealRepo) GetByID(_ context.Context, id string) (*domain.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appeal, ok := r.appeals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &appeal, nil
}

func (r *fakeAppealRepo) MarkResolved(_ context.Context, id string) (*domain.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appeal, ok := r.appeals[id]
	if !ok || appeal.Status != domain.AppealStatusOpen {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	appeal.Status = domain.AppealStatusResolved
	appeal.ResolvedAt = &now
	r.appeals[id] = appeal
	return &appeal, nil
}

func (r *fakeAppealRepo) ListWithFilter(_ context.Context, filter repository.AppealFilter) ([]domain.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appeal
	for _, appeal := range r.appeals {
		if filter.LeadID != nil && appeal.LeadID != *filter.LeadID {
			continue
		}
		if filter.SourceID != nil && appeal.SourceID != *filter.SourceID {
			continue
		}
		if filter.OperatorID != nil && (appeal.OperatorID == nil || *appeal.OperatorID != *filter.OperatorID) {
			continue
		}
		if filter.Status != nil && appeal.Status != *filter.Status {
			continue
		}
		result = append(result, appeal)
	}
	return result, nil
}

func (r *fakeAppealRepo) OpenLoads(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]int)
	for _, appeal := range r.appeals {
		if appeal.Status == domain.AppealStatusOpen && appeal.OperatorID != nil {
			result[*appeal.OperatorID]++
		}
	}
	return result, nil
}
