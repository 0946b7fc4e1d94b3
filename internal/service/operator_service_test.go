package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

func newOperatorService() (*OperatorService, *fakeOperatorRepo, *fakeSourceRepo, *fakeAffinityRepo) {
	operators := newFakeOperatorRepo()
	sources := newFakeSourceRepo()
	affinities := newFakeAffinityRepo(operators)
	service := NewOperatorService(OperatorDependencies{
		OperatorRepo: operators,
		SourceRepo:   sources,
		AffinityRepo: affinities,
	}, 4)
	return service, operators, sources, affinities
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestCreateOperator_AppliesDefaults(t *testing.T) {
	service, _, _, _ := newOperatorService()

	operator, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "  Alice  "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", operator.Name)
	assert.Equal(t, domain.OperatorRoleOperator, operator.Role)
	assert.True(t, operator.IsActive)
	assert.Equal(t, defaultMaxLoad, operator.MaxLoad)
	assert.Nil(t, operator.PasswordHash)
}

func TestCreateOperator_EmptyNameRejected(t *testing.T) {
	service, _, _, _ := newOperatorService()

	_, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "  "})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateOperator_DuplicateEmailConflict(t *testing.T) {
	service, _, _, _ := newOperatorService()

	_, err := service.CreateOperator(context.Background(), OperatorCreateInput{
		Name:  "Alice",
		Email: strPtr("alice@example.com"),
	})
	require.NoError(t, err)

	_, err = service.CreateOperator(context.Background(), OperatorCreateInput{
		Name:  "Another Alice",
		Email: strPtr("alice@example.com"),
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestCreateOperator_HashesPassword(t *testing.T) {
	service, _, _, _ := newOperatorService()

	operator, err := service.CreateOperator(context.Background(), OperatorCreateInput{
		Name:     "Alice",
		Email:    strPtr("alice@example.com"),
		Password: strPtr("s3cret"),
	})
	require.NoError(t, err)
	require.NotNil(t, operator.PasswordHash)
	assert.NotEqual(t, "s3cret", *operator.PasswordHash)
}

func TestUpdateOperator_PartialUpdate(t *testing.T) {
	service, _, _, _ := newOperatorService()
	operator, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "Alice", MaxLoad: 5})
	require.NoError(t, err)

	updated, err := service.UpdateOperator(context.Background(), operator.ID, OperatorUpdateInput{
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, 5, updated.MaxLoad)
}

func TestUpdateOperator_RejectsNonPositiveMaxLoad(t *testing.T) {
	service, _, _, _ := newOperatorService()
	operator, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "Alice"})
	require.NoError(t, err)

	_, err = service.UpdateOperator(context.Background(), operator.ID, OperatorUpdateInput{
		MaxLoad: intPtr(0),
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateOperator_UnknownNotFound(t *testing.T) {
	service, _, _, _ := newOperatorService()

	_, err := service.UpdateOperator(context.Background(), "missing", OperatorUpdateInput{
		Name: strPtr("Bob"),
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSetAffinity_UpsertsWeight(t *testing.T) {
	service, _, sources, _ := newOperatorService()
	operator, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "Alice"})
	require.NoError(t, err)
	source := &domain.Source{Name: "landing"}
	require.NoError(t, sources.Create(context.Background(), source))

	first, err := service.SetAffinity(context.Background(), AffinityInput{
		OperatorID: operator.ID,
		SourceID:   source.ID,
		Weight:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, first.Weight)

	// repeated writes replace the weight, including down to zero
	second, err := service.SetAffinity(context.Background(), AffinityInput{
		OperatorID: operator.ID,
		SourceID:   source.ID,
		Weight:     0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Weight)
	assert.Equal(t, first.ID, second.ID)

	links, err := service.ListAffinities(context.Background(), repository.AffinityFilter{OperatorID: &operator.ID})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 0, links[0].Weight)
}

func TestSetAffinity_NegativeWeightRejected(t *testing.T) {
	service, _, _, _ := newOperatorService()

	_, err := service.SetAffinity(context.Background(), AffinityInput{
		OperatorID: "op",
		SourceID:   "src",
		Weight:     -1,
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestSetAffinity_UnknownOperatorNotFound(t *testing.T) {
	service, _, sources, _ := newOperatorService()
	source := &domain.Source{Name: "landing"}
	require.NoError(t, sources.Create(context.Background(), source))

	_, err := service.SetAffinity(context.Background(), AffinityInput{
		OperatorID: "missing",
		SourceID:   source.ID,
		Weight:     1,
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListOperators_FiltersByActivity(t *testing.T) {
	service, _, _, _ := newOperatorService()
	_, err := service.CreateOperator(context.Background(), OperatorCreateInput{Name: "Alice"})
	require.NoError(t, err)
	_, err = service.CreateOperator(context.Background(), OperatorCreateInput{Name: "Bob", IsActive: boolPtr(false)})
	require.NoError(t, err)

	active, err := service.ListOperators(context.Background(), repository.OperatorFilter{IsActive: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alice", active[0].Name)
}
