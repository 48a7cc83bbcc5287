package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/numerator"
)

func newServiceFixture() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx{}, &numerator.MockGenerator{})
	return svc, repo
}

func TestServiceCreate_DefaultsCodeAndStatus(t *testing.T) {
	svc, repo := newServiceFixture()

	l := NewLead("", "Walk-in buyer", TypeBuying)
	l.Phone = "+919876543210"

	require.NoError(t, svc.Create(context.Background(), l))
	assert.NotEmpty(t, l.Code)
	assert.Equal(t, StatusNew, l.Status)
	assert.Contains(t, repo.leads, l.ID)
}

func TestServiceChangeStatus(t *testing.T) {
	svc, repo := newServiceFixture()
	ctx := context.Background()

	l := NewLead("LD-2026-00001", "Buyer", TypeBuying)
	l.Phone = "+919876543210"
	repo.leads[l.ID] = l

	updated, err := svc.ChangeStatus(ctx, l.ID, StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)

	_, err = svc.ChangeStatus(ctx, l.ID, StatusNew)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbiddenTransition, appErr.Code)
}

func TestServiceChangeStatus_ConvertedLeadLocked(t *testing.T) {
	svc, repo := newServiceFixture()

	l := NewLead("LD-2026-00002", "Converted buyer", TypeBuying)
	l.Phone = "+919876543210"
	require.NoError(t, l.MarkConverted(id.New()))
	repo.leads[l.ID] = l

	_, err := svc.ChangeStatus(context.Background(), l.ID, StatusLost)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyConverted, appErr.Code)
}

func TestServiceUpdate_GuardsConversionFields(t *testing.T) {
	svc, repo := newServiceFixture()
	ctx := context.Background()

	stored := NewLead("LD-2026-00003", "Buyer", TypeBuying)
	stored.Phone = "+919876543210"
	repo.leads[stored.ID] = stored

	t.Run("type change rejected", func(t *testing.T) {
		patch := *stored
		patch.Type = TypeSelling
		err := svc.Update(ctx, &patch)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("manual conversion flag rejected", func(t *testing.T) {
		patch := *stored
		ref := id.New()
		patch.Converted = true
		patch.ConvertedRefID = &ref
		err := svc.Update(ctx, &patch)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("skipping the transition table rejected", func(t *testing.T) {
		patch := *stored
		patch.Status = StatusLost
		require.NoError(t, svc.Update(ctx, &patch))

		repo.leads[stored.ID].Status = StatusLost
		next := *repo.leads[stored.ID]
		next.Status = StatusQualified
		err := svc.Update(ctx, &next)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeForbiddenTransition, appErr.Code)
	})
}
