package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"new to contacted", StatusNew, StatusContacted, true},
		{"new to qualified", StatusNew, StatusQualified, true},
		{"new to lost", StatusNew, StatusLost, true},
		{"contacted to qualified", StatusContacted, StatusQualified, true},
		{"qualified back to contacted", StatusQualified, StatusContacted, true},
		{"lost reopens to contacted", StatusLost, StatusContacted, true},
		{"lost to qualified", StatusLost, StatusQualified, false},
		{"lost to new", StatusLost, StatusNew, false},
		{"contacted to new", StatusContacted, StatusNew, false},
		{"qualified to new", StatusQualified, StatusNew, false},
		{"self transition", StatusContacted, StatusContacted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestChangeStatus(t *testing.T) {
	l := NewLead("LD-2026-00001", "Walk-in buyer", TypeBuying)
	require.Equal(t, StatusNew, l.Status)

	require.NoError(t, l.ChangeStatus(StatusContacted))
	assert.Equal(t, StatusContacted, l.Status)

	require.NoError(t, l.ChangeStatus(StatusLost))
	assert.Equal(t, StatusLost, l.Status)

	err := l.ChangeStatus(StatusQualified)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbiddenTransition, appErr.Code)
	assert.Equal(t, StatusLost, l.Status)

	require.NoError(t, l.ChangeStatus(StatusContacted))
	assert.Equal(t, StatusContacted, l.Status)
}

func TestMarkConverted(t *testing.T) {
	l := NewLead("LD-2026-00002", "Seller lead", TypeSelling)
	refID := id.New()

	require.NoError(t, l.MarkConverted(refID))
	assert.True(t, l.Converted)
	require.NotNil(t, l.ConvertedRefID)
	assert.Equal(t, refID, *l.ConvertedRefID)
	assert.Equal(t, StatusQualified, l.Status)

	err := l.MarkConverted(id.New())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyConverted, appErr.Code)
	assert.Equal(t, refID, *l.ConvertedRefID)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	l := NewLead("LD-2026-00003", "Buyer lead", TypeBuying)
	l.Phone = "+919876543210"
	require.NoError(t, l.Validate(ctx))

	t.Run("missing phone", func(t *testing.T) {
		bad := NewLead("LD-2026-00004", "No phone", TypeBuying)
		require.Error(t, bad.Validate(ctx))
	})

	t.Run("unknown type", func(t *testing.T) {
		bad := NewLead("LD-2026-00005", "Bad type", Type("renting"))
		bad.Phone = "+919876543210"
		require.Error(t, bad.Validate(ctx))
	})

	t.Run("converted without ref", func(t *testing.T) {
		bad := NewLead("LD-2026-00006", "Half converted", TypeBuying)
		bad.Phone = "+919876543210"
		bad.Converted = true
		require.Error(t, bad.Validate(ctx))
	})
}
