package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/numerator"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	vehicles map[id.ID]*Vehicle
}

func newMockRepo() *mockRepo {
	return &mockRepo{vehicles: make(map[id.ID]*Vehicle)}
}

func (m *mockRepo) Create(ctx context.Context, v *Vehicle) error {
	m.vehicles[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, vehicleID id.ID) (*Vehicle, error) {
	v, ok := m.vehicles[vehicleID]
	if !ok || v.DeletionMark {
		return nil, apperror.NewNotFound("vehicle", vehicleID)
	}
	return v, nil
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*Vehicle, error) {
	for _, v := range m.vehicles {
		if v.Code == code && !v.DeletionMark {
			return v, nil
		}
	}
	return nil, apperror.NewNotFound("vehicle", code)
}

func (m *mockRepo) Update(ctx context.Context, v *Vehicle) error {
	m.vehicles[v.ID] = v
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, vehicleID id.ID) error {
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return apperror.NewNotFound("vehicle", vehicleID)
	}
	v.DeletionMark = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Vehicle], error) {
	var items []*Vehicle
	for _, v := range m.vehicles {
		if !v.DeletionMark {
			items = append(items, v)
		}
	}
	return domain.ListResult[*Vehicle]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *mockRepo) Exists(ctx context.Context, vehicleID id.ID) (bool, error) {
	_, ok := m.vehicles[vehicleID]
	return ok, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, vehicleID id.ID) (*Vehicle, error) {
	return m.GetByID(ctx, vehicleID)
}

func newServiceFixture() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, passthroughTx{}, &numerator.MockGenerator{})
	return svc, repo
}

func storedPurchased(t *testing.T, repo *mockRepo) *Vehicle {
	t.Helper()
	v := NewVehicle("VEH-2026-00001", "Swift VXI 2021", "Maruti", "Swift")
	require.NoError(t, v.MarkPurchased(id.New(), types.MustMoney("450000")))
	repo.vehicles[v.ID] = v
	return v
}

func TestServiceCreate_DefaultsCodeAndLifecycle(t *testing.T) {
	svc, repo := newServiceFixture()

	v := NewVehicle("", "City ZX 2019", "Honda", "City")
	require.NoError(t, svc.Create(context.Background(), v))
	assert.NotEmpty(t, v.Code)
	assert.Equal(t, PurchaseListing, v.PurchaseStatus)
	assert.Equal(t, StatusInStock, v.Status)
	assert.Contains(t, repo.vehicles, v.ID)
}

func TestServiceUpdate_GuardsLifecycleFields(t *testing.T) {
	svc, repo := newServiceFixture()
	ctx := context.Background()

	stored := storedPurchased(t, repo)

	requireForbidden := func(t *testing.T, err error) {
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeForbiddenTransition, appErr.Code)
	}

	t.Run("status edit rejected", func(t *testing.T) {
		patch := *stored
		patch.Status = StatusSold
		requireForbidden(t, svc.Update(ctx, &patch))
	})

	t.Run("purchase status flip rejected", func(t *testing.T) {
		patch := *stored
		patch.PurchaseStatus = PurchaseListing
		patch.VendorID = nil
		requireForbidden(t, svc.Update(ctx, &patch))
	})

	t.Run("vendor change rejected", func(t *testing.T) {
		patch := *stored
		other := id.New()
		patch.VendorID = &other
		requireForbidden(t, svc.Update(ctx, &patch))
	})

	t.Run("locked purchase price rejected", func(t *testing.T) {
		patch := *stored
		patch.PurchasePrice = types.MustMoney("400000")
		requireForbidden(t, svc.Update(ctx, &patch))
	})

	t.Run("plain edit passes", func(t *testing.T) {
		patch := *stored
		patch.Name = "Swift VXI 2021 (serviced)"
		patch.SellingPrice = types.MustMoney("520000")
		require.NoError(t, svc.Update(ctx, &patch))
		assert.Equal(t, "Swift VXI 2021 (serviced)", repo.vehicles[stored.ID].Name)
	})
}
