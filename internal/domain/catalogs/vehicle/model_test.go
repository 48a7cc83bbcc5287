package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusInStock, StatusReserved, true},
		{StatusInStock, StatusSold, true},
		{StatusReserved, StatusInStock, true},
		{StatusReserved, StatusSold, true},
		{StatusSold, StatusInStock, true},
		{StatusSold, StatusReserved, false},
		// self-transition is a no-op, always allowed
		{StatusInStock, StatusInStock, true},
		{StatusSold, StatusSold, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestMarkPurchased(t *testing.T) {
	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	vendorID := id.New()
	price := types.NewMoneyFromInt(500000)

	require.NoError(t, v.MarkPurchased(vendorID, price))
	assert.Equal(t, PurchasePurchased, v.PurchaseStatus)
	assert.Equal(t, &vendorID, v.VendorID)
	assert.True(t, price.Equal(v.PurchasePrice))

	// Double purchase is a conflict
	err := v.MarkPurchased(id.New(), price)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestMarkPurchased_Guards(t *testing.T) {
	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")

	err := v.MarkPurchased(id.Nil(), types.NewMoneyFromInt(500000))
	require.Error(t, err)

	err = v.MarkPurchased(id.New(), types.Zero())
	require.Error(t, err)
	assert.Equal(t, PurchaseListing, v.PurchaseStatus)
}

func TestMarkSold(t *testing.T) {
	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	require.NoError(t, v.MarkSold(StatusReserved))
	assert.Equal(t, StatusReserved, v.Status)

	require.NoError(t, v.MarkSold(StatusSold))
	assert.Equal(t, StatusSold, v.Status)

	// in_stock is not a sale target
	err := v.MarkSold(StatusInStock)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbiddenTransition, appErr.Code)
}

func TestRelease(t *testing.T) {
	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	require.NoError(t, v.MarkSold(StatusSold))

	v.Release()
	assert.Equal(t, StatusInStock, v.Status)
}

func TestRevertToListing(t *testing.T) {
	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	require.NoError(t, v.MarkPurchased(id.New(), types.NewMoneyFromInt(500000)))
	v.IsPublic = true

	v.RevertToListing()
	assert.Equal(t, PurchaseListing, v.PurchaseStatus)
	assert.Nil(t, v.VendorID)
	assert.False(t, v.IsPublic)
}

func TestValidate_VendorPairing(t *testing.T) {
	ctx := context.Background()

	v := NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	require.NoError(t, v.Validate(ctx))

	// purchased without vendor
	v.PurchaseStatus = PurchasePurchased
	require.Error(t, v.Validate(ctx))

	// listing with vendor
	v.PurchaseStatus = PurchaseListing
	vendorID := id.New()
	v.VendorID = &vendorID
	require.Error(t, v.Validate(ctx))
}
