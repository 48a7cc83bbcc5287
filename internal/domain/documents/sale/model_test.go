package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
	"dealerdesk/internal/domain/catalogs/vehicle"
)

func TestComputeTotal(t *testing.T) {
	total := ComputeTotal(
		types.NewMoneyFromInt(600000),
		types.NewMoneyFromInt(10000),
		types.NewMoneyFromInt(5000),
	)
	assert.True(t, total.Equal(types.NewMoneyFromInt(595000)))
}

func TestNewSale(t *testing.T) {
	doc := NewSale(id.New(), id.New(),
		types.NewMoneyFromInt(600000),
		types.NewMoneyFromInt(10000),
		types.NewMoneyFromInt(5000),
	)

	assert.True(t, doc.TotalAmount.Equal(types.NewMoneyFromInt(595000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(595000)))
	assert.Equal(t, StatusCompleted, doc.Status)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestStatusVehicleTarget(t *testing.T) {
	assert.Equal(t, vehicle.StatusSold, StatusCompleted.VehicleTarget())
	assert.Equal(t, vehicle.StatusReserved, StatusReserved.VehicleTarget())
}

func TestApplyPayment(t *testing.T) {
	doc := NewSale(id.New(), id.New(),
		types.NewMoneyFromInt(600000), types.Zero(), types.Zero())

	require.NoError(t, doc.ApplyPayment(types.NewMoneyFromInt(200000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(400000)))

	err := doc.ApplyPayment(types.NewMoneyFromInt(500000))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverpayment, appErr.Code)
}

func TestApplyPayment_EMIRejected(t *testing.T) {
	doc := NewSale(id.New(), id.New(),
		types.NewMoneyFromInt(600000), types.Zero(), types.Zero())
	doc.IsEMI = true

	err := doc.ApplyPayment(types.NewMoneyFromInt(100000))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEMISalePayment, appErr.Code)
}

func TestSetAmounts(t *testing.T) {
	doc := NewSale(id.New(), id.New(),
		types.NewMoneyFromInt(600000), types.Zero(), types.Zero())
	require.NoError(t, doc.ApplyPayment(types.NewMoneyFromInt(200000)))

	// Repricing below the amount already paid is an overpayment
	err := doc.SetAmounts(types.NewMoneyFromInt(150000), types.Zero(), types.Zero())
	require.Error(t, err)

	require.NoError(t, doc.SetAmounts(
		types.NewMoneyFromInt(500000),
		types.NewMoneyFromInt(10000),
		types.NewMoneyFromInt(5000),
	))
	assert.True(t, doc.TotalAmount.Equal(types.NewMoneyFromInt(495000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(295000)))
	require.NoError(t, doc.Validate(context.Background()))
}
