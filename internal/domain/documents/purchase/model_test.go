package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/core/types"
)

func TestNewPurchase(t *testing.T) {
	doc := NewPurchase(id.New(), id.New(), types.NewMoneyFromInt(500000))

	assert.True(t, doc.AmountPaid.IsZero())
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(500000)))
	assert.False(t, doc.HasPayments())
	assert.False(t, doc.IsSettled())
	require.NoError(t, doc.Validate(context.Background()))
}

func TestApplyPayment(t *testing.T) {
	doc := NewPurchase(id.New(), id.New(), types.NewMoneyFromInt(500000))

	require.NoError(t, doc.ApplyPayment(types.NewMoneyFromInt(100000)))
	assert.True(t, doc.AmountPaid.Equal(types.NewMoneyFromInt(100000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(400000)))

	// Paying more than the open balance is rejected
	err := doc.ApplyPayment(types.NewMoneyFromInt(450000))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverpayment, appErr.Code)

	// Balance unchanged after the rejected payment
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(400000)))

	// Paying exactly the balance settles the document
	require.NoError(t, doc.ApplyPayment(types.NewMoneyFromInt(400000)))
	assert.True(t, doc.IsSettled())
	assert.True(t, doc.BalanceAmount.IsZero())

	// Nothing left to pay
	require.Error(t, doc.ApplyPayment(types.NewMoneyFromInt(1)))
}

func TestApplyPayment_NonPositive(t *testing.T) {
	doc := NewPurchase(id.New(), id.New(), types.NewMoneyFromInt(500000))

	require.Error(t, doc.ApplyPayment(types.Zero()))
	require.Error(t, doc.ApplyPayment(types.NewMoneyFromInt(-100)))
}

func TestValidate_Inconsistencies(t *testing.T) {
	ctx := context.Background()

	doc := NewPurchase(id.New(), id.New(), types.NewMoneyFromInt(500000))
	doc.AmountPaid = types.NewMoneyFromInt(600000)
	err := doc.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverpayment, appErr.Code)

	doc = NewPurchase(id.New(), id.New(), types.NewMoneyFromInt(500000))
	doc.BalanceAmount = types.NewMoneyFromInt(1)
	require.Error(t, doc.Validate(ctx))

	doc = NewPurchase(id.Nil(), id.New(), types.NewMoneyFromInt(500000))
	require.Error(t, doc.Validate(ctx))

	doc = NewPurchase(id.New(), id.New(), types.Zero())
	require.Error(t, doc.Validate(ctx))
}
