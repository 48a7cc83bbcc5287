package purchase

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
	"dealerdesk/internal/domain/catalogs/vehicle"
	"dealerdesk/internal/domain/registers/payment"
)

// --- Mocks ---

// passthroughTx runs the function directly; transactional behavior is
// covered by the postgres integration layer.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	docs map[id.ID]*Purchase
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[id.ID]*Purchase)}
}

func (m *mockRepo) Create(ctx context.Context, doc *Purchase) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, docID id.ID) (*Purchase, error) {
	doc, ok := m.docs[docID]
	if !ok || doc.DeletionMark {
		return nil, apperror.NewNotFound("purchase", docID)
	}
	return doc, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Purchase, error) {
	for _, doc := range m.docs {
		if doc.Number == number && !doc.DeletionMark {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("purchase", number)
}

func (m *mockRepo) Update(ctx context.Context, doc *Purchase) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, docID id.ID) error {
	doc, ok := m.docs[docID]
	if !ok {
		return apperror.NewNotFound("purchase", docID)
	}
	doc.DeletionMark = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	var items []*Purchase
	for _, doc := range m.docs {
		if !doc.DeletionMark {
			items = append(items, doc)
		}
	}
	return domain.ListResult[*Purchase]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Purchase, error) {
	return m.GetByID(ctx, docID)
}

func (m *mockRepo) ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*Purchase, error) {
	for _, doc := range m.docs {
		if doc.VehicleID == vehicleID && !doc.DeletionMark {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("purchase", vehicleID)
}

type mockVehicles struct {
	vehicles map[id.ID]*vehicle.Vehicle
}

func newMockVehicles(vehicles ...*vehicle.Vehicle) *mockVehicles {
	m := &mockVehicles{vehicles: make(map[id.ID]*vehicle.Vehicle)}
	for _, v := range vehicles {
		m.vehicles[v.ID] = v
	}
	return m
}

func (m *mockVehicles) GetForUpdate(ctx context.Context, vehicleID id.ID) (*vehicle.Vehicle, error) {
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, apperror.NewNotFound("vehicle", vehicleID)
	}
	return v, nil
}

func (m *mockVehicles) Update(ctx context.Context, v *vehicle.Vehicle) error {
	m.vehicles[v.ID] = v
	return nil
}

type mockPayments struct {
	entries []*payment.Entry
}

func (m *mockPayments) Append(ctx context.Context, entry *payment.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockPayments) ListFor(ctx context.Context, refType payment.ReferenceType, refID id.ID) ([]*payment.Entry, error) {
	var out []*payment.Entry
	for _, e := range m.entries {
		if e.ReferenceType != refType {
			continue
		}
		if refType == payment.RefPurchase && e.PurchaseID != nil && *e.PurchaseID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockPayments) SumFor(ctx context.Context, refType payment.ReferenceType, refID id.ID) (types.Money, error) {
	sum := types.Zero()
	entries, _ := m.ListFor(ctx, refType, refID)
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	vehicles *mockVehicles
	payments *mockPayments
	vehicle  *vehicle.Vehicle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	veh := vehicle.NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")

	repo := newMockRepo()
	vehicles := newMockVehicles(veh)
	payments := &mockPayments{}

	svc := NewService(
		repo,
		vehicles,
		payment.NewJournal(payments),
		&numerator.MockGenerator{},
		passthroughTx{},
		nil,
	)

	return &fixture{svc: svc, repo: repo, vehicles: vehicles, payments: payments, vehicle: veh}
}

// --- Tests ---

func TestCreate_WithInitialPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "100000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.Number)
	assert.True(t, doc.AmountPaid.Equal(types.NewMoneyFromInt(100000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(400000)))

	// Vehicle moved to purchased with the acquisition price
	assert.True(t, f.vehicle.IsPurchased())
	assert.True(t, f.vehicle.PurchasePrice.Equal(types.NewMoneyFromInt(500000)))

	// Initial payment journaled
	require.Len(t, f.payments.entries, 1)
	assert.Equal(t, payment.PurposeInitial, f.payments.entries[0].Purpose)
	assert.Equal(t, payment.PartyVendor, f.payments.entries[0].PartyType)
}

func TestCreate_InitialPaymentExceedsPrice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "600000",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverpayment, appErr.Code)

	// Nothing persisted, vehicle untouched
	assert.Empty(t, f.repo.docs)
	assert.False(t, f.vehicle.IsPurchased())
}

func TestCreate_NegativeInitialPaymentRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "-1000",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	assert.Empty(t, f.repo.docs)
	assert.False(t, f.vehicle.IsPurchased())
}

func TestCreate_VehicleAlreadyPurchased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		VehicleID:     f.vehicle.ID,
		VendorID:      id.New(),
		PurchasePrice: "500000",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateInput{
		VehicleID:     f.vehicle.ID,
		VendorID:      id.New(),
		PurchasePrice: "400000",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestAddPayment_SettlesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "100000",
	})
	require.NoError(t, err)

	// 450000 exceeds the remaining 400000
	_, err = f.svc.AddPayment(ctx, doc.ID, PaymentInput{Amount: "450000"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverpayment, appErr.Code)

	updated, err := f.svc.AddPayment(ctx, doc.ID, PaymentInput{Amount: "400000", Mode: payment.ModeBankTransfer})
	require.NoError(t, err)
	assert.True(t, updated.IsSettled())

	entries, total, err := f.svc.Payments(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, total.Equal(types.MustMoney("500000")))
}

func TestUpdate_VersionMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:     f.vehicle.ID,
		VendorID:      id.New(),
		PurchasePrice: "500000",
	})
	require.NoError(t, err)

	notes := "negotiated"
	_, err = f.svc.Update(ctx, doc.ID, UpdateInput{Notes: &notes, Version: doc.Version + 1})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConcurrentModification, appErr.Code)
}

func TestUpdate_PriceLockedAfterPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "100000",
	})
	require.NoError(t, err)

	newPrice := "550000"
	_, err = f.svc.Update(ctx, doc.ID, UpdateInput{PurchasePrice: &newPrice, Version: doc.Version})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdate_PriceChangeWhileUnpaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:     f.vehicle.ID,
		VendorID:      id.New(),
		PurchasePrice: "500000",
	})
	require.NoError(t, err)

	newPrice := "550000"
	updated, err := f.svc.Update(ctx, doc.ID, UpdateInput{PurchasePrice: &newPrice, Version: doc.Version})
	require.NoError(t, err)
	assert.True(t, updated.BalanceAmount.Equal(types.NewMoneyFromInt(550000)))

	// Vehicle price follows the ledger
	assert.True(t, f.vehicle.PurchasePrice.Equal(types.NewMoneyFromInt(550000)))
}

func TestDelete_RefusedWithPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:      f.vehicle.ID,
		VendorID:       id.New(),
		PurchasePrice:  "500000",
		InitialPayment: "100000",
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, doc.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeHasPayments, appErr.Code)

	// Still present and the vehicle stays purchased
	_, err = f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, f.vehicle.IsPurchased())
}

func TestDelete_RevertsVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:     f.vehicle.ID,
		VendorID:      id.New(),
		PurchasePrice: "500000",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, doc.ID))

	assert.False(t, f.vehicle.IsPurchased())
	assert.Nil(t, f.vehicle.VendorID)

	_, err = f.svc.GetByID(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
