package sale

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
	"dealerdesk/internal/domain/emi"
	"dealerdesk/internal/domain/registers/payment"
)

// --- Mocks ---

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	docs map[id.ID]*Sale
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[id.ID]*Sale)}
}

func (m *mockRepo) Create(ctx context.Context, doc *Sale) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, ok := m.docs[docID]
	if !ok || doc.DeletionMark {
		return nil, apperror.NewNotFound("sale", docID)
	}
	return doc, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	for _, doc := range m.docs {
		if doc.Number == number && !doc.DeletionMark {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("sale", number)
}

func (m *mockRepo) Update(ctx context.Context, doc *Sale) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, docID id.ID) error {
	doc, ok := m.docs[docID]
	if !ok {
		return apperror.NewNotFound("sale", docID)
	}
	doc.DeletionMark = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	var items []*Sale
	for _, doc := range m.docs {
		if !doc.DeletionMark {
			items = append(items, doc)
		}
	}
	return domain.ListResult[*Sale]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Sale, error) {
	return m.GetByID(ctx, docID)
}

func (m *mockRepo) ActiveForVehicle(ctx context.Context, vehicleID id.ID) (*Sale, error) {
	for _, doc := range m.docs {
		if doc.VehicleID == vehicleID && !doc.DeletionMark {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("sale", vehicleID)
}

type mockVehicles struct {
	vehicles map[id.ID]*vehicle.Vehicle
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
		if e.ReferenceType == refType && e.SaleID != nil && *e.SaleID == refID {
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

type mockSchedules struct {
	schedules map[id.ID]*emi.Schedule
}

func (m *mockSchedules) GetBySaleID(ctx context.Context, saleID id.ID) (*emi.Schedule, error) {
	s, ok := m.schedules[saleID]
	if !ok {
		return nil, apperror.NewNotFound("emi schedule", saleID)
	}
	return s, nil
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	payments  *mockPayments
	schedules *mockSchedules
	vehicle   *vehicle.Vehicle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// A sellable vehicle is always a purchased one
	veh := vehicle.NewVehicle("VEH-2026-00001", "Honda City 2021", "Honda", "City")
	require.NoError(t, veh.MarkPurchased(id.New(), types.NewMoneyFromInt(500000)))

	repo := newMockRepo()
	vehicles := &mockVehicles{vehicles: map[id.ID]*vehicle.Vehicle{veh.ID: veh}}
	payments := &mockPayments{}
	schedules := &mockSchedules{schedules: make(map[id.ID]*emi.Schedule)}

	svc := NewService(
		repo,
		vehicles,
		payment.NewJournal(payments),
		schedules,
		&numerator.MockGenerator{},
		passthroughTx{},
		nil,
	)

	return &fixture{svc: svc, repo: repo, payments: payments, schedules: schedules, vehicle: veh}
}

// --- Tests ---

func TestCreate_TotalsAndVehicle(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		Discount:     "10000",
		Tax:          "5000",
		AmountPaid:   "200000",
	})
	require.NoError(t, err)

	assert.True(t, doc.TotalAmount.Equal(types.NewMoneyFromInt(595000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(395000)))
	assert.Equal(t, vehicle.StatusSold, f.vehicle.Status)

	require.Len(t, f.payments.entries, 1)
	assert.Equal(t, payment.PurposeDownPayment, f.payments.entries[0].Purpose)
	assert.Equal(t, payment.PartyCustomer, f.payments.entries[0].PartyType)
}

func TestCreate_ReservedTargetsVehicleReserved(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		Status:       StatusReserved,
	})
	require.NoError(t, err)
	assert.Equal(t, vehicle.StatusReserved, f.vehicle.Status)
}

func TestCreate_UnpurchasedVehicleRejected(t *testing.T) {
	f := newFixture(t)
	listing := vehicle.NewVehicle("VEH-2026-00002", "Suzuki Swift 2020", "Suzuki", "Swift")
	f.svc.vehicles.(*mockVehicles).vehicles[listing.ID] = listing

	_, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:    listing.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_NegativeUpfrontRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("cash sale", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateInput{
			VehicleID:    f.vehicle.ID,
			CustomerID:   id.New(),
			SellingPrice: "600000",
			AmountPaid:   "-1000",
		})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("emi sale", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateInput{
			VehicleID:    f.vehicle.ID,
			CustomerID:   id.New(),
			SellingPrice: "600000",
			IsEMI:        true,
			DownPayment:  "-1000",
		})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	// the guard must not leak into the vehicle state
	assert.Equal(t, vehicle.StatusInStock, f.vehicle.Status)
	assert.Empty(t, f.payments.entries)
}

func TestCreate_EMIDefaults(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		IsEMI:        true,
		DownPayment:  "150000",
	})
	require.NoError(t, err)

	assert.Equal(t, payment.ModeEMI, doc.PaymentMode)
	assert.True(t, doc.DownPayment.Equal(types.NewMoneyFromInt(150000)))
	assert.True(t, doc.BalanceAmount.Equal(types.NewMoneyFromInt(450000)))
}

func TestAddPayment_EMISaleRejected(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Create(context.Background(), CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		IsEMI:        true,
		DownPayment:  "150000",
	})
	require.NoError(t, err)

	_, err = f.svc.AddPayment(context.Background(), doc.ID, PaymentInput{Amount: "100000"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEMISalePayment, appErr.Code)
}

func TestEffectiveBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cash, err := f.svc.Create(ctx, CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		AmountPaid:   "200000",
	})
	require.NoError(t, err)

	balance, err := f.svc.EffectiveBalance(ctx, cash.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.NewMoneyFromInt(400000)))
}

func TestEffectiveBalance_EMIUsesSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
		IsEMI:        true,
		DownPayment:  "150000",
	})
	require.NoError(t, err)

	// Without a schedule the ledger balance stands in
	balance, err := f.svc.EffectiveBalance(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.NewMoneyFromInt(450000)))

	// With a schedule the remaining principal is authoritative
	f.schedules.schedules[doc.ID] = &emi.Schedule{
		SaleID:             doc.ID,
		Principal:          types.NewMoneyFromInt(450000),
		RemainingPrincipal: types.NewMoneyFromInt(300000),
		Months:             24,
	}
	balance, err = f.svc.EffectiveBalance(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.NewMoneyFromInt(300000)))
}

func TestDelete_ReleasesVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Create(ctx, CreateInput{
		VehicleID:    f.vehicle.ID,
		CustomerID:   id.New(),
		SellingPrice: "600000",
	})
	require.NoError(t, err)
	assert.Equal(t, vehicle.StatusSold, f.vehicle.Status)

	require.NoError(t, f.svc.Delete(ctx, doc.ID))
	assert.Equal(t, vehicle.StatusInStock, f.vehicle.Status)
	// The vehicle stays purchased; only the sale side is undone
	assert.True(t, f.vehicle.IsPurchased())
}
