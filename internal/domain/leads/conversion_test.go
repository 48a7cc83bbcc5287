package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain"
	"dealerdesk/internal/domain/catalogs/customer"
	"dealerdesk/internal/domain/catalogs/vendor"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	leads map[id.ID]*Lead
}

func newMockRepo() *mockRepo {
	return &mockRepo{leads: make(map[id.ID]*Lead)}
}

func (m *mockRepo) Create(ctx context.Context, l *Lead) error {
	m.leads[l.ID] = l
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, leadID id.ID) (*Lead, error) {
	l, ok := m.leads[leadID]
	if !ok || l.DeletionMark {
		return nil, apperror.NewNotFound("lead", leadID)
	}
	return l, nil
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*Lead, error) {
	for _, l := range m.leads {
		if l.Code == code && !l.DeletionMark {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("lead", code)
}

func (m *mockRepo) Update(ctx context.Context, l *Lead) error {
	m.leads[l.ID] = l
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, leadID id.ID) error {
	l, ok := m.leads[leadID]
	if !ok {
		return apperror.NewNotFound("lead", leadID)
	}
	l.DeletionMark = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Lead], error) {
	var items []*Lead
	for _, l := range m.leads {
		if !l.DeletionMark {
			items = append(items, l)
		}
	}
	return domain.ListResult[*Lead]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *mockRepo) Exists(ctx context.Context, leadID id.ID) (bool, error) {
	_, ok := m.leads[leadID]
	return ok, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, leadID id.ID) (*Lead, error) {
	return m.GetByID(ctx, leadID)
}

type mockCustomers struct {
	created []*customer.Customer
}

func (m *mockCustomers) Create(ctx context.Context, c *customer.Customer) error {
	m.created = append(m.created, c)
	return nil
}

type mockVendors struct {
	created []*vendor.Vendor
}

func (m *mockVendors) Create(ctx context.Context, v *vendor.Vendor) error {
	m.created = append(m.created, v)
	return nil
}

type fixture struct {
	svc       *ConversionService
	repo      *mockRepo
	customers *mockCustomers
	vendors   *mockVendors
}

func newFixture() *fixture {
	repo := newMockRepo()
	customers := &mockCustomers{}
	vendors := &mockVendors{}
	svc := NewConversionService(repo, customers, vendors, passthroughTx{}, nil)
	return &fixture{svc: svc, repo: repo, customers: customers, vendors: vendors}
}

func seedLead(f *fixture, leadType Type) *Lead {
	l := NewLead("LD-2026-00001", "Amit Sharma", leadType)
	l.Phone = "+919876543210"
	l.Email = "amit@example.com"
	f.repo.leads[l.ID] = l
	return l
}

func TestConvert_BuyingProducesCustomer(t *testing.T) {
	f := newFixture()
	l := seedLead(f, TypeBuying)

	res, err := f.svc.Convert(context.Background(), l.ID)
	require.NoError(t, err)

	assert.False(t, res.AlreadyConverted)
	assert.Equal(t, "customer", res.RefType)

	require.Len(t, f.customers.created, 1)
	c := f.customers.created[0]
	assert.Equal(t, res.RefID, c.ID)
	assert.Equal(t, l.Name, c.Name)
	assert.Equal(t, l.Phone, c.Phone)
	assert.True(t, c.ConvertedFromLead)
	require.NotNil(t, c.LeadID)
	assert.Equal(t, l.ID, *c.LeadID)

	assert.True(t, l.Converted)
	assert.Equal(t, StatusQualified, l.Status)
	assert.Empty(t, f.vendors.created)
}

func TestConvert_SellingProducesVendor(t *testing.T) {
	f := newFixture()
	l := seedLead(f, TypeSelling)

	res, err := f.svc.Convert(context.Background(), l.ID)
	require.NoError(t, err)

	assert.Equal(t, "vendor", res.RefType)
	require.Len(t, f.vendors.created, 1)
	v := f.vendors.created[0]
	assert.Equal(t, res.RefID, v.ID)
	assert.True(t, v.ConvertedFromLead)
	assert.Empty(t, f.customers.created)
}

func TestConvert_RepeatIsNoOp(t *testing.T) {
	f := newFixture()
	l := seedLead(f, TypeBuying)
	ctx := context.Background()

	first, err := f.svc.Convert(ctx, l.ID)
	require.NoError(t, err)

	second, err := f.svc.Convert(ctx, l.ID)
	require.NoError(t, err)

	assert.True(t, second.AlreadyConverted)
	assert.Equal(t, first.RefID, second.RefID)
	assert.Equal(t, first.RefType, second.RefType)
	assert.Len(t, f.customers.created, 1)
}

func TestConvert_UnknownLead(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Convert(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
