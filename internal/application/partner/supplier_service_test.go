package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/backend/internal/domain/partner"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestSupplierServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a supplier with contact details", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo)

		var saved *partner.Supplier
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*partner.Supplier) }).
			Return(nil)

		resp, err := service.Create(ctx, SaveSupplierRequest{
			Name:        "Acme",
			ContactName: "Dana",
			Email:       "dana@acme.example",
		})
		require.NoError(t, err)

		assert.Equal(t, "Acme", resp.Name)
		assert.Equal(t, "Dana", resp.ContactName)
		require.NotNil(t, saved)
		assert.Equal(t, "dana@acme.example", saved.Email)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		service := NewSupplierService(new(MockSupplierRepository))

		_, err := service.Create(ctx, SaveSupplierRequest{Name: "  "})
		require.Error(t, err)
	})
}

func TestSupplierServiceFindOrCreateByName(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the existing supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo)

		acme, err := partner.NewSupplier("Acme")
		require.NoError(t, err)
		repo.On("FindByName", ctx, "acme").Return(acme, nil)

		resp, err := service.FindOrCreateByName(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, acme.ID, resp.ID)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates a missing supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo)

		repo.On("FindByName", ctx, "Globex").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := service.FindOrCreateByName(ctx, "Globex")
		require.NoError(t, err)
		assert.Equal(t, "Globex", resp.Name)
	})
}

func TestSupplierServiceUpdate(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	acme, err := partner.NewSupplier("Acme")
	require.NoError(t, err)
	repo.On("FindByID", ctx, acme.ID).Return(acme, nil)
	repo.On("Save", ctx, acme).Return(nil)

	resp, err := service.Update(ctx, acme.ID, SaveSupplierRequest{
		Name:  "Acme Industrial",
		Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Industrial", resp.Name)
	assert.Equal(t, "555-0100", resp.Phone)
}

func TestSupplierServiceDelete(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)
	require.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
