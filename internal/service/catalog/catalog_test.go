package catalog

import (
	"context"
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockServiceTypeRepo struct{ mock.Mock }

func (m *MockServiceTypeRepo) Create(ctx context.Context, st *models.ServiceType) (*models.ServiceType, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepo) Get(ctx context.Context, id uuid.UUID) (*models.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepo) List(ctx context.Context) ([]models.ServiceType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ServiceType), args.Error(1)
}

type MockRuleRepo struct{ mock.Mock }

func (m *MockRuleRepo) Create(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingRule), args.Error(1)
}

func (m *MockRuleRepo) Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingRule), args.Error(1)
}

func (m *MockRuleRepo) Update(ctx context.Context, rule *models.PricingRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRuleRepo) List(ctx context.Context, filters models.Filters) ([]models.PricingRule, models.Metadata, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.PricingRule), args.Get(1).(models.Metadata), args.Error(2)
}

type MockPackageRepo struct{ mock.Mock }

func (m *MockPackageRepo) Create(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error) {
	args := m.Called(ctx, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalPackage), args.Error(1)
}

func (m *MockPackageRepo) Get(ctx context.Context, id uuid.UUID) (*models.RentalPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalPackage), args.Error(1)
}

func (m *MockPackageRepo) Update(ctx context.Context, pkg *models.RentalPackage) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockPackageRepo) List(ctx context.Context, filters models.Filters) ([]models.RentalPackage, models.Metadata, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.RentalPackage), args.Get(1).(models.Metadata), args.Error(2)
}

func newTestService() (*CatalogService, *MockServiceTypeRepo, *MockRuleRepo, *MockPackageRepo) {
	stRepo := new(MockServiceTypeRepo)
	ruleRepo := new(MockRuleRepo)
	pkgRepo := new(MockPackageRepo)
	svc := NewCatalogService(stRepo, ruleRepo, pkgRepo, logger.InitLogger("catalog-test", logger.LevelError))
	return svc, stRepo, ruleRepo, pkgRepo
}

func validRule(serviceTypeID uuid.UUID) *models.PricingRule {
	perMin := money.Amount(200)
	return &models.PricingRule{
		ServiceTypeID:   serviceTypeID,
		VehicleType:     types.SedanVehicle,
		BaseFare:        money.Amount(5000),
		PerKmRate:       money.Amount(12000),
		PerMinuteRate:   &perMin,
		MinimumFare:     money.Amount(15000),
		SurgeMultiplier: 1.0,
	}
}

func TestCreatePricingRule(t *testing.T) {
	svc, stRepo, ruleRepo, _ := newTestService()
	stID := uuid.New()
	rule := validRule(stID)

	stRepo.On("Get", mock.Anything, stID).Return(&models.ServiceType{ID: stID, Code: "CITY_RIDE"}, nil)
	ruleRepo.On("Create", mock.Anything, rule).Return(rule, nil)

	created, err := svc.CreatePricingRule(context.Background(), rule)
	require.NoError(t, err)
	assert.True(t, created.Active, "new rules start active")
	ruleRepo.AssertExpectations(t)
}

func TestCreatePricingRuleUnknownServiceType(t *testing.T) {
	svc, stRepo, ruleRepo, _ := newTestService()
	stID := uuid.New()

	stRepo.On("Get", mock.Anything, stID).Return(nil, types.ErrServiceTypeNotFound)

	_, err := svc.CreatePricingRule(context.Background(), validRule(stID))
	assert.ErrorIs(t, err, types.ErrServiceTypeNotFound)
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePricingRuleInvariants(t *testing.T) {
	svc, _, ruleRepo, _ := newTestService()
	stID := uuid.New()

	tests := []struct {
		name   string
		mutate func(r *models.PricingRule)
	}{
		{"negative base fare", func(r *models.PricingRule) { r.BaseFare = -1 }},
		{"negative per-km rate", func(r *models.PricingRule) { r.PerKmRate = -1 }},
		{"negative minimum fare", func(r *models.PricingRule) { r.MinimumFare = -1 }},
		{"negative cancellation fee", func(r *models.PricingRule) { r.CancellationFee = -1 }},
		{"zero surge multiplier", func(r *models.PricingRule) { r.SurgeMultiplier = 0 }},
		{"negative surge multiplier", func(r *models.PricingRule) { r.SurgeMultiplier = -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule(stID)
			tt.mutate(rule)

			_, err := svc.CreatePricingRule(context.Background(), rule)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePricingRuleScopeImmutable(t *testing.T) {
	svc, _, ruleRepo, _ := newTestService()
	id := uuid.New()
	origServiceType := uuid.New()
	zone := "DOWNTOWN"

	current := validRule(origServiceType)
	current.ID = id
	current.Zone = &zone
	current.Active = true

	update := validRule(uuid.New()) // attempts to move the rule to another service type
	update.ID = id
	update.BaseFare = money.Amount(7000)

	ruleRepo.On("Get", mock.Anything, id).Return(current, nil)
	ruleRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdatePricingRule(context.Background(), update)
	require.NoError(t, err)

	assert.Equal(t, origServiceType, updated.ServiceTypeID)
	assert.Equal(t, &zone, updated.Zone)
	assert.Equal(t, money.Amount(7000), updated.BaseFare)
	assert.True(t, updated.Active)
}

func TestDeactivatePricingRule(t *testing.T) {
	svc, _, ruleRepo, _ := newTestService()
	id := uuid.New()

	ruleRepo.On("SetActive", mock.Anything, id, false).Return(nil)

	require.NoError(t, svc.DeactivatePricingRule(context.Background(), id))
	ruleRepo.AssertExpectations(t)
}

func TestCreateRentalPackageInvariants(t *testing.T) {
	svc, _, _, pkgRepo := newTestService()
	stID := uuid.New()

	base := func() *models.RentalPackage {
		return &models.RentalPackage{
			ServiceTypeID: stID,
			VehicleType:   types.SUVVehicle,
			Label:         "4h-40km",
			DurationHours: 4,
			IncludedKm:    40,
			BasePrice:     money.Amount(800000),
			ExtraKmRate:   money.Amount(9000),
			ExtraHourRate: money.Amount(150000),
		}
	}

	tests := []struct {
		name   string
		mutate func(p *models.RentalPackage)
	}{
		{"negative base price", func(p *models.RentalPackage) { p.BasePrice = -1 }},
		{"negative extra-km rate", func(p *models.RentalPackage) { p.ExtraKmRate = -1 }},
		{"zero duration", func(p *models.RentalPackage) { p.DurationHours = 0 }},
		{"missing label", func(p *models.RentalPackage) { p.Label = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := base()
			tt.mutate(pkg)

			_, err := svc.CreateRentalPackage(context.Background(), pkg)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
	pkgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
