package pricing

import (
	"context"
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockServiceTypeRepo struct {
	mock.Mock
}

func (m *MockServiceTypeRepo) Get(ctx context.Context, id uuid.UUID) (*models.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceType), args.Error(1)
}

type MockRuleRepo struct {
	mock.Mock
}

func (m *MockRuleRepo) ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.PricingRule, error) {
	args := m.Called(ctx, serviceTypeID, vehicleType)
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.RentalPackage, error) {
	args := m.Called(ctx, serviceTypeID, vehicleType)
	return args.Get(0).([]models.RentalPackage), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newTestResolver(t *testing.T) (*Resolver, *MockServiceTypeRepo, *MockRuleRepo, *MockPackageRepo) {
	t.Helper()
	st := &MockServiceTypeRepo{}
	rules := &MockRuleRepo{}
	packages := &MockPackageRepo{}
	log := logger.InitLogger("test", logger.LevelError)
	return NewResolver(st, rules, packages, log), st, rules, packages
}

func TestResolver_WildcardFallback(t *testing.T) {
	resolver, st, rules, _ := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		Code:         "city_ride",
		PricingModel: types.MeteredPricing,
		ZoneBased:    true,
	}, nil)

	wildcard := models.PricingRule{ID: uuid.New(), VehicleType: types.SedanVehicle}
	rules.On("ListActive", ctx, stID, types.SedanVehicle).Return([]models.PricingRule{wildcard}, nil)

	res, err := resolver.Resolve(ctx, ResolutionRequest{
		ServiceTypeID: stID,
		VehicleType:   types.SedanVehicle,
		Zone:          strPtr("almaty"),
	})

	require.NoError(t, err)
	require.NotNil(t, res.Rule)
	assert.Equal(t, wildcard.ID, res.Rule.ID)
}

// The original selection was order-dependent when a zone-specific and a
// wildcard rule both matched. We deliberately adopt "exact zone match wins
// over wildcard" instead: the catalog is sorted by specificity before taking
// the first candidate, so resolution is deterministic regardless of storage
// order.
func TestResolver_ExactZoneBeatsWildcard(t *testing.T) {
	resolver, st, rules, _ := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		Code:         "city_ride",
		PricingModel: types.MeteredPricing,
		ZoneBased:    true,
	}, nil)

	wildcard := models.PricingRule{ID: uuid.New(), VehicleType: types.SedanVehicle}
	zoned := models.PricingRule{ID: uuid.New(), VehicleType: types.SedanVehicle, Zone: strPtr("astana")}

	// wildcard listed first: storage order must not decide the winner
	rules.On("ListActive", ctx, stID, types.SedanVehicle).Return([]models.PricingRule{wildcard, zoned}, nil)

	res, err := resolver.Resolve(ctx, ResolutionRequest{
		ServiceTypeID: stID,
		VehicleType:   types.SedanVehicle,
		Zone:          strPtr("astana"),
	})

	require.NoError(t, err)
	require.NotNil(t, res.Rule)
	assert.Equal(t, zoned.ID, res.Rule.ID)
}

func TestResolver_ForeignZoneExcluded(t *testing.T) {
	resolver, st, rules, _ := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		PricingModel: types.MeteredPricing,
		ZoneBased:    true,
	}, nil)

	zoned := models.PricingRule{ID: uuid.New(), Zone: strPtr("astana")}
	rules.On("ListActive", ctx, stID, types.SedanVehicle).Return([]models.PricingRule{zoned}, nil)

	_, err := resolver.Resolve(ctx, ResolutionRequest{
		ServiceTypeID: stID,
		VehicleType:   types.SedanVehicle,
		Zone:          strPtr("almaty"),
	})

	assert.ErrorIs(t, err, types.ErrNoPricingRule)
}

func TestResolver_NoCandidates(t *testing.T) {
	resolver, st, rules, _ := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		PricingModel: types.MeteredPricing,
	}, nil)
	rules.On("ListActive", ctx, stID, types.VanVehicle).Return([]models.PricingRule{}, nil)

	_, err := resolver.Resolve(ctx, ResolutionRequest{ServiceTypeID: stID, VehicleType: types.VanVehicle})
	assert.ErrorIs(t, err, types.ErrNoPricingRule)
}

func TestResolver_ZoneIgnoredForNonZoneBasedService(t *testing.T) {
	resolver, st, rules, _ := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		PricingModel: types.MeteredPricing,
		ZoneBased:    false,
	}, nil)

	wildcard := models.PricingRule{ID: uuid.New()}
	rules.On("ListActive", ctx, stID, types.SedanVehicle).Return([]models.PricingRule{wildcard}, nil)

	// zone provided, but the service type does not price by zone
	res, err := resolver.Resolve(ctx, ResolutionRequest{
		ServiceTypeID: stID,
		VehicleType:   types.SedanVehicle,
		Zone:          strPtr("almaty"),
	})

	require.NoError(t, err)
	assert.Equal(t, wildcard.ID, res.Rule.ID)
}

func TestResolver_PackageServiceResolvesPackages(t *testing.T) {
	resolver, st, _, packages := newTestResolver(t)
	ctx := context.Background()

	stID := uuid.New()
	st.On("Get", ctx, stID).Return(&models.ServiceType{
		ID:           stID,
		Code:         "rental",
		PricingModel: types.PackagePricing,
		ZoneBased:    true,
	}, nil)

	pkg := models.RentalPackage{ID: uuid.New(), Label: "8h/80km", Zone: strPtr("almaty")}
	packages.On("ListActive", ctx, stID, types.SUVVehicle).Return([]models.RentalPackage{pkg}, nil)

	res, err := resolver.Resolve(ctx, ResolutionRequest{
		ServiceTypeID: stID,
		VehicleType:   types.SUVVehicle,
		Zone:          strPtr("almaty"),
	})

	require.NoError(t, err)
	require.NotNil(t, res.Package)
	assert.Equal(t, types.PackagePricing, res.Model)
	assert.Equal(t, pkg.ID, res.Package.ID)
}
