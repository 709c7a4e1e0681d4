package booking

import (
	"context"
	"testing"
	"time"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/internal/service/pricing"
	"github.com/fleetora/fleetops/pkg/logger"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepo) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepo) List(ctx context.Context, status string, filters models.Filters) ([]models.Booking, models.Metadata, error) {
	args := m.Called(ctx, status, filters)
	return args.Get(0).([]models.Booking), args.Get(1).(models.Metadata), args.Error(2)
}

func (m *MockBookingRepo) CountByDate(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPaymentRepo struct{ mock.Mock }

func (m *MockPaymentRepo) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]models.Payment), args.Error(1)
}

type MockQuoter struct{ mock.Mock }

func (m *MockQuoter) Quote(ctx context.Context, req pricing.QuoteRequest) (*pricing.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

func (m *MockQuoter) Resolve(ctx context.Context, req pricing.ResolutionRequest) (*pricing.Resolution, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Resolution), args.Error(1)
}

func (m *MockQuoter) Currency() string {
	return m.Called().String(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishBookingEvent(ctx context.Context, routingKey string, msg models.BookingEventMessage) error {
	return m.Called(ctx, routingKey, msg).Error(0)
}

func (m *MockPublisher) PublishPaymentEvent(ctx context.Context, routingKey string, msg models.PaymentEventMessage) error {
	return m.Called(ctx, routingKey, msg).Error(0)
}

// nopTxManager runs the function directly; transaction semantics are covered
// by the repository integration, not these unit tests.
type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *BookingService
	bookings *MockBookingRepo
	payments *MockPaymentRepo
	quoter   *MockQuoter
	events   *MockPublisher
}

func newFixture() *fixture {
	f := &fixture{
		bookings: new(MockBookingRepo),
		payments: new(MockPaymentRepo),
		quoter:   new(MockQuoter),
		events:   new(MockPublisher),
	}
	f.svc = NewBookingService(f.bookings, f.payments, f.quoter, f.events, nopTxManager{}, logger.InitLogger("booking-test", logger.LevelError))
	return f
}

func meteredResolution() *pricing.Resolution {
	perMin := money.Amount(200)
	return &pricing.Resolution{
		Model: types.MeteredPricing,
		Rule: &models.PricingRule{
			BaseFare:        money.Amount(5000),
			PerKmRate:       money.Amount(12000),
			PerMinuteRate:   &perMin,
			MinimumFare:     money.Amount(15000),
			SurgeMultiplier: 1.0,
			CancellationFee: money.Amount(20000),
			NoShowFee:       money.Amount(30000),
		},
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	quote := &pricing.Quote{Model: types.MeteredPricing, Amount: money.Amount(29900), Currency: "KZT"}
	f.quoter.On("Quote", mock.Anything, mock.Anything).Return(quote, nil)
	f.bookings.On("CountByDate", mock.Anything).Return(4, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(&models.Booking{
		ID:            uuid.New(),
		BookingNumber: "BOOK_" + time.Now().Format("20060102") + "_005",
		QuotedFare:    quote.Amount,
		FinalFare:     quote.Amount,
		Currency:      "KZT",
		Status:        types.BookingPending,
	}, nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyFareQuoted, mock.Anything).Return(nil)

	b := &models.Booking{
		ServiceTypeID: uuid.New(),
		VehicleType:   types.SedanVehicle,
		DistanceKm:    4.2,
	}
	created, err := f.svc.Create(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(29900), created.QuotedFare)
	assert.Equal(t, created.QuotedFare, created.FinalFare)
	assert.Equal(t, types.BookingPending, created.Status)
	assert.Regexp(t, `^BOOK_\d{8}_\d{3}$`, created.BookingNumber)
	f.events.AssertCalled(t, "PublishBookingEvent", mock.Anything, KeyFareQuoted, mock.Anything)

	// the passed-in booking was stamped before persistence
	assert.Equal(t, money.Amount(29900), b.QuotedFare)
	assert.Equal(t, types.PaymentStatePending, b.PaymentStatus)
}

func TestCreateBookingNoRule(t *testing.T) {
	f := newFixture()

	f.quoter.On("Quote", mock.Anything, mock.Anything).Return(nil, types.ErrNoPricingRule)

	_, err := f.svc.Create(context.Background(), &models.Booking{VehicleType: types.SedanVehicle})
	assert.ErrorIs(t, err, types.ErrNoPricingRule)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransitionGuards(t *testing.T) {
	tests := []struct {
		name    string
		from    types.BookingStatus
		call    func(svc *BookingService, id uuid.UUID) error
		wantErr bool
	}{
		{"accept pending", types.BookingPending, func(s *BookingService, id uuid.UUID) error {
			_, err := s.Accept(context.Background(), id)
			return err
		}, false},
		{"accept completed", types.BookingCompleted, func(s *BookingService, id uuid.UUID) error {
			_, err := s.Accept(context.Background(), id)
			return err
		}, true},
		{"start pending", types.BookingPending, func(s *BookingService, id uuid.UUID) error {
			_, err := s.Start(context.Background(), id)
			return err
		}, true},
		{"start accepted", types.BookingAccepted, func(s *BookingService, id uuid.UUID) error {
			_, err := s.Start(context.Background(), id)
			return err
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := uuid.New()

			f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: tt.from}, nil)
			f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)

			err := tt.call(f.svc, id)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidStatusTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAcceptStampsTimestamp(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: types.BookingPending}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)

	accepted, err := f.svc.Accept(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, types.BookingAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	assert.WithinDuration(t, time.Now(), *accepted.AcceptedAt, time.Second)
}

func TestCompleteWithExtras(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	booking := &models.Booking{
		ID:          id,
		Status:      types.BookingStarted,
		VehicleType: types.SedanVehicle,
		FinalFare:   money.Amount(29900),
		Currency:    "KZT",
	}
	f.bookings.On("Get", mock.Anything, id).Return(booking, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.quoter.On("Resolve", mock.Anything, mock.Anything).Return(meteredResolution(), nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyCompleted, mock.Anything).Return(nil)

	usage := models.ExtrasUsage{WaitingMinutes: 10, UpgradeCharge: money.Amount(10000)}
	completed, err := f.svc.Complete(context.Background(), id, usage)
	require.NoError(t, err)

	assert.Equal(t, types.BookingCompleted, completed.Status)
	assert.Equal(t, usage, completed.Extras)
	require.NotNil(t, completed.CompletedAt)
	// the stored fare is untouched; extras stay derivable
	assert.Equal(t, money.Amount(29900), completed.FinalFare)
}

func TestCompleteRejectsNegativeUsage(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: types.BookingStarted}, nil)
	f.quoter.On("Resolve", mock.Anything, mock.Anything).Return(meteredResolution(), nil)

	_, err := f.svc.Complete(context.Background(), id, models.ExtrasUsage{ExtraKmUsed: -1})
	assert.ErrorIs(t, err, types.ErrValidation)
	f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancelPendingChargesNothing(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{
		ID:         id,
		Status:     types.BookingPending,
		QuotedFare: money.Amount(29900),
		FinalFare:  money.Amount(29900),
	}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyCancelled, mock.Anything).Return(nil)

	cancelled, err := f.svc.Cancel(context.Background(), id, "customer changed plans", false)
	require.NoError(t, err)

	assert.Equal(t, types.BookingCancelled, cancelled.Status)
	assert.Equal(t, money.Amount(0), cancelled.FinalFare)
	require.NotNil(t, cancelled.CancellationReason)
	f.quoter.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestCancelAcceptedChargesFee(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{
		ID:        id,
		Status:    types.BookingAccepted,
		FinalFare: money.Amount(29900),
	}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.quoter.On("Resolve", mock.Anything, mock.Anything).Return(meteredResolution(), nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyCancelled, mock.Anything).Return(nil)

	cancelled, err := f.svc.Cancel(context.Background(), id, "driver waited 15 minutes", false)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(20000), cancelled.FinalFare)

	f = newFixture()
	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: types.BookingAccepted}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.quoter.On("Resolve", mock.Anything, mock.Anything).Return(meteredResolution(), nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyCancelled, mock.Anything).Return(nil)

	noShow, err := f.svc.Cancel(context.Background(), id, "passenger absent", true)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(30000), noShow.FinalFare)
}

func TestCancelCompletedRejected(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: types.BookingCompleted}, nil)

	_, err := f.svc.Cancel(context.Background(), id, "too late", false)
	assert.ErrorIs(t, err, types.ErrInvalidStatusTransition)
}

func TestOverrideFare(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	reason := "corporate discount applied"

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{
		ID:         id,
		Status:     types.BookingCompleted,
		QuotedFare: money.Amount(29900),
		FinalFare:  money.Amount(29900),
	}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyFareOverridden, mock.Anything).Return(nil)

	updated, err := f.svc.OverrideFare(context.Background(), id, money.Amount(25000), &reason)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(25000), updated.FinalFare)
	assert.Equal(t, money.Amount(29900), updated.QuotedFare, "quote is immutable")
	assert.Equal(t, &reason, updated.FareOverrideReason)
}

func TestOverrideFareNegative(t *testing.T) {
	f := newFixture()

	_, err := f.svc.OverrideFare(context.Background(), uuid.New(), money.Amount(-1), nil)
	assert.ErrorIs(t, err, types.ErrValidation)
	f.bookings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestOverrideFareCancelledRejected(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{ID: id, Status: types.BookingCancelled}, nil)

	_, err := f.svc.OverrideFare(context.Background(), id, money.Amount(1000), nil)
	assert.ErrorIs(t, err, types.ErrInvalidStatusTransition)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.bookings.On("Get", mock.Anything, id).Return(&models.Booking{
		ID:     id,
		Status: types.BookingPending,
	}, nil)
	f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishBookingEvent", mock.Anything, KeyCancelled, mock.Anything).Return(assert.AnError)

	_, err := f.svc.Cancel(context.Background(), id, "reason", false)
	assert.NoError(t, err)
}
