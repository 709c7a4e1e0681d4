package handler

import (
	"context"
	"net/http"

	"github.com/fleetora/fleetops/internal/adapter/http/handler/dto"
	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/internal/service/booking"
	"github.com/fleetora/fleetops/internal/service/pricing"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/fleetora/fleetops/pkg/validator"
	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, status string, filters models.Filters) ([]models.Booking, models.Metadata, error)
	Accept(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Start(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Complete(ctx context.Context, id uuid.UUID, usage models.ExtrasUsage) (*models.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, noShow bool) (*models.Booking, error)
	OverrideFare(ctx context.Context, id uuid.UUID, amount money.Amount, reason *string) (*models.Booking, error)
	ExtrasTotal(ctx context.Context, b *models.Booking) (money.Amount, error)
	TotalDue(ctx context.Context, b *models.Booking) (money.Amount, error)
	RecordPayment(ctx context.Context, bookingID uuid.UUID, amount money.Amount, method string, status types.PaymentStatus) (*models.Payment, error)
	PaymentSummary(ctx context.Context, bookingID uuid.UUID) (*booking.PaymentSummary, error)
}

type QuoteService interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (*pricing.Quote, error)
}

type Booking struct {
	bookings BookingService
	quotes   QuoteService
	l        logger.Logger
}

func NewBooking(bookings BookingService, quotes QuoteService, l logger.Logger) *Booking {
	return &Booking{
		bookings: bookings,
		quotes:   quotes,
		l:        l,
	}
}

// Quote godoc
// @Summary      Quote a fare
// @Description  Resolves the pricing scope and computes an estimate; nothing is stored
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        request body dto.QuoteRequest true "Trip scope"
// @Success      200  {object}  pricing.Quote
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/quotes [post]
func (h *Booking) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "quote_fare")

	req := &dto.QuoteRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	serviceTypeID, err := uuid.Parse(req.ServiceTypeID)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	quote, err := h.quotes.Quote(ctx, pricing.QuoteRequest{
		ResolutionRequest: pricing.ResolutionRequest{
			ServiceTypeID: serviceTypeID,
			VehicleType:   types.VehicleType(req.VehicleType),
			Zone:          req.Zone,
		},
		DistanceKm:  req.DistanceKm,
		DurationMin: req.DurationMinutes,
	})
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to quote fare", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"quote": quote}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Create godoc
// @Summary      Create booking
// @Description  Quotes the trip and stores the booking with an immutable quoted fare
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookingRequest true "Trip scope"
// @Success      201  {object}  models.Booking
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/bookings [post]
func (h *Booking) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_booking")

	req := &dto.CreateBookingRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	b, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.bookings.Create(ctx, b)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"booking": created}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List bookings
// @Tags         Bookings
// @Produce      json
// @Param        status query string false "Filter by booking status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200  {object}  map[string]any
// @Router       /admin/bookings [get]
func (h *Booking) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_bookings")

	v := validator.New()
	qs := r.URL.Query()

	status := readString(qs, "status", "")
	if status != "" {
		v.Check(validator.PermittedValue(status,
			string(types.BookingPending), string(types.BookingAccepted), string(types.BookingStarted),
			string(types.BookingCompleted), string(types.BookingCancelled), string(types.BookingNoDriver),
		), "status", "invalid booking status")
	}

	filters := models.Filters{
		Page:         readInt(qs, "page", 1, v),
		PageSize:     readInt(qs, "page_size", 20, v),
		Sort:         readString(qs, "sort", "-created_at"),
		SortSafelist: []string{"created_at", "-created_at", "status", "-status", "final_fare", "-final_fare"},
	}
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	bookings, metadata, err := h.bookings.List(ctx, status, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list bookings", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"bookings": bookings, "metadata": metadata}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      Get booking
// @Description  Returns the booking with its derived extras total and total due
// @Tags         Bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /admin/bookings/{id} [get]
func (h *Booking) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_booking")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	b, err := h.bookings.Get(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	extrasTotal, err := h.bookings.ExtrasTotal(ctx, b)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to compute extras total", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"booking":      b,
		"extras_total": extrasTotal,
		"total_due":    b.FinalFare + extrasTotal,
		"display_total_due": money.Format(b.FinalFare+extrasTotal, b.Currency),
	}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Accept godoc
// @Summary      Accept booking
// @Tags         Bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200  {object}  models.Booking
// @Failure      409  {object}  map[string]string
// @Router       /admin/bookings/{id}/accept [post]
func (h *Booking) Accept(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "accept_booking", h.bookings.Accept)
}

// Start godoc
// @Summary      Start trip
// @Tags         Bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200  {object}  models.Booking
// @Failure      409  {object}  map[string]string
// @Router       /admin/bookings/{id}/start [post]
func (h *Booking) Start(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "start_booking", h.bookings.Start)
}

func (h *Booking) applyTransition(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, uuid.UUID) (*models.Booking, error)) {
	ctx := wrap.WithAction(r.Context(), action)

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	b, err := fn(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to transition booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"booking": b}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Complete godoc
// @Summary      Complete trip
// @Description  Finishes the trip and records any extra usage observed on the road
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body dto.CompleteBookingRequest true "Extras usage"
// @Success      200  {object}  models.Booking
// @Failure      409  {object}  map[string]string
// @Router       /admin/bookings/{id}/complete [post]
func (h *Booking) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "complete_booking")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	req := &dto.CompleteBookingRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	b, err := h.bookings.Complete(ctx, id, req.ToUsage())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to complete booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"booking": b}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Cancels the booking; accepted or started trips are charged the cancellation or no-show fee
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body dto.CancelBookingRequest true "Cancellation details"
// @Success      200  {object}  models.Booking
// @Failure      409  {object}  map[string]string
// @Router       /admin/bookings/{id}/cancel [post]
func (h *Booking) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_booking")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	req := &dto.CancelBookingRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	b, err := h.bookings.Cancel(ctx, id, req.Reason, req.NoShow)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"booking": b}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// OverrideFare godoc
// @Summary      Override final fare
// @Description  Replaces the payable fare; the original quote stays untouched for audit
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body dto.OverrideFareRequest true "New final fare"
// @Success      200  {object}  models.Booking
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/bookings/{id}/fare [post]
func (h *Booking) OverrideFare(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "override_fare")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	req := &dto.OverrideFareRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	b, err := h.bookings.OverrideFare(ctx, id, money.Amount(req.FinalFare), req.Reason)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to override fare", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"booking": b}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// RecordPayment godoc
// @Summary      Record payment
// @Description  Appends a payment to the booking ledger and reconciles the balance
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body dto.RecordPaymentRequest true "Payment"
// @Success      201  {object}  models.Payment
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/bookings/{id}/payments [post]
func (h *Booking) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "record_payment")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	req := &dto.RecordPaymentRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	payment, err := h.bookings.RecordPayment(ctx, id, money.Amount(req.Amount), req.Method, types.PaymentStatus(req.Status))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to record payment", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"payment": payment}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// PaymentSummary godoc
// @Summary      Payment summary
// @Description  Returns the booking's payments with the reconciled balance
// @Tags         Payments
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200  {object}  booking.PaymentSummary
// @Failure      404  {object}  map[string]string
// @Router       /admin/bookings/{id}/payments [get]
func (h *Booking) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "payment_summary")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithBookingID(ctx, id.String())

	summary, err := h.bookings.PaymentSummary(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build payment summary", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"summary": summary}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
