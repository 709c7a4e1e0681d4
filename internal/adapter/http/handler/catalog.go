package handler

import (
	"context"
	"net/http"

	"github.com/fleetora/fleetops/internal/adapter/http/handler/dto"
	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/validator"
	"github.com/google/uuid"
)

type CatalogService interface {
	CreateServiceType(ctx context.Context, st *models.ServiceType) (*models.ServiceType, error)
	ListServiceTypes(ctx context.Context) ([]models.ServiceType, error)

	CreatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	UpdatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	DeactivatePricingRule(ctx context.Context, id uuid.UUID) error
	ListPricingRules(ctx context.Context, filters models.Filters) ([]models.PricingRule, models.Metadata, error)

	CreateRentalPackage(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error)
	UpdateRentalPackage(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error)
	DeactivateRentalPackage(ctx context.Context, id uuid.UUID) error
	ListRentalPackages(ctx context.Context, filters models.Filters) ([]models.RentalPackage, models.Metadata, error)
}

type Catalog struct {
	catalog CatalogService
	l       logger.Logger
}

func NewCatalog(catalog CatalogService, l logger.Logger) *Catalog {
	return &Catalog{
		catalog: catalog,
		l:       l,
	}
}

// CreateServiceType godoc
// @Summary      Create service type
// @Description  Registers a new bookable service category
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateServiceTypeRequest true "Service type"
// @Success      201  {object}  models.ServiceType
// @Failure      422  {object}  map[string]string
// @Router       /admin/service-types [post]
func (h *Catalog) CreateServiceType(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_service_type")

	req := &dto.CreateServiceTypeRequest{}
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

	created, err := h.catalog.CreateServiceType(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create service type", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"service_type": created}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListServiceTypes godoc
// @Summary      List service types
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/service-types [get]
func (h *Catalog) ListServiceTypes(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_service_types")

	serviceTypes, err := h.catalog.ListServiceTypes(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list service types", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"service_types": serviceTypes}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// CreatePricingRule godoc
// @Summary      Create pricing rule
// @Description  Adds a metered fare formula for a service/vehicle/zone scope
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePricingRuleRequest true "Pricing rule"
// @Success      201  {object}  models.PricingRule
// @Failure      422  {object}  map[string]string
// @Router       /admin/pricing-rules [post]
func (h *Catalog) CreatePricingRule(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_pricing_rule")

	req := &dto.CreatePricingRuleRequest{}
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

	rule, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.catalog.CreatePricingRule(ctx, rule)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create pricing rule", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"pricing_rule": created}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListPricingRules godoc
// @Summary      List pricing rules
// @Tags         Catalog
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200  {object}  map[string]any
// @Router       /admin/pricing-rules [get]
func (h *Catalog) ListPricingRules(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_pricing_rules")

	v := validator.New()
	qs := r.URL.Query()

	filters := models.Filters{
		Page:         readInt(qs, "page", 1, v),
		PageSize:     readInt(qs, "page_size", 20, v),
		Sort:         readString(qs, "sort", "created_at"),
		SortSafelist: []string{"created_at", "-created_at", "vehicle_type", "-vehicle_type", "base_fare", "-base_fare"},
	}
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rules, metadata, err := h.catalog.ListPricingRules(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list pricing rules", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"pricing_rules": rules, "metadata": metadata}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// UpdatePricingRule godoc
// @Summary      Update pricing rule
// @Description  Replaces the formula fields of an existing rule; scope is immutable
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID"
// @Param        request body dto.UpdatePricingRuleRequest true "Formula fields"
// @Success      200  {object}  models.PricingRule
// @Failure      404  {object}  map[string]string
// @Router       /admin/pricing-rules/{id} [patch]
func (h *Catalog) UpdatePricingRule(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_pricing_rule")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.UpdatePricingRuleRequest{}
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

	updated, err := h.catalog.UpdatePricingRule(ctx, req.ToModel(id))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update pricing rule", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"pricing_rule": updated}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// DeactivatePricingRule godoc
// @Summary      Deactivate pricing rule
// @Description  Soft-removes the rule from future resolutions; stored fares keep referencing it
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/pricing-rules/{id}/deactivate [post]
func (h *Catalog) DeactivatePricingRule(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "deactivate_pricing_rule")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.catalog.DeactivatePricingRule(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to deactivate pricing rule", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": "deactivated", "id": id}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// CreateRentalPackage godoc
// @Summary      Create rental package
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateRentalPackageRequest true "Rental package"
// @Success      201  {object}  models.RentalPackage
// @Failure      422  {object}  map[string]string
// @Router       /admin/rental-packages [post]
func (h *Catalog) CreateRentalPackage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_rental_package")

	req := &dto.CreateRentalPackageRequest{}
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

	pkg, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.catalog.CreateRentalPackage(ctx, pkg)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create rental package", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"rental_package": created}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListRentalPackages godoc
// @Summary      List rental packages
// @Tags         Catalog
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200  {object}  map[string]any
// @Router       /admin/rental-packages [get]
func (h *Catalog) ListRentalPackages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_rental_packages")

	v := validator.New()
	qs := r.URL.Query()

	filters := models.Filters{
		Page:         readInt(qs, "page", 1, v),
		PageSize:     readInt(qs, "page_size", 20, v),
		Sort:         readString(qs, "sort", "created_at"),
		SortSafelist: []string{"created_at", "-created_at", "label", "-label", "base_price", "-base_price"},
	}
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	packages, metadata, err := h.catalog.ListRentalPackages(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list rental packages", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rental_packages": packages, "metadata": metadata}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// UpdateRentalPackage godoc
// @Summary      Update rental package
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID"
// @Param        request body dto.UpdateRentalPackageRequest true "Package fields"
// @Success      200  {object}  models.RentalPackage
// @Failure      404  {object}  map[string]string
// @Router       /admin/rental-packages/{id} [patch]
func (h *Catalog) UpdateRentalPackage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_rental_package")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.UpdateRentalPackageRequest{}
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

	updated, err := h.catalog.UpdateRentalPackage(ctx, req.ToModel(id))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update rental package", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rental_package": updated}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// DeactivateRentalPackage godoc
// @Summary      Deactivate rental package
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Package ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/rental-packages/{id}/deactivate [post]
func (h *Catalog) DeactivateRentalPackage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "deactivate_rental_package")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.catalog.DeactivateRentalPackage(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to deactivate rental package", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": "deactivated", "id": id}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
