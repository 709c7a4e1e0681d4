package server

import (
	"net/http"

	"github.com/fleetora/fleetops/internal/adapter/http/middleware"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	// Swagger UI and Prometheus metrics
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName("admin")))
	mux.Handle("/metrics", promhttp.Handler())

	setupCatalogRoutes(mux, routes, m)
	setupBookingRoutes(mux, routes, m)
}

// setupCatalogRoutes covers service types, pricing rules and rental packages.
// Reads are open to viewers; writes need an admin.
func setupCatalogRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /admin/service-types", m.RequireRoles(routes.catalog.CreateServiceType, types.AdminRole))
	mux.Handle("GET /admin/service-types", m.RequireRoles(routes.catalog.ListServiceTypes, types.AdminRole, types.OperatorRole, types.ViewerRole))

	mux.Handle("POST /admin/pricing-rules", m.RequireRoles(routes.catalog.CreatePricingRule, types.AdminRole))
	mux.Handle("GET /admin/pricing-rules", m.RequireRoles(routes.catalog.ListPricingRules, types.AdminRole, types.OperatorRole, types.ViewerRole))
	mux.Handle("PATCH /admin/pricing-rules/{id}", m.RequireRoles(routes.catalog.UpdatePricingRule, types.AdminRole))
	mux.Handle("POST /admin/pricing-rules/{id}/deactivate", m.RequireRoles(routes.catalog.DeactivatePricingRule, types.AdminRole))

	mux.Handle("POST /admin/rental-packages", m.RequireRoles(routes.catalog.CreateRentalPackage, types.AdminRole))
	mux.Handle("GET /admin/rental-packages", m.RequireRoles(routes.catalog.ListRentalPackages, types.AdminRole, types.OperatorRole, types.ViewerRole))
	mux.Handle("PATCH /admin/rental-packages/{id}", m.RequireRoles(routes.catalog.UpdateRentalPackage, types.AdminRole))
	mux.Handle("POST /admin/rental-packages/{id}/deactivate", m.RequireRoles(routes.catalog.DeactivateRentalPackage, types.AdminRole))
}

// setupBookingRoutes covers quotes, booking lifecycle and payments.
func setupBookingRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /admin/quotes", m.RequireRoles(routes.booking.Quote, types.AdminRole, types.OperatorRole))

	mux.Handle("POST /admin/bookings", m.RequireRoles(routes.booking.Create, types.AdminRole, types.OperatorRole))
	mux.Handle("GET /admin/bookings", m.RequireRoles(routes.booking.List, types.AdminRole, types.OperatorRole, types.ViewerRole))
	mux.Handle("GET /admin/bookings/{id}", m.RequireRoles(routes.booking.Get, types.AdminRole, types.OperatorRole, types.ViewerRole))

	mux.Handle("POST /admin/bookings/{id}/accept", m.RequireRoles(routes.booking.Accept, types.AdminRole, types.OperatorRole))
	mux.Handle("POST /admin/bookings/{id}/start", m.RequireRoles(routes.booking.Start, types.AdminRole, types.OperatorRole))
	mux.Handle("POST /admin/bookings/{id}/complete", m.RequireRoles(routes.booking.Complete, types.AdminRole, types.OperatorRole))
	mux.Handle("POST /admin/bookings/{id}/cancel", m.RequireRoles(routes.booking.Cancel, types.AdminRole, types.OperatorRole))

	mux.Handle("POST /admin/bookings/{id}/fare", m.RequireRoles(routes.booking.OverrideFare, types.AdminRole))

	mux.Handle("POST /admin/bookings/{id}/payments", m.RequireRoles(routes.booking.RecordPayment, types.AdminRole, types.OperatorRole))
	mux.Handle("GET /admin/bookings/{id}/payments", m.RequireRoles(routes.booking.PaymentSummary, types.AdminRole, types.OperatorRole, types.ViewerRole))
}
