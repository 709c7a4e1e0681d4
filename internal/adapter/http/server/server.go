package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetora/fleetops/config"
	"github.com/fleetora/fleetops/internal/adapter/http/handler"
	"github.com/fleetora/fleetops/internal/adapter/http/middleware"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
)

const serviceName = "fleetops-admin"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	catalog *handler.Catalog
	booking *handler.Booking
}

func New(
	cfg config.Config,
	catalogService handler.CatalogService,
	bookingService handler.BookingService,
	quoteService handler.QuoteService,
	authService middleware.AuthService,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		health:  handler.NewHealth(serviceName, log),
		catalog: handler.NewCatalog(catalogService, log),
		booking: handler.NewBooking(bookingService, quoteService, log),
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   fmt.Sprintf("%s:%s", "0.0.0.0", cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies the outer middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	metrics := a.m.Metrics(serviceName)
	return a.m.Recover(metrics(a.m.Logging(a.m.Auth(a.mux))))
}
