package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetora/fleetops/config"
	httpserver "github.com/fleetora/fleetops/internal/adapter/http/server"
	repo "github.com/fleetora/fleetops/internal/adapter/postgres"
	"github.com/fleetora/fleetops/internal/adapter/rabbit"
	"github.com/fleetora/fleetops/internal/service/auth"
	"github.com/fleetora/fleetops/internal/service/booking"
	"github.com/fleetora/fleetops/internal/service/catalog"
	"github.com/fleetora/fleetops/internal/service/pricing"
	"github.com/fleetora/fleetops/pkg/logger"
	postgresclient "github.com/fleetora/fleetops/pkg/postgres"
	rabbitclient "github.com/fleetora/fleetops/pkg/rabbit"
	"github.com/fleetora/fleetops/pkg/trm"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbitclient.RabbitMQ
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	mq, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to setup rabbitmq", err)
		return nil, err
	}

	broker, err := rabbit.NewBookingBroker(ctx, mq, log)
	if err != nil {
		log.Error(ctx, "failed to setup booking broker", err)
		return nil, err
	}

	// repositories
	serviceTypeRepo := repo.NewServiceTypeRepo(db.Pool)
	pricingRuleRepo := repo.NewPricingRuleRepo(db.Pool)
	rentalPackageRepo := repo.NewRentalPackageRepo(db.Pool)
	bookingRepo := repo.NewBookingRepo(db.Pool)
	paymentRepo := repo.NewPaymentRepo(db.Pool)

	txManager := trm.New(db.Pool)

	// services
	resolver := pricing.NewResolver(serviceTypeRepo, pricingRuleRepo, rentalPackageRepo, log)
	quoteSvc := pricing.NewService(resolver, cfg.Pricing.Currency, log)
	catalogSvc := catalog.NewCatalogService(serviceTypeRepo, pricingRuleRepo, rentalPackageRepo, log)
	bookingSvc := booking.NewBookingService(bookingRepo, paymentRepo, quoteSvc, broker, txManager, log)
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, log)

	server, err := httpserver.New(cfg, catalogSvc, bookingSvc, quoteSvc, tokenSvc, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   mq,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "admin service closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to close rabbitmq connection", "error", err.Error())
		}
	}

	a.postgresDB.Pool.Close()
}
