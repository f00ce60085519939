package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-core/internal/config"
	"github.com/nikolayk812/checkout-core/internal/gateway"
	"github.com/nikolayk812/checkout-core/internal/httpapi"
	"github.com/nikolayk812/checkout-core/internal/repository"
	"github.com/nikolayk812/checkout-core/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "checkoutd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("repository.RunMigrations: %w", err)
	}
	logger.Info("database migrations completed")

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	carts, err := repository.NewCart(pool)
	if err != nil {
		return fmt.Errorf("repository.NewCart: %w", err)
	}
	catalog, err := repository.NewProduct(pool)
	if err != nil {
		return fmt.Errorf("repository.NewProduct: %w", err)
	}
	checkoutRepo, err := repository.NewCheckout(pool)
	if err != nil {
		return fmt.Errorf("repository.NewCheckout: %w", err)
	}
	ledgerRepo, err := repository.NewTransaction(pool)
	if err != nil {
		return fmt.Errorf("repository.NewTransaction: %w", err)
	}
	methodsRepo, err := repository.NewPaymentMethod(pool)
	if err != nil {
		return fmt.Errorf("repository.NewPaymentMethod: %w", err)
	}
	ordersRepo, err := repository.NewOrder(pool)
	if err != nil {
		return fmt.Errorf("repository.NewOrder: %w", err)
	}

	paymentGateway := gateway.NewDummy(gateway.ApproveAll{}, cfg.GatewayLatency)

	cartSvc, err := service.NewCartService(carts, catalog, logger)
	if err != nil {
		return fmt.Errorf("service.NewCartService: %w", err)
	}
	checkoutSvc, err := service.NewCheckoutService(carts, catalog, checkoutRepo,
		ledgerRepo, methodsRepo, paymentGateway, cfg.GatewayTimeout, logger)
	if err != nil {
		return fmt.Errorf("service.NewCheckoutService: %w", err)
	}
	ledgerSvc, err := service.NewLedgerService(ledgerRepo, logger)
	if err != nil {
		return fmt.Errorf("service.NewLedgerService: %w", err)
	}
	methodSvc, err := service.NewPaymentMethodService(methodsRepo)
	if err != nil {
		return fmt.Errorf("service.NewPaymentMethodService: %w", err)
	}
	orderSvc, err := service.NewOrderService(ordersRepo, logger)
	if err != nil {
		return fmt.Errorf("service.NewOrderService: %w", err)
	}

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(cartSvc),
		httpapi.NewCheckoutHandler(checkoutSvc),
		httpapi.NewOrderHandler(orderSvc),
		httpapi.NewTransactionHandler(ledgerSvc, checkoutSvc, methodSvc),
		logger,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.HTTPPort))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
	}

	return nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
