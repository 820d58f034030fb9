package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dukerupert/strand/internal"
	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/cookie"
	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/handler/admin"
	"github.com/dukerupert/strand/internal/handler/storefront"
	"github.com/dukerupert/strand/internal/memory"
	"github.com/dukerupert/strand/internal/middleware"
	"github.com/dukerupert/strand/internal/postgres"
	"github.com/dukerupert/strand/internal/router"
	"github.com/dukerupert/strand/internal/routes"
	"github.com/dukerupert/strand/internal/service"
	"github.com/dukerupert/strand/internal/shipping"
	"github.com/dukerupert/strand/internal/tax"
	"github.com/dukerupert/strand/internal/telemetry"
	"github.com/dukerupert/strand/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Stores
	// ==========================================================================

	var (
		store      catalog.Store
		orderStore catalog.OrderStore
	)

	switch cfg.Store {
	case "memory":
		logger.Info("Using in-memory store")
		mem := memory.NewStore()
		store = mem
		orderStore = mem

	default:
		// Initialize database/sql connection for migrations
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		// Initialize pgx connection pool for application
		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		store = postgres.NewStore(pool)
		orderStore = postgres.NewOrderStore(pool)
	}

	// ==========================================================================
	// Services
	// ==========================================================================

	businessMetrics := telemetry.NewMetrics(prometheus.DefaultRegisterer, "strand")

	cartService := service.NewCartService(store, orderStore, businessMetrics)
	productService := service.NewProductService(store, orderStore)
	catalogService := service.NewCatalogService(store)

	var taxCalc tax.Calculator
	if cfg.Checkout.TaxRate > 0 {
		taxCalc = tax.NewFlatFeeCalculator(cfg.Checkout.TaxRate, "Tax")
	} else {
		taxCalc = tax.NewNoTaxCalculator()
	}

	var shippingProvider shipping.Provider
	if cfg.Checkout.FlatShippingCents > 0 {
		fee := domain.Money{Cents: cfg.Checkout.FlatShippingCents, Currency: cfg.Currency}
		shippingProvider = shipping.NewFlatRateProvider(fee, cfg.Checkout.ShippingDescription)
	} else {
		shippingProvider = shipping.NewFreeShippingProvider()
	}

	checkoutService := service.NewCheckoutService(store, orderStore, taxCalc, shippingProvider, businessMetrics)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	cookieConfig := cookie.NewConfig(cfg.Env == "prod")

	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(productService),
		CartHandler:     storefront.NewCartHandler(cartService, cookieConfig),
		CheckoutHandler: storefront.NewCheckoutHandler(cartService, checkoutService),
	}

	adminDeps := routes.AdminDeps{
		CatalogHandler: admin.NewCatalogHandler(catalogService, cfg.Currency),
	}

	// ==========================================================================
	// Router
	// ==========================================================================

	metrics := middleware.NewMetrics("strand")

	chain := []router.Middleware{
		middleware.Recover,
		middleware.RequestID,
		metrics.Middleware,
		middleware.MaxBodySize(middleware.SmallMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		chain = append(chain, router.CORS(cfg.CORSAllowedOrigins))
	}

	r := router.New(chain...)

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	// ==========================================================================
	// Background worker
	// ==========================================================================

	if cfg.Cart.AbandonedAfterHours > 0 {
		sweeper := worker.NewWorker(cartService, worker.Config{
			CartMaxAge: time.Duration(cfg.Cart.AbandonedAfterHours) * time.Hour,
		}, logger)
		go func() {
			if err := sweeper.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("worker stopped", "error", err)
			}
		}()
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "store", cfg.Store)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
