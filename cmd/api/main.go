package main

import (
	"context"
	"net/http"
	"os"

	"github.com/barrelhousehq/barrelhouse-backend/api/routes"
	authsvc "github.com/barrelhousehq/barrelhouse-backend/internal/auth"
	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/barrelhousehq/barrelhouse-backend/internal/checkout"
	customer "github.com/barrelhousehq/barrelhouse-backend/internal/customers"
	"github.com/barrelhousehq/barrelhouse-backend/internal/dashboard"
	item "github.com/barrelhousehq/barrelhouse-backend/internal/items"
	promotion "github.com/barrelhousehq/barrelhouse-backend/internal/promotions"
	"github.com/barrelhousehq/barrelhouse-backend/internal/register"
	transaction "github.com/barrelhousehq/barrelhouse-backend/internal/transactions"
	user "github.com/barrelhousehq/barrelhouse-backend/internal/users"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/auth/session"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/metrics"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/migrate"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	itemRepo := item.NewRepository(dbClient.DB())
	customerRepo := customer.NewRepository(dbClient.DB())
	promotionRepo := promotion.NewRepository(dbClient.DB())
	transactionRepo := transaction.NewRepository(dbClient.DB())
	userRepo := user.NewRepository(dbClient.DB())

	cartStore, err := cart.NewStore(redisClient, cfg.Register)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	authService, err := authsvc.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	exitOnErr(logg, "auth service", err)

	itemService, err := item.NewService(itemRepo, cfg.Inventory)
	exitOnErr(logg, "item service", err)

	customerService, err := customer.NewService(customerRepo)
	exitOnErr(logg, "customer service", err)

	promotionService, err := promotion.NewService(promotionRepo)
	exitOnErr(logg, "promotion service", err)

	checkoutService, err := checkout.NewService(transactionRepo, itemRepo, customerRepo, logg, checkoutMetrics)
	exitOnErr(logg, "checkout service", err)

	registerService, err := register.NewService(itemRepo, promotionRepo, cartStore, checkoutService)
	exitOnErr(logg, "register service", err)

	transactionService, err := transaction.NewService(transactionRepo)
	exitOnErr(logg, "transaction service", err)

	dashboardService, err := dashboard.NewService(transactionRepo, itemRepo, customerRepo)
	exitOnErr(logg, "dashboard service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:         authService,
			Items:        itemService,
			Customers:    customerService,
			Promotions:   promotionService,
			Register:     registerService,
			Transactions: transactionService,
			Dashboard:    dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
