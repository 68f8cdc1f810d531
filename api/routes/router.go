package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barrelhousehq/barrelhouse-backend/api/controllers"
	"github.com/barrelhousehq/barrelhouse-backend/api/middleware"
	authsvc "github.com/barrelhousehq/barrelhouse-backend/internal/auth"
	customer "github.com/barrelhousehq/barrelhouse-backend/internal/customers"
	"github.com/barrelhousehq/barrelhouse-backend/internal/dashboard"
	item "github.com/barrelhousehq/barrelhouse-backend/internal/items"
	promotion "github.com/barrelhousehq/barrelhouse-backend/internal/promotions"
	"github.com/barrelhousehq/barrelhouse-backend/internal/register"
	transaction "github.com/barrelhousehq/barrelhouse-backend/internal/transactions"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/auth/session"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
)

const (
	roleAdmin   = "admin"
	roleManager = "manager"
)

// Services bundles everything the router wires to handlers.
type Services struct {
	Auth         authsvc.Service
	Items        item.Service
	Customers    customer.Service
	Promotions   promotion.Service
	Register     register.Service
	Transactions transaction.Service
	Dashboard    dashboard.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP, redisP controllers.Pinger,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(svcs.Items, logg))
			r.Get("/search", controllers.ItemSearch(svcs.Items, logg))
			r.Get("/low-stock", controllers.ItemLowStock(svcs.Items, logg))
			r.Get("/{itemId}", controllers.ItemGet(svcs.Items, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, roleAdmin, roleManager))
				r.Post("/", controllers.ItemCreate(svcs.Items, logg))
				r.Patch("/{itemId}", controllers.ItemUpdate(svcs.Items, logg))
				r.Post("/{itemId}/adjust", controllers.ItemAdjustQuantity(svcs.Items, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(svcs.Customers, logg))
			r.Get("/search", controllers.CustomerSearch(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerGet(svcs.Customers, logg))
			r.Post("/", controllers.CustomerCreate(svcs.Customers, logg))
			r.Post("/quick-add", controllers.CustomerQuickAdd(svcs.Customers, logg))
			r.Patch("/{customerId}", controllers.CustomerUpdate(svcs.Customers, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, roleAdmin, roleManager))
				r.Delete("/{customerId}", controllers.CustomerDelete(svcs.Customers, logg))
			})
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", controllers.PromotionList(svcs.Promotions, logg))
			r.Get("/{promotionId}", controllers.PromotionGet(svcs.Promotions, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, roleAdmin, roleManager))
				r.Post("/", controllers.PromotionCreate(svcs.Promotions, logg))
				r.Put("/{promotionId}", controllers.PromotionUpdate(svcs.Promotions, logg))
				r.Delete("/{promotionId}", controllers.PromotionDelete(svcs.Promotions, logg))
			})
		})

		r.Route("/register/{sessionId}", func(r chi.Router) {
			r.Get("/", controllers.RegisterCartView(svcs.Register, logg))
			r.Delete("/", controllers.RegisterClear(svcs.Register, logg))
			r.Post("/scan", controllers.RegisterScan(svcs.Register, logg))
			r.Post("/items", controllers.RegisterAddItem(svcs.Register, logg))
			r.Patch("/items/{itemId}", controllers.RegisterSetQuantity(svcs.Register, logg))
			r.Delete("/items/{itemId}", controllers.RegisterRemoveItem(svcs.Register, logg))
			r.Post("/checkout", controllers.RegisterCheckout(svcs.Register, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(svcs.Transactions, logg))
			r.Get("/{transactionId}", controllers.TransactionGet(svcs.Transactions, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, roleAdmin, roleManager))
			r.Get("/metrics", controllers.DashboardMetrics(svcs.Dashboard, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(logg, roleAdmin))
		r.Post("/auth/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Get("/users", controllers.ListUsers(svcs.Auth, logg))
	})

	return r
}
