package controllers

import (
	"net/http"

	"github.com/barrelhousehq/barrelhouse-backend/api/responses"
	"github.com/barrelhousehq/barrelhouse-backend/internal/dashboard"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
)

// DashboardMetrics returns the storefront overview numbers.
func DashboardMetrics(service dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := service.Metrics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}
