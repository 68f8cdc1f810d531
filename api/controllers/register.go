package controllers

import (
	"net/http"

	"github.com/barrelhousehq/barrelhouse-backend/api/middleware"
	"github.com/barrelhousehq/barrelhouse-backend/api/responses"
	"github.com/barrelhousehq/barrelhouse-backend/api/validators"
	"github.com/barrelhousehq/barrelhouse-backend/internal/register"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type addItemRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type checkoutRequest struct {
	Type          string           `json:"type" validate:"required,oneof=sale refund"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash credit debit"`
	CashTendered  *decimal.Decimal `json:"cash_tendered"`
	CustomerID    *uuid.UUID       `json:"customer_id"`
}

func registerSession(r *http.Request) string {
	return chi.URLParam(r, "sessionId")
}

// RegisterCartView returns the session cart.
func RegisterCartView(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := service.View(r.Context(), registerSession(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RegisterScan adds one unit of the scanned barcode to the session cart.
func RegisterScan(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body scanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.Scan(r.Context(), registerSession(r), body.Barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RegisterAddItem adds one unit by item id from the on-screen catalog.
func RegisterAddItem(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.AddItem(r.Context(), registerSession(r), body.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RegisterSetQuantity replaces a line's quantity; zero removes it.
func RegisterSetQuantity(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.SetQuantity(r.Context(), registerSession(r), itemID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RegisterRemoveItem drops a line from the session cart.
func RegisterRemoveItem(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.RemoveItem(r.Context(), registerSession(r), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RegisterClear voids the session cart.
func RegisterClear(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Clear(r.Context(), registerSession(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// RegisterCheckout finalizes the session cart. The cashier identity comes
// from the authenticated request, never from the body.
func RegisterCheckout(service register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txnType, err := enums.ParseTransactionType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "type must be sale or refund"))
			return
		}

		receipt, err := service.Finalize(r.Context(), registerSession(r), register.FinalizeInput{
			Type:          txnType,
			PaymentMethod: body.PaymentMethod,
			CashTendered:  body.CashTendered,
			CustomerID:    body.CustomerID,
			CashierID:     middleware.CashierIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
