package controllers

import (
	"net/http"

	"github.com/barrelhousehq/barrelhouse-backend/api/responses"
	"github.com/barrelhousehq/barrelhouse-backend/api/validators"
	item "github.com/barrelhousehq/barrelhouse-backend/internal/items"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createItemRequest struct {
	Barcode      string          `json:"barcode" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	CaseQuantity int             `json:"case_quantity" validate:"gte=0"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	Margin       decimal.Decimal `json:"margin"`
	Size         string          `json:"size"`
	Category     string          `json:"category"`
	Supplier     string          `json:"supplier"`
	UnitsPerCase int             `json:"units_per_case" validate:"gte=0"`
	CaseCost     decimal.Decimal `json:"case_cost"`
	Rank         int             `json:"rank"`
}

type updateItemRequest struct {
	Barcode      *string          `json:"barcode"`
	Name         *string          `json:"name"`
	Quantity     *int             `json:"quantity"`
	CaseQuantity *int             `json:"case_quantity"`
	Price        *decimal.Decimal `json:"price"`
	AverageCost  *decimal.Decimal `json:"average_cost"`
	Margin       *decimal.Decimal `json:"margin"`
	Size         *string          `json:"size"`
	Category     *string          `json:"category"`
	Supplier     *string          `json:"supplier"`
	UnitsPerCase *int             `json:"units_per_case"`
	CaseCost     *decimal.Decimal `json:"case_cost"`
	Rank         *int             `json:"rank"`
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}

// ItemCreate adds a new item to the catalog.
func ItemCreate(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := service.CreateItem(r.Context(), item.CreateItemInput{
			Barcode:      body.Barcode,
			Name:         body.Name,
			Quantity:     body.Quantity,
			CaseQuantity: body.CaseQuantity,
			Price:        body.Price,
			AverageCost:  body.AverageCost,
			Margin:       body.Margin,
			Size:         body.Size,
			Category:     body.Category,
			Supplier:     body.Supplier,
			UnitsPerCase: body.UnitsPerCase,
			CaseCost:     body.CaseCost,
			Rank:         body.Rank,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ItemUpdate patches an existing item.
func ItemUpdate(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := service.UpdateItem(r.Context(), id, item.UpdateItemInput{
			Barcode:      body.Barcode,
			Name:         body.Name,
			Quantity:     body.Quantity,
			CaseQuantity: body.CaseQuantity,
			Price:        body.Price,
			AverageCost:  body.AverageCost,
			Margin:       body.Margin,
			Size:         body.Size,
			Category:     body.Category,
			Supplier:     body.Supplier,
			UnitsPerCase: body.UnitsPerCase,
			CaseCost:     body.CaseCost,
			Rank:         body.Rank,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ItemGet returns one item by id.
func ItemGet(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := service.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// ItemList returns the catalog, ordered by name or rank.
func ItemList(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := service.ListItems(r.Context(), r.URL.Query().Get("order_by"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ItemSearch matches a substring against names and barcodes.
func ItemSearch(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := service.SearchItems(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ItemLowStock lists items at or below the configured threshold.
func ItemLowStock(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := service.LowStockItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ItemAdjustQuantity applies a signed stock delta to one item.
func ItemAdjustQuantity(service item.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := service.AdjustQuantity(r.Context(), id, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
