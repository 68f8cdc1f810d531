package controllers

import (
	"net/http"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/api/responses"
	"github.com/barrelhousehq/barrelhouse-backend/api/validators"
	promotion "github.com/barrelhousehq/barrelhouse-backend/internal/promotions"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type promotionRequest struct {
	Name            string          `json:"name" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value           decimal.Decimal `json:"value" validate:"required"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	EndDate         time.Time       `json:"end_date" validate:"required"`
	ApplicableItems string          `json:"applicable_items"`
	QuantityNeeded  int             `json:"quantity_needed"`
}

func (p promotionRequest) toInput() (promotion.PromotionInput, error) {
	promoType, err := enums.ParsePromotionType(p.Type)
	if err != nil {
		return promotion.PromotionInput{}, pkgerrors.New(pkgerrors.CodeValidation, "type must be percentage or fixed")
	}
	quantityNeeded := p.QuantityNeeded
	if quantityNeeded == 0 {
		quantityNeeded = 1
	}
	return promotion.PromotionInput{
		Name:            p.Name,
		Type:            promoType,
		Value:           p.Value,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		ApplicableItems: p.ApplicableItems,
		QuantityNeeded:  quantityNeeded,
	}, nil
}

// PromotionCreate adds a new promotion.
func PromotionCreate(service promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body promotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := service.CreatePromotion(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PromotionUpdate replaces an existing promotion.
func PromotionUpdate(service promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body promotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := service.UpdatePromotion(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// PromotionDelete removes a promotion.
func PromotionDelete(service promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := service.DeletePromotion(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PromotionGet returns one promotion by id.
func PromotionGet(service promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := service.GetPromotion(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// PromotionList returns every promotion.
func PromotionList(service promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("active") == "true" {
			rows, err := service.ListActivePromotions(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, rows)
			return
		}

		rows, err := service.ListPromotions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
