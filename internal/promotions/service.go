package promotion

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes promotion management operations.
type Service interface {
	CreatePromotion(ctx context.Context, input PromotionInput) (*PromotionDTO, error)
	UpdatePromotion(ctx context.Context, id uuid.UUID, input PromotionInput) (*PromotionDTO, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) error
	GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
	ListPromotions(ctx context.Context) ([]PromotionDTO, error)
	ListActivePromotions(ctx context.Context) ([]PromotionDTO, error)
}

// PromotionInput holds the validated payload to create or replace a
// promotion.
type PromotionInput struct {
	Name            string
	Type            enums.PromotionType
	Value           decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	ApplicableItems string
	QuantityNeeded  int
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a promotion service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) validate(input PromotionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "type must be percentage or fixed")
	}
	if !input.Value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if input.Type == enums.PromotionTypePercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
	}
	if input.EndDate.Before(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date cannot precede start_date")
	}
	if input.QuantityNeeded < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity_needed must be at least 1")
	}
	return nil
}

func (s *service) apply(promo *models.Promotion, input PromotionInput) {
	promo.Name = strings.TrimSpace(input.Name)
	promo.Type = input.Type
	promo.Value = input.Value
	promo.StartDate = input.StartDate
	promo.EndDate = input.EndDate
	promo.ApplicableItems = input.ApplicableItems
	promo.QuantityNeeded = input.QuantityNeeded
}

// CreatePromotion inserts a new promotion.
func (s *service) CreatePromotion(ctx context.Context, input PromotionInput) (*PromotionDTO, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	promo := &models.Promotion{}
	s.apply(promo, input)

	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create promotion")
	}
	return toPromotionDTO(created, s.now()), nil
}

// UpdatePromotion replaces the stored promotion with the input.
func (s *service) UpdatePromotion(ctx context.Context, id uuid.UUID, input PromotionInput) (*PromotionDTO, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	s.apply(promo, input)

	updated, err := s.repo.Update(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update promotion")
	}
	return toPromotionDTO(updated, s.now()), nil
}

// DeletePromotion removes the promotion entirely. Past transactions keep
// their captured prices; deleting a promotion never rewrites history.
func (s *service) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrInternal(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete promotion")
	}
	return nil
}

// GetPromotion loads one promotion by id.
func (s *service) GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return toPromotionDTO(promo, s.now()), nil
}

// ListPromotions returns every promotion, newest window first.
func (s *service) ListPromotions(ctx context.Context) ([]PromotionDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list promotions")
	}
	return toPromotionDTOs(rows, s.now()), nil
}

// ListActivePromotions returns promotions currently inside their window.
func (s *service) ListActivePromotions(ctx context.Context) ([]PromotionDTO, error) {
	rows, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list active promotions")
	}
	return toPromotionDTOs(rows, s.now()), nil
}

func notFoundOrInternal(err error) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load promotion")
}
