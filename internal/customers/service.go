package customer

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	searchLimit          = 10
	searchMinQueryLength = 2
)

// Service exposes loyalty customer operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error)
	QuickAddCustomer(ctx context.Context, name, phone string) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
	SearchCustomers(ctx context.Context, query string) ([]CustomerDTO, error)
}

// CreateCustomerInput holds the validated payload to create a customer.
type CreateCustomerInput struct {
	Name  string
	Phone string
	Email *string
}

// UpdateCustomerInput holds optional mutation values for a customer.
type UpdateCustomerInput struct {
	Name  *string
	Phone *string
	Email *string
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCustomer registers a new loyalty customer with zeroed stats.
func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	customer := &models.Customer{
		ID:    uuid.New(),
		Name:  name,
		Phone: phone,
		Email: normalizeEmail(input.Email),
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create customer")
	}
	return toCustomerDTO(created), nil
}

// QuickAddCustomer is the register-side shortcut: name and phone only, so the
// cashier can attach a new customer mid-sale.
func (s *service) QuickAddCustomer(ctx context.Context, name, phone string) (*CustomerDTO, error) {
	return s.CreateCustomer(ctx, CreateCustomerInput{Name: name, Phone: phone})
}

// UpdateCustomer applies the provided fields to the stored customer. Loyalty
// stats are not editable through this path.
func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		customer.Email = normalizeEmail(input.Email)
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update customer")
	}
	return toCustomerDTO(updated), nil
}

// GetCustomer loads one customer by id.
func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return toCustomerDTO(customer), nil
}

// DeleteCustomer removes the customer row. Past transactions keep their
// denormalized line snapshots; only the weak customer reference dangles.
func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrInternal(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete customer")
	}
	return nil
}

// ListCustomers returns every customer ordered by name.
func (s *service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list customers")
	}
	return toCustomerDTOs(rows), nil
}

// SearchCustomers matches a substring against name, phone, and email.
// Queries shorter than two characters return an empty result instead of an
// error so the register's incremental search stays quiet.
func (s *service) SearchCustomers(ctx context.Context, query string) ([]CustomerDTO, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLength {
		return []CustomerDTO{}, nil
	}
	rows, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to search customers")
	}
	return toCustomerDTOs(rows), nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func notFoundOrInternal(err error) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
}
