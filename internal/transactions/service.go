package transaction

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes read access to transaction history.
type Service interface {
	ListTransactions(ctx context.Context, input ListInput) (*Page, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
}

// ListInput narrows and pages the history query.
type ListInput struct {
	From   *time.Time
	To     *time.Time
	Type   string
	Status string
	Limit  int
	Cursor string
}

type service struct {
	repo *Repository
}

// NewService constructs a transaction history service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	return &service{repo: repo}, nil
}

// ListTransactions pages history newest first. The page carries an opaque
// cursor when more rows remain.
func (s *service) ListTransactions(ctx context.Context, input ListInput) (*Page, error) {
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list transactions")
	}

	page := &Page{Transactions: make([]TransactionDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Transactions = append(page.Transactions, toTransactionDTO(row))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{Date: last.Date, ID: last.ID})
	}
	return page, nil
}

// GetTransaction loads one transaction by id.
func (s *service) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load transaction")
	}
	dto := toTransactionDTO(Row{Transaction: *txn})
	return &dto, nil
}

func buildFilter(input ListInput) (ListFilter, error) {
	filter := ListFilter{From: input.From, To: input.To}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return filter, pkgerrors.New(pkgerrors.CodeValidation, "to cannot precede from")
	}
	if input.Type != "" {
		t, err := enums.ParseTransactionType(input.Type)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "type must be sale or refund")
		}
		filter.Type = &t
	}
	if input.Status != "" {
		st, err := enums.ParseTransactionStatus(input.Status)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "status must be completed, pending, or cancelled")
		}
		filter.Status = &st
	}
	return filter, nil
}
