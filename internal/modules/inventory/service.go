package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

// Service defines inventory business logic.
type Service interface {
	AddItem(ctx context.Context, req AddItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	GetItemByName(ctx context.Context, name string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	DeduceStock(ctx context.Context, id int64, amount *int) (*DeduceResult, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) AddItem(ctx context.Context, req AddItemRequest) (*Item, error) {
	if req.Name == nil || req.Category == nil || req.Price == nil || req.StockCount == nil {
		return nil, apperr.Validation("Invalid input data")
	}
	item := &Item{
		Name:       strings.TrimSpace(*req.Name),
		Category:   *req.Category,
		Price:      *req.Price,
		StockCount: *req.StockCount,
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if err := validate(item); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("item added",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name),
		zap.Int("stock_count", item.StockCount))
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error) {
	item, err := s.repo.Update(ctx, id, func(it *Item) error {
		if req.Name != nil {
			it.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			it.Category = *req.Category
		}
		if req.Price != nil {
			it.Price = *req.Price
		}
		if req.Description != nil {
			it.Description = *req.Description
		}
		if req.StockCount != nil {
			it.StockCount = *req.StockCount
		}
		return validate(it)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("item updated", zap.Int64("item_id", id), zap.Int("stock_count", item.StockCount))
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetItemByName(ctx context.Context, name string) (*Item, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}

func (s *service) DeduceStock(ctx context.Context, id int64, amount *int) (*DeduceResult, error) {
	n := 1
	if amount != nil {
		n = *amount
	}
	if n <= 0 || n > math.MaxInt32 {
		return nil, apperr.Validation("Invalid deduction amount")
	}
	stock, err := s.repo.Deduce(ctx, id, n)
	if err != nil {
		return nil, err
	}
	s.log.Info("stock deduced", zap.Int64("item_id", id), zap.Int("amount", n), zap.Int("stock_count", stock))
	return &DeduceResult{
		Message:       fmt.Sprintf("%d units deduced", n),
		NewStockCount: stock,
	}, nil
}

// maxPrice is the first value the NUMERIC(15,2) price column cannot hold.
var maxPrice = decimal.New(1, 13)

func validate(it *Item) error {
	switch {
	case it.Name == "":
		return apperr.Validation("name cannot be empty")
	case it.Category == "":
		return apperr.Validation("category cannot be empty")
	case !it.Price.IsPositive():
		return apperr.Validation("price must be greater than zero")
	case !it.Price.Equal(it.Price.Round(2)):
		return apperr.Validation("price must have at most 2 decimal places")
	case it.Price.GreaterThanOrEqual(maxPrice):
		return apperr.Validation("price out of range")
	case it.StockCount < 0, it.StockCount > math.MaxInt32:
		return apperr.Validation("Invalid stock count")
	}
	return nil
}
