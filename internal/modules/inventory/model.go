package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a sellable good and its remaining stock.
type Item struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	StockCount  int             `json:"stock_count" db:"stock_count"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// AddItemRequest is the payload for POST /inventory/add.
type AddItemRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	StockCount  *int             `json:"stock_count"`
}

// UpdateItemRequest is a partial update; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	StockCount  *int             `json:"stock_count"`
}

// DeduceRequest is the body of POST /inventory/deduce/{id}. A missing amount means 1.
type DeduceRequest struct {
	Amount *int `json:"amount"`
}

type DeduceResult struct {
	Message       string `json:"message"`
	NewStockCount int    `json:"new_stock_count"`
}
