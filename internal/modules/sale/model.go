package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is an append-only entry in a customer's sales history. Price is the
// amount charged at the time of sale.
type Record struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Username  string          `json:"username" db:"username"`
	ItemName  string          `json:"good" db:"item_name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Timestamp time.Time       `json:"timestamp" db:"sold_at"`
}

// Request is the payload for POST /sale.
type Request struct {
	Name         string `json:"name"`
	CustomerUser string `json:"customer_user"`
}

// Result is returned for a completed sale.
type Result struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
	SaleID     uuid.UUID       `json:"sale_id"`
}

// Good is one entry of the /display listing.
type Good struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// GoodDetail is the response of GET /goods/{name}.
type GoodDetail struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
}

// InventoryItem is the sales-side view of an inventory record.
type InventoryItem struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	StockCount int             `json:"stock_count"`
}
