package customer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines customer storage. Charge and Deduct must be atomic per
// customer; Deduct never lets the wallet go below zero.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByUsername(ctx context.Context, username string) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
	// Update loads the customer under a row lock, applies fn and saves the result.
	Update(ctx context.Context, username string, fn func(c *Customer) error) (*Customer, error)
	Delete(ctx context.Context, username string) error
	Charge(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
	Deduct(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
}
