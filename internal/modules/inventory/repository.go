package inventory

import "context"

// Repository defines item storage. Deduce is atomic and never lets
// stock_count go below zero.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	// GetByName returns the lowest-id item with exactly this name.
	GetByName(ctx context.Context, name string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Update(ctx context.Context, id int64, fn func(item *Item) error) (*Item, error)
	Deduce(ctx context.Context, id int64, amount int) (int, error)
}
