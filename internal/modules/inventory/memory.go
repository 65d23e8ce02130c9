package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

// memoryRepo keeps items in insertion order under one mutex.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []*Item
}

func NewMemoryRepository() Repository {
	return &memoryRepo{nextID: 1}
}

func (r *memoryRepo) Create(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	item.ID = r.nextID
	item.CreatedAt, item.UpdatedAt = now, now
	r.nextID++
	stored := *item
	r.items = append(r.items, &stored)
	return nil
}

func (r *memoryRepo) find(id int64) *Item {
	for _, it := range r.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.find(id)
	if it == nil {
		return nil, apperr.NotFound(notFoundMsg)
	}
	out := *it
	return &out, nil
}

func (r *memoryRepo) GetByName(_ context.Context, name string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Name == name {
			out := *it
			return &out, nil
		}
	}
	return nil, apperr.NotFound(name + " not found in list of goods")
}

func (r *memoryRepo) List(_ context.Context) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, fn func(item *Item) error) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.find(id)
	if it == nil {
		return nil, apperr.NotFound(notFoundMsg)
	}
	working := *it
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now().UTC()
	*it = working
	out := working
	return &out, nil
}

func (r *memoryRepo) Deduce(_ context.Context, id int64, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.find(id)
	if it == nil {
		return 0, apperr.NotFound(notFoundMsg)
	}
	if amount > it.StockCount {
		return 0, apperr.Validation("Invalid deduction amount")
	}
	it.StockCount -= amount
	it.UpdatedAt = time.Now().UTC()
	return it.StockCount, nil
}
