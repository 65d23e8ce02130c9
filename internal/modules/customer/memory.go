package customer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

// memoryRepo keeps customers in a map guarded by one mutex.
type memoryRepo struct {
	mu        sync.Mutex
	customers map[string]*Customer
}

func NewMemoryRepository() Repository {
	return &memoryRepo{customers: make(map[string]*Customer)}
}

func (r *memoryRepo) Create(_ context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.Username]; ok {
		return apperr.Conflict("username already exists")
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	r.customers[c.Username] = &stored
	return nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[username]
	if !ok {
		return nil, apperr.NotFound(notFoundMsg)
	}
	out := *c
	return &out, nil
}

func (r *memoryRepo) List(_ context.Context) ([]*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Customer, 0, len(r.customers))
	for _, c := range r.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, username string, fn func(c *Customer) error) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[username]
	if !ok {
		return nil, apperr.NotFound(notFoundMsg)
	}
	working := *c
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.Username = username
	working.Wallet = c.Wallet
	working.UpdatedAt = time.Now().UTC()
	r.customers[username] = &working
	out := working
	return &out, nil
}

func (r *memoryRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[username]; !ok {
		return apperr.NotFound(notFoundMsg)
	}
	delete(r.customers, username)
	return nil
}

func (r *memoryRepo) Charge(_ context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[username]
	if !ok {
		return decimal.Zero, apperr.NotFound(notFoundMsg)
	}
	c.Wallet = c.Wallet.Add(amount)
	c.UpdatedAt = time.Now().UTC()
	return c.Wallet, nil
}

func (r *memoryRepo) Deduct(_ context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[username]
	if !ok {
		return decimal.Zero, apperr.NotFound(notFoundMsg)
	}
	if c.Wallet.LessThan(amount) {
		return decimal.Zero, apperr.InsufficientFunds("insufficient funds")
	}
	c.Wallet = c.Wallet.Sub(amount)
	c.UpdatedAt = time.Now().UTC()
	return c.Wallet, nil
}
