package sale

import (
	"context"
	"sort"
	"sync"
)

type memoryRepo struct {
	mu      sync.Mutex
	records []*Record
}

func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) Append(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rec
	r.records = append(r.records, &stored)
	return nil
}

func (r *memoryRepo) ListByUsername(_ context.Context, username string) ([]*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Record{}
	for _, rec := range r.records {
		if rec.Username == username {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
