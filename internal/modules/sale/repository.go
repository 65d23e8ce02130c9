package sale

import "context"

// Repository stores sale records. Records are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	// ListByUsername returns the customer's records, oldest first.
	ListByUsername(ctx context.Context, username string) ([]*Record, error)
}
