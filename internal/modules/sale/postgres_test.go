package sale

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/database/dbtest"
)

func newPostgresRepo(t *testing.T) Repository {
	t.Helper()
	db := dbtest.Connect(t)
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))
	_, err := db.ExecContext(ctx, `DELETE FROM sales WHERE username LIKE 'pgtest-%'`)
	require.NoError(t, err)
	return NewPostgresRepository(db)
}

func TestPostgres_AppendAndList(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Appended out of order; listed by time.
	for i, offset := range []int{2, 0, 1} {
		rec := &Record{
			ID:        uuid.New(),
			Username:  "pgtest-alice",
			ItemName:  "Widget",
			Price:     decimal.NewFromInt(int64(10 + i)),
			Timestamp: base.Add(time.Duration(offset) * time.Minute),
		}
		require.NoError(t, repo.Append(ctx, rec))
	}

	recs, err := repo.ListByUsername(ctx, "pgtest-alice")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.True(t, recs[0].Price.Equal(decimal.NewFromInt(11)))
	assert.True(t, recs[2].Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, recs[0].Timestamp.Equal(base))

	empty, err := repo.ListByUsername(ctx, "pgtest-nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPostgres_DuplicateID(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()
	rec := &Record{ID: uuid.New(), Username: "pgtest-bob", ItemName: "Widget", Price: decimal.NewFromInt(5), Timestamp: time.Now()}

	require.NoError(t, repo.Append(ctx, rec))
	assert.ErrorIs(t, repo.Append(ctx, rec), apperr.ErrConflict)
}
