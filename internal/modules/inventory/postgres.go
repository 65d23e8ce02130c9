package inventory

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id          BIGSERIAL     PRIMARY KEY,
	name        VARCHAR(100)  NOT NULL,
	category    VARCHAR(50)   NOT NULL,
	price       NUMERIC(15,2) NOT NULL CHECK (price > 0),
	description TEXT          NOT NULL DEFAULT '',
	stock_count INTEGER       NOT NULL CHECK (stock_count >= 0),
	created_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS inventory_items_name_idx ON inventory_items (name)`

const selectColumns = `
	SELECT id, name, category, price, description, stock_count, created_at, updated_at
	FROM inventory_items`

const notFoundMsg = "Item not found"

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

// EnsureSchema creates the inventory_items table when it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepo) Create(ctx context.Context, item *Item) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO inventory_items (name, category, price, description, stock_count)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		item.Name, item.Category, item.Price, item.Description, item.StockCount).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return database.Translate("inventory.create", err, "")
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	item := &Item{}
	if err := r.db.GetContext(ctx, item, selectColumns+` WHERE id=$1`, id); err != nil {
		return nil, database.Translate("inventory.get", err, notFoundMsg)
	}
	return item, nil
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*Item, error) {
	item := &Item{}
	if err := r.db.GetContext(ctx, item, selectColumns+` WHERE name=$1 ORDER BY id LIMIT 1`, name); err != nil {
		return nil, database.Translate("inventory.get_by_name", err, name+" not found in list of goods")
	}
	return item, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Item, error) {
	items := []*Item{}
	if err := r.db.SelectContext(ctx, &items, selectColumns+` ORDER BY id`); err != nil {
		return nil, database.Translate("inventory.list", err, "")
	}
	return items, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, fn func(item *Item) error) (*Item, error) {
	item := &Item{}
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, item, selectColumns+` WHERE id=$1 FOR UPDATE`, id); err != nil {
			return database.Translate("inventory.update", err, notFoundMsg)
		}
		if err := fn(item); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx, `
			UPDATE inventory_items
			SET name=$1, category=$2, price=$3, description=$4, stock_count=$5, updated_at=NOW()
			WHERE id=$6
			RETURNING updated_at`,
			item.Name, item.Category, item.Price, item.Description, item.StockCount, id).
			Scan(&item.UpdatedAt)
		return database.Translate("inventory.update", err, notFoundMsg)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Deduce removes amount units only while enough stock remains.
func (r *postgresRepo) Deduce(ctx context.Context, id int64, amount int) (int, error) {
	var stock int
	err := r.db.GetContext(ctx, &stock, `
		UPDATE inventory_items SET stock_count = stock_count - $1, updated_at=NOW()
		WHERE id=$2 AND stock_count >= $1
		RETURNING stock_count`, amount, id)
	if err == nil {
		return stock, nil
	}
	err = database.Translate("inventory.deduce", err, notFoundMsg)
	if !apperr.HasKind(err, apperr.KindNotFound) {
		return 0, err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM inventory_items WHERE id=$1)`, id); err != nil {
		return 0, database.Translate("inventory.deduce", err, "")
	}
	if !exists {
		return 0, apperr.NotFound(notFoundMsg)
	}
	return 0, apperr.Validation("Invalid deduction amount")
}
