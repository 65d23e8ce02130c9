package sale

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/georgemunganga/printa-shop/internal/platform/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS sales (
	id        UUID          PRIMARY KEY,
	username  VARCHAR(80)   NOT NULL,
	item_name VARCHAR(100)  NOT NULL,
	price     NUMERIC(15,2) NOT NULL,
	sold_at   TIMESTAMPTZ   NOT NULL
);
CREATE INDEX IF NOT EXISTS sales_username_sold_at_idx ON sales (username, sold_at)`

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

// EnsureSchema creates the sales table when it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepo) Append(ctx context.Context, rec *Record) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO sales (id, username, item_name, price, sold_at)
		VALUES (:id, :username, :item_name, :price, :sold_at)`, rec)
	return database.Translate("sale.append", err, "")
}

func (r *postgresRepo) ListByUsername(ctx context.Context, username string) ([]*Record, error) {
	records := []*Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, username, item_name, price, sold_at
		FROM sales WHERE username=$1
		ORDER BY sold_at ASC, id ASC`, username)
	if err != nil {
		return nil, database.Translate("sale.list", err, "")
	}
	return records, nil
}
