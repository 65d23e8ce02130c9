package customer

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	username       VARCHAR(80)   PRIMARY KEY,
	full_name      VARCHAR(150)  NOT NULL,
	password_hash  VARCHAR(128)  NOT NULL,
	age            INTEGER       NOT NULL CHECK (age >= 0),
	address        VARCHAR(200)  NOT NULL,
	gender         VARCHAR(50)   NOT NULL,
	marital_status VARCHAR(50)   NOT NULL,
	wallet         NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (wallet >= 0),
	created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
)`

const selectColumns = `
	SELECT username, full_name, password_hash, age, address, gender,
	       marital_status, wallet, created_at, updated_at
	FROM customers`

const notFoundMsg = "customer not found"

type postgresRepo struct{ db *sqlx.DB }

func NewPostgresRepository(db *sqlx.DB) Repository { return &postgresRepo{db: db} }

// EnsureSchema creates the customers table when it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO customers
		  (username, full_name, password_hash, age, address, gender, marital_status, wallet)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		c.Username, c.FullName, c.PasswordHash, c.Age, c.Address,
		c.Gender, c.MaritalStatus, c.Wallet).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		err = database.Translate("customer.create", err, "")
		if apperr.HasKind(err, apperr.KindConflict) {
			return apperr.Wrap(apperr.KindConflict, "customer.create", err, "username already exists")
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*Customer, error) {
	c := &Customer{}
	err := r.db.GetContext(ctx, c, selectColumns+` WHERE username=$1`, username)
	if err != nil {
		return nil, database.Translate("customer.get", err, notFoundMsg)
	}
	return c, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Customer, error) {
	customers := []*Customer{}
	if err := r.db.SelectContext(ctx, &customers, selectColumns+` ORDER BY username`); err != nil {
		return nil, database.Translate("customer.list", err, "")
	}
	return customers, nil
}

func (r *postgresRepo) Update(ctx context.Context, username string, fn func(c *Customer) error) (*Customer, error) {
	c := &Customer{}
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, c, selectColumns+` WHERE username=$1 FOR UPDATE`, username); err != nil {
			return database.Translate("customer.update", err, notFoundMsg)
		}
		if err := fn(c); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx, `
			UPDATE customers
			SET full_name=$1, password_hash=$2, age=$3, address=$4, gender=$5,
			    marital_status=$6, updated_at=NOW()
			WHERE username=$7
			RETURNING updated_at`,
			c.FullName, c.PasswordHash, c.Age, c.Address, c.Gender,
			c.MaritalStatus, username).Scan(&c.UpdatedAt)
		return database.Translate("customer.update", err, notFoundMsg)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE username=$1`, username)
	if err != nil {
		return database.Translate("customer.delete", err, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.Translate("customer.delete", err, "")
	}
	if n == 0 {
		return apperr.NotFound(notFoundMsg)
	}
	return nil
}

func (r *postgresRepo) Charge(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, `
		UPDATE customers SET wallet = wallet + $1, updated_at=NOW()
		WHERE username=$2
		RETURNING wallet`, amount, username)
	if err != nil {
		return decimal.Zero, database.Translate("customer.charge", err, notFoundMsg)
	}
	return balance, nil
}

// Deduct subtracts amount only while the wallet covers it. When no row is
// updated a second query tells a missing customer from a short wallet.
func (r *postgresRepo) Deduct(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, `
		UPDATE customers SET wallet = wallet - $1, updated_at=NOW()
		WHERE username=$2 AND wallet >= $1
		RETURNING wallet`, amount, username)
	if err == nil {
		return balance, nil
	}
	err = database.Translate("customer.deduct", err, notFoundMsg)
	if !apperr.HasKind(err, apperr.KindNotFound) {
		return decimal.Zero, err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM customers WHERE username=$1)`, username); err != nil {
		return decimal.Zero, database.Translate("customer.deduct", err, "")
	}
	if !exists {
		return decimal.Zero, apperr.NotFound(notFoundMsg)
	}
	return decimal.Zero, apperr.InsufficientFunds("insufficient funds")
}
