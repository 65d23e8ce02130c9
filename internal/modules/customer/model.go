package customer

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a registered shopper and their wallet.
type Customer struct {
	Username      string          `json:"username" db:"username"`
	FullName      string          `json:"full_name" db:"full_name"`
	PasswordHash  string          `json:"-" db:"password_hash"`
	Age           int             `json:"age" db:"age"`
	Address       string          `json:"address" db:"address"`
	Gender        string          `json:"gender" db:"gender"`
	MaritalStatus string          `json:"marital_status" db:"marital_status"`
	Wallet        decimal.Decimal `json:"wallet" db:"wallet"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the payload for POST /register. Pointer fields tell a
// missing key apart from a zero value.
type RegisterRequest struct {
	Username      *string `json:"username"`
	FullName      *string `json:"full_name"`
	Password      *string `json:"password"`
	Age           *int    `json:"age"`
	Address       *string `json:"address"`
	Gender        *string `json:"gender"`
	MaritalStatus *string `json:"marital_status"`
}

// UpdateRequest is a partial update. Username and Wallet are only decoded so
// they can be rejected.
type UpdateRequest struct {
	Username      *string          `json:"username"`
	FullName      *string          `json:"full_name"`
	Password      *string          `json:"password"`
	Age           *int             `json:"age"`
	Address       *string          `json:"address"`
	Gender        *string          `json:"gender"`
	MaritalStatus *string          `json:"marital_status"`
	Wallet        *json.RawMessage `json:"wallet"`
}

// AmountRequest is the body of the charge and deduct endpoints.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Balance is the response of GET /balance/{username}.
type Balance struct {
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}

// WalletResult is returned by charge and deduct.
type WalletResult struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
}
