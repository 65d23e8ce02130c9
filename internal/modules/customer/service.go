package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

// Service defines customer business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Customer, error)
	Get(ctx context.Context, username string) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
	Update(ctx context.Context, username string, req UpdateRequest) (*Customer, error)
	Delete(ctx context.Context, username string) error
	GetBalance(ctx context.Context, username string) (*Balance, error)
	ChargeWallet(ctx context.Context, username string, amount *decimal.Decimal) (*WalletResult, error)
	DeductWallet(ctx context.Context, username string, amount *decimal.Decimal) (*WalletResult, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
	cost int
}

// NewService creates a customer service hashing passwords at bcrypt.DefaultCost.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Customer, error) {
	if req.Username == nil || req.FullName == nil || req.Password == nil || req.Age == nil ||
		req.Address == nil || req.Gender == nil || req.MaritalStatus == nil {
		return nil, apperr.Validation("All fields are required")
	}
	username := strings.TrimSpace(*req.Username)
	if username == "" {
		return nil, apperr.Validation("username cannot be empty")
	}
	if *req.Password == "" {
		return nil, apperr.Validation("password cannot be empty")
	}
	if *req.Age < 0 {
		return nil, apperr.Validation("Age cannot be negative")
	}

	hash, err := s.hash(*req.Password)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		Username:      username,
		FullName:      *req.FullName,
		PasswordHash:  hash,
		Age:           *req.Age,
		Address:       *req.Address,
		Gender:        *req.Gender,
		MaritalStatus: *req.MaritalStatus,
		Wallet:        decimal.Zero,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("customer registered", zap.String("username", c.Username))
	return c, nil
}

func (s *service) Get(ctx context.Context, username string) (*Customer, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, username string, req UpdateRequest) (*Customer, error) {
	if req.Wallet != nil {
		return nil, apperr.Validation("wallet can only be changed through charge_wallet and deduct_wallet")
	}
	if req.Username != nil && *req.Username != username {
		return nil, apperr.Validation("username cannot be changed")
	}
	if req.Age != nil && *req.Age < 0 {
		return nil, apperr.Validation("Invalid age")
	}

	var hash string
	if req.Password != nil {
		if *req.Password == "" {
			return nil, apperr.Validation("password cannot be empty")
		}
		h, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	return s.repo.Update(ctx, username, func(c *Customer) error {
		if req.FullName != nil {
			c.FullName = *req.FullName
		}
		if hash != "" {
			c.PasswordHash = hash
		}
		if req.Age != nil {
			c.Age = *req.Age
		}
		if req.Address != nil {
			c.Address = *req.Address
		}
		if req.Gender != nil {
			c.Gender = *req.Gender
		}
		if req.MaritalStatus != nil {
			c.MaritalStatus = *req.MaritalStatus
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	s.log.Info("customer deleted", zap.String("username", username))
	return nil
}

func (s *service) GetBalance(ctx context.Context, username string) (*Balance, error) {
	c, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &Balance{Username: c.Username, Balance: c.Wallet}, nil
}

func (s *service) ChargeWallet(ctx context.Context, username string, amount *decimal.Decimal) (*WalletResult, error) {
	if amount == nil || !amount.IsPositive() {
		return nil, apperr.Validation("Invalid amount")
	}
	if err := checkScale(*amount); err != nil {
		return nil, err
	}
	balance, err := s.repo.Charge(ctx, username, *amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("wallet charged",
		zap.String("username", username),
		zap.String("amount", amount.String()),
		zap.String("balance", balance.String()))
	return &WalletResult{
		Message:    fmt.Sprintf("%s added to wallet", amount.String()),
		NewBalance: balance,
	}, nil
}

// DeductWallet rejects non-positive amounts as insufficient funds, matching
// the single "Invalid amount or insufficient funds" outcome of the endpoint.
func (s *service) DeductWallet(ctx context.Context, username string, amount *decimal.Decimal) (*WalletResult, error) {
	if amount == nil || !amount.IsPositive() {
		return nil, apperr.InsufficientFunds("Invalid amount or insufficient funds")
	}
	if err := checkScale(*amount); err != nil {
		return nil, err
	}
	balance, err := s.repo.Deduct(ctx, username, *amount)
	if err != nil {
		if apperr.HasKind(err, apperr.KindInsufficientFunds) {
			return nil, apperr.Wrap(apperr.KindInsufficientFunds, "customer.deduct", err, "Invalid amount or insufficient funds")
		}
		return nil, err
	}
	s.log.Info("wallet deducted",
		zap.String("username", username),
		zap.String("amount", amount.String()),
		zap.String("balance", balance.String()))
	return &WalletResult{
		Message:    fmt.Sprintf("%s deducted from wallet", amount.String()),
		NewBalance: balance,
	}, nil
}

func (s *service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "customer.hash", err, "password cannot be used")
	}
	return string(b), nil
}

// maxAmount is the first value the NUMERIC(15,2) wallet column cannot hold.
var maxAmount = decimal.New(1, 13)

// checkScale rejects amounts the NUMERIC(15,2) wallet column would round or
// could not store.
func checkScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return apperr.Validation("amount must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return apperr.Validation("amount out of range")
	}
	return nil
}
