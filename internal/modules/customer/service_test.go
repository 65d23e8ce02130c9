package customer

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo, zaptest.NewLogger(t))
	svc.(*service).cost = bcrypt.MinCost
	return svc, repo
}

func registerReq(username string) RegisterRequest {
	return RegisterRequest{
		Username:      strPtr(username),
		FullName:      strPtr("Alice Smith"),
		Password:      strPtr("s3cret"),
		Age:           intPtr(30),
		Address:       strPtr("1 Main St"),
		Gender:        strPtr("female"),
		MaritalStatus: strPtr("single"),
	}
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Username)
	assert.True(t, c.Wallet.IsZero())
	assert.NotEqual(t, "s3cret", c.PasswordHash)

	stored, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	missing := registerReq("bob")
	missing.MaritalStatus = nil
	negative := registerReq("bob")
	negative.Age = intPtr(-1)
	blank := registerReq("  ")

	for name, req := range map[string]RegisterRequest{
		"missing field": missing,
		"negative age":  negative,
		"blank name":    blank,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerReq("alice"))

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	c, err := svc.Update(ctx, "alice", UpdateRequest{Address: strPtr("2 High St"), Age: intPtr(31)})
	require.NoError(t, err)

	assert.Equal(t, "2 High St", c.Address)
	assert.Equal(t, 31, c.Age)
	assert.Equal(t, "Alice Smith", c.FullName)
}

func TestUpdate_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.ChargeWallet(ctx, "alice", dec("50"))
	require.NoError(t, err)

	wallet := json.RawMessage(`1000`)

	tests := []struct {
		name string
		req  UpdateRequest
		kind apperr.Kind
	}{
		{"wallet", UpdateRequest{Wallet: &wallet}, apperr.KindValidation},
		{"negative age", UpdateRequest{Age: intPtr(-5)}, apperr.KindValidation},
		{"rename", UpdateRequest{Username: strPtr("mallory")}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "alice", tt.req)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}

	b, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(50)))
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Update(context.Background(), "ghost", UpdateRequest{Address: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice"))
	assert.ErrorIs(t, svc.Delete(ctx, "alice"), apperr.ErrNotFound)
	_, err = svc.Get(ctx, "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestChargeWallet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	res, err := svc.ChargeWallet(ctx, "alice", dec("50"))
	require.NoError(t, err)
	assert.Equal(t, "50 added to wallet", res.Message)
	assert.True(t, res.NewBalance.Equal(decimal.NewFromInt(50)))

	for _, amount := range []*decimal.Decimal{nil, dec("0"), dec("-3"), dec("1.005"), dec("10000000000000")} {
		_, err := svc.ChargeWallet(ctx, "alice", amount)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	_, err = svc.ChargeWallet(ctx, "ghost", dec("5"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeductWallet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.ChargeWallet(ctx, "alice", dec("50"))
	require.NoError(t, err)

	res, err := svc.DeductWallet(ctx, "alice", dec("20"))
	require.NoError(t, err)
	assert.Equal(t, "20 deducted from wallet", res.Message)
	assert.True(t, res.NewBalance.Equal(decimal.NewFromInt(30)))
}

func TestDeductWallet_NeverNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.ChargeWallet(ctx, "alice", dec("10"))
	require.NoError(t, err)

	for _, amount := range []*decimal.Decimal{dec("10.01"), dec("0"), dec("-1"), nil} {
		_, err := svc.DeductWallet(ctx, "alice", amount)
		assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
	}

	b, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(10)))

	_, err = svc.DeductWallet(ctx, "ghost", dec("1"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeductWallet_ConcurrentHalfBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.ChargeWallet(ctx, "alice", dec("100"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var ok, rejected atomic.Int32
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.DeductWallet(ctx, "alice", dec("60")); err == nil {
				ok.Add(1)
			} else if apperr.HasKind(err, apperr.KindInsufficientFunds) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(2), rejected.Load())
	b, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(40)))
}

func TestList_Empty(t *testing.T) {
	svc, _ := newTestService(t)
	customers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NotNil(t, customers)
}
