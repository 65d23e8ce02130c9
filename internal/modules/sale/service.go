package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/events"
)

// Service defines the sales workflow and its read endpoints.
type Service interface {
	// Sell runs the purchase of one unit of the named item by the customer.
	Sell(ctx context.Context, req Request) (*Result, error)
	History(ctx context.Context, username string) ([]*Record, error)
	Display(ctx context.Context) ([]Good, error)
	GoodDetail(ctx context.Context, name string) (*GoodDetail, error)
}

// Inconsistency names the partial-success states a sale can end in.
type Inconsistency string

const (
	PostDeductionStockFailure Inconsistency = "post_deduction_stock_failure"
	SaleRecordFailure         Inconsistency = "sale_record_failure"
)

// InconsistencyError is returned when the wallet was debited but the sale
// could not be completed. Nothing is rolled back; the error carries what an
// operator needs to reconcile by hand.
type InconsistencyError struct {
	Type       Inconsistency
	Username   string
	ItemID     int64
	ItemName   string
	Price      decimal.Decimal
	NewBalance decimal.Decimal
	Err        *apperr.Error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("sale inconsistency %s for %s buying %q: %v", e.Type, e.Username, e.ItemName, e.Err)
}

func (e *InconsistencyError) Unwrap() error { return e.Err }

type service struct {
	inventory      InventoryClient
	customers      CustomerClient
	repo           Repository
	publisher      events.Publisher
	log            *zap.Logger
	tracer         trace.Tracer
	now            func() time.Time
	publishTimeout time.Duration
}

// NewService wires the sales workflow to its collaborators.
func NewService(inventory InventoryClient, customers CustomerClient, repo Repository, publisher events.Publisher, log *zap.Logger) Service {
	return &service{
		inventory:      inventory,
		customers:      customers,
		repo:           repo,
		publisher:      publisher,
		log:            log,
		tracer:         otel.Tracer("sales"),
		now:            time.Now,
		publishTimeout: 5 * time.Second,
	}
}

func (s *service) Sell(ctx context.Context, req Request) (*Result, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.CustomerUser)
	if name == "" || username == "" {
		return nil, apperr.Validation("name and customer_user are required")
	}

	ctx, span := s.tracer.Start(ctx, "sale.Sell", trace.WithAttributes(
		attribute.String("sale.item", name),
		attribute.String("sale.customer", username),
	))
	defer span.End()
	log := s.log.With(zap.String("username", username), zap.String("item", name))

	// 1-2: the item must exist, carry a positive price and have stock.
	var item *InventoryItem
	err := s.step(ctx, "inventory.resolve_item", func(ctx context.Context) error {
		var err error
		item, err = s.resolveItem(ctx, name)
		return err
	})
	if err != nil {
		return nil, s.abort(span, log, err)
	}

	// 3-4: funds are checked before anything is mutated.
	var balance decimal.Decimal
	err = s.step(ctx, "customer.get_balance", func(ctx context.Context) error {
		var err error
		balance, err = s.customers.GetBalance(ctx, username)
		if err != nil {
			return apperr.Wrap(apperr.KindCustomerLookupFailed, "sale.get_balance", err, lookupMessage(err))
		}
		return nil
	})
	if err != nil {
		return nil, s.abort(span, log, err)
	}
	if balance.LessThan(item.Price) {
		return nil, s.abort(span, log, apperr.InsufficientFunds("Customer has insufficient funds"))
	}

	// Mutations below run to completion even if the caller disconnects.
	mctx := context.WithoutCancel(ctx)

	// 5: debit the wallet.
	var newBalance decimal.Decimal
	err = s.step(mctx, "customer.deduct_wallet", func(ctx context.Context) error {
		var err error
		newBalance, err = s.customers.DeductWallet(ctx, username, item.Price)
		if err != nil {
			return apperr.Wrap(apperr.KindDeductionFailed, "sale.deduct_wallet", err, deductionMessage(err))
		}
		return nil
	})
	if err != nil {
		return nil, s.abort(span, log, err)
	}

	// 6: take one unit. From here on failures leave the stores inconsistent.
	err = s.step(mctx, "inventory.deduce_stock", func(ctx context.Context) error {
		_, err := s.inventory.DeduceStock(ctx, item.ID, 1)
		return err
	})
	if err != nil {
		ie := s.inconsistent(mctx, PostDeductionStockFailure, apperr.KindPostDeductionStockFailure,
			"wallet debited but stock deduction failed", username, item, newBalance, err)
		return nil, s.abort(span, log, ie)
	}

	// 7: record the sale at the price charged.
	rec := &Record{
		ID:        uuid.New(),
		Username:  username,
		ItemName:  item.Name,
		Price:     item.Price,
		Timestamp: s.now().UTC(),
	}
	err = s.step(mctx, "sale.append_record", func(ctx context.Context) error {
		return s.repo.Append(ctx, rec)
	})
	if err != nil {
		ie := s.inconsistent(mctx, SaleRecordFailure, apperr.KindSaleRecordFailure,
			"wallet and stock deducted but the sale could not be recorded", username, item, newBalance, err)
		return nil, s.abort(span, log, ie)
	}

	log.Info("sale completed",
		zap.String("sale_id", rec.ID.String()),
		zap.String("price", item.Price.String()),
		zap.String("new_balance", newBalance.String()))
	s.publish(mctx, events.TypeSaleCompleted, username, completedPayload{
		SaleID:     rec.ID,
		Username:   username,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Price:      item.Price,
		NewBalance: newBalance,
		SoldAt:     rec.Timestamp,
	})

	// 8
	return &Result{Message: "Sale successful", NewBalance: newBalance, SaleID: rec.ID}, nil
}

func (s *service) resolveItem(ctx context.Context, name string) (*InventoryItem, error) {
	item, err := s.inventory.GetItemByName(ctx, name)
	switch {
	case apperr.HasKind(err, apperr.KindNotFound):
		return nil, apperr.Wrap(apperr.KindItemNotAvailable, "sale.resolve_item", err, "Item not available")
	case err != nil:
		return nil, apperr.Wrap(apperr.KindDownstreamUnavailable, "sale.resolve_item", err, "inventory service unavailable")
	case !item.Price.IsPositive():
		return nil, apperr.New(apperr.KindItemNotAvailable, "Item not available: invalid price")
	case item.StockCount < 1:
		return nil, apperr.New(apperr.KindItemNotAvailable, "Item not available: out of stock")
	}
	return item, nil
}

func (s *service) History(ctx context.Context, username string) ([]*Record, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	return s.repo.ListByUsername(ctx, username)
}

func (s *service) Display(ctx context.Context) ([]Good, error) {
	items, err := s.inventory.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	goods := make([]Good, 0, len(items))
	for _, it := range items {
		goods = append(goods, Good{Name: it.Name, Price: it.Price})
	}
	return goods, nil
}

func (s *service) GoodDetail(ctx context.Context, name string) (*GoodDetail, error) {
	item, err := s.inventory.GetItemByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &GoodDetail{Name: item.Name, Price: item.Price, Count: item.StockCount}, nil
}

// step runs fn inside a child span and records its error.
func (s *service) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Message(err))
		return err
	}
	return nil
}

func (s *service) abort(span trace.Span, log *zap.Logger, err error) error {
	kind := apperr.KindOf(err)
	span.SetAttributes(attribute.String("sale.failure", string(kind)))
	span.SetStatus(codes.Error, string(kind))
	if _, ok := err.(*InconsistencyError); !ok {
		log.Info("sale rejected", zap.String("code", string(kind)), zap.Error(err))
	}
	return err
}

// inconsistent logs and publishes a partial sale. The wallet stays debited.
func (s *service) inconsistent(ctx context.Context, typ Inconsistency, kind apperr.Kind, msg, username string,
	item *InventoryItem, newBalance decimal.Decimal, cause error) *InconsistencyError {
	ie := &InconsistencyError{
		Type:       typ,
		Username:   username,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Price:      item.Price,
		NewBalance: newBalance,
		Err:        apperr.Wrap(kind, "sale.sell", cause, msg),
	}
	s.log.Error("sale inconsistency: manual reconciliation required",
		zap.String("inconsistency", string(typ)),
		zap.String("username", username),
		zap.Int64("item_id", item.ID),
		zap.String("item", item.Name),
		zap.String("price", item.Price.String()),
		zap.String("new_balance", newBalance.String()),
		zap.Error(cause))
	s.publish(ctx, events.TypeSaleInconsistency, username, inconsistencyPayload{
		Inconsistency: typ,
		Username:      username,
		ItemID:        item.ID,
		ItemName:      item.Name,
		Price:         item.Price,
		NewBalance:    newBalance,
		Error:         cause.Error(),
		DetectedAt:    s.now().UTC(),
	})
	return ie
}

// publish never changes the outcome of a sale; failures are logged.
func (s *service) publish(ctx context.Context, eventType, key string, payload interface{}) {
	ev, err := events.NewEvent(eventType, key, payload)
	if err != nil {
		s.log.Warn("failed to build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("event_id", ev.ID),
			zap.Error(err))
	}
}

func lookupMessage(err error) string {
	if apperr.HasKind(err, apperr.KindNotFound) {
		return "Customer not found"
	}
	return "customer lookup failed"
}

func deductionMessage(err error) string {
	if apperr.HasKind(err, apperr.KindInsufficientFunds) {
		return "Customer has insufficient funds"
	}
	return "wallet deduction failed"
}

type completedPayload struct {
	SaleID     uuid.UUID       `json:"sale_id"`
	Username   string          `json:"username"`
	ItemID     int64           `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Price      decimal.Decimal `json:"price"`
	NewBalance decimal.Decimal `json:"new_balance"`
	SoldAt     time.Time       `json:"sold_at"`
}

type inconsistencyPayload struct {
	Inconsistency Inconsistency   `json:"inconsistency"`
	Username      string          `json:"username"`
	ItemID        int64           `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Price         decimal.Decimal `json:"price"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Error         string          `json:"error"`
	DetectedAt    time.Time       `json:"detected_at"`
}
