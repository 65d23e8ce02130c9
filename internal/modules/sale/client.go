package sale

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/tracing"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

// InventoryClient is the orchestrator's view of the inventory service.
type InventoryClient interface {
	GetItemByName(ctx context.Context, name string) (*InventoryItem, error)
	ListItems(ctx context.Context) ([]InventoryItem, error)
	// DeduceStock removes amount units and returns the remaining stock.
	DeduceStock(ctx context.Context, id int64, amount int) (int, error)
}

// CustomerClient is the orchestrator's view of the customer service.
type CustomerClient interface {
	GetBalance(ctx context.Context, username string) (decimal.Decimal, error)
	// DeductWallet debits amount and returns the new balance.
	DeductWallet(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
}

// NewHTTPClient returns the client used for calls to the other services.
// Every call is bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

const maxErrorBody = 64 << 10

// jsonClient performs JSON calls against one downstream service and turns
// its responses into classified errors.
type jsonClient struct {
	service string
	baseURL string
	http    *http.Client
}

func (c *jsonClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := fmt.Sprintf("%s %s %s", c.service, method, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err, "")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err, "")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	tracing.InjectHTTP(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindDownstreamUnavailable, op, err, c.service+" service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindDownstreamUnavailable, op, err, c.service+" service returned an invalid response")
	}
	return nil
}

func (c *jsonClient) statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body web.ErrorBody
	json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	cause := fmt.Errorf("%s service responded %d: %s", c.service, resp.StatusCode, msg)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.Wrap(apperr.KindNotFound, op, cause, msg)
	case resp.StatusCode == http.StatusConflict:
		return apperr.Wrap(apperr.KindConflict, op, cause, msg)
	case resp.StatusCode == http.StatusBadRequest && body.Code == string(apperr.KindInsufficientFunds):
		return apperr.Wrap(apperr.KindInsufficientFunds, op, cause, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return apperr.Wrap(apperr.KindValidation, op, cause, msg)
	default:
		return apperr.Wrap(apperr.KindDownstreamUnavailable, op, cause, c.service+" service failed")
	}
}
