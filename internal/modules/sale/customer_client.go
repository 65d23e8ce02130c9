package sale

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type customerClient struct{ c jsonClient }

// NewCustomerClient talks to the customer service at baseURL.
func NewCustomerClient(baseURL string, hc *http.Client) CustomerClient {
	return &customerClient{c: jsonClient{service: "customer", baseURL: baseURL, http: hc}}
}

func (c *customerClient) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	var resp struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.c.do(ctx, http.MethodGet, "/balance/"+url.PathEscape(username), nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

func (c *customerClient) DeductWallet(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	var resp struct {
		NewBalance decimal.Decimal `json:"new_balance"`
	}
	body := map[string]decimal.Decimal{"amount": amount}
	if err := c.c.do(ctx, http.MethodPost, "/deduct_wallet/"+url.PathEscape(username), body, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.NewBalance, nil
}
