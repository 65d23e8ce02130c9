package sale

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type inventoryClient struct{ c jsonClient }

// NewInventoryClient talks to the inventory service at baseURL.
func NewInventoryClient(baseURL string, hc *http.Client) InventoryClient {
	return &inventoryClient{c: jsonClient{service: "inventory", baseURL: baseURL, http: hc}}
}

func (i *inventoryClient) GetItemByName(ctx context.Context, name string) (*InventoryItem, error) {
	var item InventoryItem
	if err := i.c.do(ctx, http.MethodGet, "/inventory/goods/"+url.PathEscape(name), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (i *inventoryClient) ListItems(ctx context.Context) ([]InventoryItem, error) {
	var resp struct {
		Goods []InventoryItem `json:"goods"`
	}
	if err := i.c.do(ctx, http.MethodGet, "/inventory/goods", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Goods, nil
}

func (i *inventoryClient) DeduceStock(ctx context.Context, id int64, amount int) (int, error) {
	var resp struct {
		NewStockCount int `json:"new_stock_count"`
	}
	body := map[string]int{"amount": amount}
	if err := i.c.do(ctx, http.MethodPost, fmt.Sprintf("/inventory/deduce/%d", id), body, &resp); err != nil {
		return 0, err
	}
	return resp.NewStockCount, nil
}
