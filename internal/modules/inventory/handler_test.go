package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zaptest.NewLogger(t)
	r := web.NewRouter(log)
	NewHandler(newTestService(t), log).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

const widgetJSON = `{"name":"Widget","category":"tools","price":20,"stock_count":5,"description":"blue"}`

func TestHandler_AddAndGet(t *testing.T) {
	srv := newTestServer(t)

	status, body := call(t, srv, http.MethodPost, "/inventory/add", widgetJSON)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Item added successfully", body["message"])
	assert.EqualValues(t, 1, body["id"])

	status, body = call(t, srv, http.MethodGet, "/inventory/goods/Widget", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 20, body["price"])
	assert.EqualValues(t, 5, body["stock_count"])
	assert.Equal(t, "blue", body["description"])

	status, body = call(t, srv, http.MethodGet, "/inventory/items/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Widget", body["name"])

	status, _ = call(t, srv, http.MethodGet, "/inventory/goods/Gadget", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, srv, http.MethodGet, "/inventory/goods", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["goods"], 1)
}

func TestHandler_AddInvalid(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"name":"","category":"tools","price":20,"stock_count":5}`,
		`{"category":"tools","price":20,"stock_count":5}`,
		`{"name":"Widget","category":"tools","price":20,"stock_count":-1}`,
		`not json`,
	} {
		status, resp := call(t, srv, http.MethodPost, "/inventory/add", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "ValidationError", resp["code"])
	}
}

func TestHandler_Update(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, srv, http.MethodPost, "/inventory/add", widgetJSON)
	require.Equal(t, http.StatusCreated, status)

	status, body := call(t, srv, http.MethodPut, "/inventory/update/1", `{"stock_count": 9}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item updated successfully", body["message"])

	status, _ = call(t, srv, http.MethodPut, "/inventory/update/1", `{"stock_count": -1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, srv, http.MethodPut, "/inventory/update/999", `{"stock_count": 1}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, srv, http.MethodPut, "/inventory/update/abc", `{"stock_count": 1}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_Deduce(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, srv, http.MethodPost, "/inventory/add", widgetJSON)
	require.Equal(t, http.StatusCreated, status)

	status, body := call(t, srv, http.MethodPost, "/inventory/deduce/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4, body["new_stock_count"])

	status, body = call(t, srv, http.MethodPost, "/inventory/deduce/1", `{"amount": 3}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3 units deduced", body["message"])
	assert.EqualValues(t, 1, body["new_stock_count"])

	status, _ = call(t, srv, http.MethodPost, "/inventory/deduce/1", `{"amount": 2}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, srv, http.MethodPost, "/inventory/deduce/999", `{"amount": 1}`)
	assert.Equal(t, http.StatusNotFound, status)
}
