package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

func TestRespondError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
		logged  bool
	}{
		{"validation", apperr.Validation("age must be a non-negative integer"), http.StatusBadRequest, "ValidationError", "age must be a non-negative integer", false},
		{"not found", apperr.NotFound("customer not found"), http.StatusNotFound, "NotFound", "customer not found", false},
		{"unclassified", errors.New("pq: connection reset"), http.StatusInternalServerError, "Internal", "internal server error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := logs.Len()
			rec := httptest.NewRecorder()

			RespondError(rec, log, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.code, rec.Header().Get(HeaderErrorCode))
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.logged, logs.Len() > before)
		})
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Amount decimal.Decimal `json:"amount"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 12.50}`))
	require.NoError(t, Decode(req, &dst))
	assert.True(t, dst.Amount.Equal(decimal.RequireFromString("12.5")))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := Decode(req, &dst)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	err = Decode(req, &dst)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]decimal.Decimal{"balance": decimal.RequireFromString("30.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance": 30}`, string(out))
}

func TestNewRouter_HealthAndAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewRouter(zap.New(core))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	r := NewRouter(zaptest.NewLogger(t))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestURLParam(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/goods/{name}", func(w http.ResponseWriter, r *http.Request) {
		got = URLParam(r, "name")
	})

	tests := []struct {
		path string
		want string
	}{
		{"/goods/Widget", "Widget"},
		{"/goods/Blue%20Mug", "Blue Mug"},
		{"/goods/1%2F2%20inch%20bolt", "1/2 inch bolt"},
		{"/goods/50%25%20off", "50% off"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}
