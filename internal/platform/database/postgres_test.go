package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"no rows", sql.ErrNoRows, apperr.KindNotFound},
		{"unique violation", &pq.Error{Code: "23505"}, apperr.KindConflict},
		{"check violation", &pq.Error{Code: "23514", Constraint: "items_stock_count_check"}, apperr.KindValidation},
		{"numeric out of range", &pq.Error{Code: "22003"}, apperr.KindValidation},
		{"other driver error", &pq.Error{Code: "08006"}, apperr.KindInternal},
		{"plain", errors.New("boom"), apperr.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate("op", tt.err, "thing not found")
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, Translate("op", nil, ""))
}

func TestTranslate_NotFoundMessage(t *testing.T) {
	err := Translate("customer.get", sql.ErrNoRows, "customer not found")
	assert.Equal(t, "customer not found", apperr.Message(err))
}

func TestTranslate_OutOfRangeMessage(t *testing.T) {
	err := Translate("customer.charge", &pq.Error{Code: "22003", Message: "numeric field overflow"}, "")
	assert.Equal(t, "value out of range", apperr.Message(err))
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(err))
}

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.Error(t, err)
}
