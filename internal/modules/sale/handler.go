package sale

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/idempotency"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

// HeaderInconsistency is set on responses for sales that debited the wallet
// without completing.
const HeaderInconsistency = "X-Sale-Inconsistency"

// Handler exposes sales HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
	idem    idempotency.Reserver
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// WithIdempotency guards POST /sale with the Idempotency-Key header.
func (h *Handler) WithIdempotency(store idempotency.Reserver) *Handler {
	h.idem = store
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/display", h.display)
	r.Get("/goods/{name}", h.goodDetail)
	r.Get("/sales-history/{username}", h.history)
	if h.idem != nil {
		r.With(idempotency.Middleware(h.idem, h.log, KeepReservation)).Post("/sale", h.sell)
	} else {
		r.Post("/sale", h.sell)
	}
}

// KeepReservation holds an idempotency key after a sale that may have moved
// money: a success, a flagged inconsistency, or a debit whose outcome is
// unknown. Clean rejections release the key so the client can retry.
func KeepReservation(status int, header http.Header) bool {
	switch {
	case status >= 200 && status < 300:
		return true
	case header.Get(HeaderInconsistency) != "":
		return true
	case header.Get(web.HeaderErrorCode) == string(apperr.KindDeductionFailed):
		return status != http.StatusBadRequest
	}
	return false
}

func (h *Handler) home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Welcome to the Sales Service API!"))
}

func (h *Handler) display(w http.ResponseWriter, r *http.Request) {
	goods, err := h.service.Display(r.Context())
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]interface{}{"goods": goods})
}

func (h *Handler) goodDetail(w http.ResponseWriter, r *http.Request) {
	good, err := h.service.GoodDetail(r.Context(), web.URLParam(r, "name"))
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, good)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.History(r.Context(), web.URLParam(r, "username"))
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]interface{}{"sales_history": records})
}

// inconsistencyBody extends the error body with what the client was charged.
type inconsistencyBody struct {
	web.ErrorBody
	Inconsistency Inconsistency   `json:"inconsistency"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Item          string          `json:"item"`
	Price         decimal.Decimal `json:"price"`
}

func (h *Handler) sell(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	res, err := h.service.Sell(r.Context(), req)
	var ie *InconsistencyError
	switch {
	case errors.As(err, &ie):
		code := string(apperr.KindOf(err))
		w.Header().Set(HeaderInconsistency, string(ie.Type))
		w.Header().Set(web.HeaderErrorCode, code)
		web.Respond(w, apperr.HTTPStatus(err), inconsistencyBody{
			ErrorBody:     web.ErrorBody{Error: apperr.Message(err), Code: code},
			Inconsistency: ie.Type,
			NewBalance:    ie.NewBalance,
			Item:          ie.ItemName,
			Price:         ie.Price,
		})
	case err != nil:
		web.RespondError(w, h.log, err)
	default:
		web.Respond(w, http.StatusOK, res)
	}
}
