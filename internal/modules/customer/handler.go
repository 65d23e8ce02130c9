package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

// Handler exposes customer HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/register", h.register)
	r.Get("/customers", h.list)
	r.Get("/customer/{username}", h.get)
	r.Put("/update/{username}", h.update)
	r.Delete("/delete/{username}", h.delete)
	r.Get("/balance/{username}", h.balance)
	r.Post("/charge_wallet/{username}", h.charge)
	r.Post("/deduct_wallet/{username}", h.deduct)
}

func (h *Handler) home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Welcome to the Customer Service API!"))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	c, err := h.service.Register(r.Context(), req)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusCreated, map[string]string{
		"message":  "Customer registered successfully",
		"username": c.Username,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, customers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), web.URLParam(r, "username"))
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	c, err := h.service.Update(r.Context(), web.URLParam(r, "username"), req)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]interface{}{
		"message":  "Customer updated successfully",
		"customer": c,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), web.URLParam(r, "username")); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBalance(r.Context(), web.URLParam(r, "username"))
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, b)
}

func (h *Handler) charge(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	res, err := h.service.ChargeWallet(r.Context(), web.URLParam(r, "username"), req.Amount)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, res)
}

func (h *Handler) deduct(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	res, err := h.service.DeductWallet(r.Context(), web.URLParam(r, "username"), req.Amount)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, res)
}
