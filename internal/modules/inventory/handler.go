package inventory

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-shop/internal/platform/apperr"
	"github.com/georgemunganga/printa-shop/internal/platform/web"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/add", h.addItem)               // POST   /inventory/add
		r.Put("/update/{id}", h.updateItem)     // PUT    /inventory/update/{id}
		r.Get("/goods", h.listItems)            // GET    /inventory/goods
		r.Get("/goods/{name}", h.getItemByName) // GET    /inventory/goods/{name}
		r.Get("/items/{id}", h.getItem)         // GET    /inventory/items/{id}
		r.Post("/deduce/{id}", h.deduceStock)   // POST   /inventory/deduce/{id}
	})
}

// itemID parses the {id} path segment. A non-numeric id names no item.
func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(notFoundMsg)
	}
	return id, nil
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	item, err := h.service.AddItem(r.Context(), req)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusCreated, map[string]interface{}{
		"message": "Item added successfully",
		"id":      item.ID,
	})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	var req UpdateItemRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), id, req)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]interface{}{
		"message": "Item updated successfully",
		"item":    item,
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, map[string]interface{}{"goods": items})
}

func (h *Handler) getItemByName(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItemByName(r.Context(), web.URLParam(r, "name"))
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, item)
}

func (h *Handler) deduceStock(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	var req DeduceRequest
	if r.ContentLength != 0 {
		if err := web.Decode(r, &req); err != nil {
			web.RespondError(w, h.log, err)
			return
		}
	}
	res, err := h.service.DeduceStock(r.Context(), id, req.Amount)
	if err != nil {
		web.RespondError(w, h.log, err)
		return
	}
	web.Respond(w, http.StatusOK, res)
}
