package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"multistore/model"
	"multistore/service"
)

// CreateSale handles POST /sales
// body: { "store_id": 1, "customer_id": 2, "items": [...], "total_amount": 15, "payment_method": "cash" }
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSaleInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.sales.CreateSale(r.Context(), req)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "sale_id": id})
}

// ListSales handles GET /sales?store_id=&start_date=&end_date=
// Dates use YYYY-MM-DD.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	var f model.SaleFilter
	q := r.URL.Query()

	if v := q.Get("store_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid store_id")
			return
		}
		f.StoreID = id
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		f.StartDate = t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		f.EndDate = t
	}

	out, err := h.sales.ListSales(r.Context(), f)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSale handles GET /sales/{id}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	out, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// VoidSale handles POST /sales/{id}/void
func (h *Handler) VoidSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.sales.VoidSale(r.Context(), id); err != nil {
		h.writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
