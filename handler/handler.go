package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"multistore/service"
	"multistore/store"
)

// Handler is the HTTP layer over the sales and catalog services.
type Handler struct {
	sales   service.SalesInterface
	catalog service.CatalogInterface
	log     *logrus.Logger
}

func New(sales service.SalesInterface, catalog service.CatalogInterface, log *logrus.Logger) *Handler {
	return &Handler{sales: sales, catalog: catalog, log: log}
}

// RegisterRoutes registers all routes on the provided router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Stores
	r.HandleFunc("/stores", h.CreateStore).Methods("POST")
	r.HandleFunc("/stores", h.ListStores).Methods("GET")
	r.HandleFunc("/stores/{id}", h.GetStore).Methods("GET")
	r.HandleFunc("/stores/{id}", h.UpdateStore).Methods("PUT")
	r.HandleFunc("/stores/{id}", h.DeleteStore).Methods("DELETE")

	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")

	// Customers
	r.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	r.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	r.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	r.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	r.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")

	// Inventory
	r.HandleFunc("/stores/{id}/inventory", h.AddInventory).Methods("POST")
	r.HandleFunc("/stores/{id}/inventory", h.StoreInventory).Methods("GET")
	r.HandleFunc("/stores/{id}/inventory/{productID}", h.GetInventoryItem).Methods("GET")
	r.HandleFunc("/stores/{id}/inventory/{productID}", h.UpdateInventory).Methods("PUT")
	r.HandleFunc("/stores/{id}/inventory/{productID}", h.RemoveInventory).Methods("DELETE")

	// Sales
	r.HandleFunc("/sales", h.CreateSale).Methods("POST")
	r.HandleFunc("/sales", h.ListSales).Methods("GET")
	r.HandleFunc("/sales/{id}", h.GetSale).Methods("GET")
	r.HandleFunc("/sales/{id}/void", h.VoidSale).Methods("POST")
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr maps service failures to HTTP statuses.
func (h *Handler) writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSaleVoided),
		errors.Is(err, service.ErrInsufficientStock):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptySale),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrNegativeAmount),
		errors.Is(err, service.ErrTotalMismatch),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrNegativePrice):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		h.log.WithError(err).Error("request failed")
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
