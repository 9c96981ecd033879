package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"detailing/internal/auth"
	"detailing/internal/db"
	"detailing/internal/service"

	"github.com/gorilla/mux"
)

// CustomerHandler serves the customer dashboard's self-service endpoints.
type CustomerHandler struct {
	Customers *service.CustomerService
	Catalog   *service.ServiceCatalog
}

func NewCustomerHandler(customers *service.CustomerService, catalog *service.ServiceCatalog) *CustomerHandler {
	return &CustomerHandler{Customers: customers, Catalog: catalog}
}

func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	customer, err := h.Customers.GetCustomer(caller.ID)
	if err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	var v db.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	v.CustomerID = caller.ID
	if err := h.Customers.AddVehicle(&v); err != nil {
		writeServiceError(w, err, "Could not add vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *CustomerHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	vehicles, err := h.Customers.ListVehicles(caller.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *CustomerHandler) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Customers.RemoveVehicle(id, caller.ID); err != nil {
		http.Error(w, "Could not remove vehicle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle removed"})
}

// ListServices is unauthenticated; the marketing site shows the active
// detailing packages.
func (h *CustomerHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Catalog.ListActive()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, services)
}
