package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"detailing/internal/auth"
	"detailing/internal/service"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Service *service.InvoiceService
}

func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: svc}
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	inv, err := h.Service.GetInvoice(id, caller.ID, caller.Role == auth.RoleAdmin)
	if err != nil {
		writeServiceError(w, err, "Invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) ListMyInvoices(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	invoices, err := h.Service.ListCustomerInvoices(caller.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// CreateCheckout returns a Stripe redirect URL for paying the invoice (full
// amount, or the deposit when requested).
func (h *InvoiceHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	sess, err := h.Service.CreateCheckoutSession(id, caller.ID, caller.Role == auth.RoleAdmin, req.PayDeposit)
	if err != nil {
		writeServiceError(w, err, "Could not create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
