package web

import (
	"net/http"

	"repairshop-billing/internal/app"
)

// listServices handles GET /api/services. A category query parameter narrows
// the result to one category.
func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		result, err := h.svc.ListServicesByCategory(r.Context(), category)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, result.Services)
		return
	}

	result, err := h.svc.ListServices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Services)
}

// listCategories handles GET /api/services/categories.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Categories)
}

// deactivateService handles DELETE /api/services/{id}. Soft-delete only; the
// row stays for bills that reference its description.
func (h *Handler) deactivateService(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeactivateService(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCustomers handles GET /api/customers. A name query parameter narrows
// the result to matching customers.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		result, err := h.svc.FindCustomers(r.Context(), name)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, result.Customers)
		return
	}

	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Customers)
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req app.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Customer)
}
