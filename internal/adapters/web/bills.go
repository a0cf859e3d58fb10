package web

import (
	"net/http"
	"strconv"

	"repairshop-billing/internal/app"
)

// listBills handles GET /api/bills. A customer query parameter narrows the
// result to bills whose customer name matches it.
func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	if query := r.URL.Query().Get("customer"); query != "" {
		result, err := h.svc.SearchBills(r.Context(), query)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, result.Bills)
		return
	}

	result, err := h.svc.ListBills(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Bills)
}

// getBill handles GET /api/bills/{id}.
func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetBill(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Bill)
}

// saveBill handles POST /api/bills, creating a new bill.
func (h *Handler) saveBill(w http.ResponseWriter, r *http.Request) {
	var req app.SaveBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = 0

	result, err := h.svc.SaveBill(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/bills/"+strconv.Itoa(result.Bill.ID))
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Bill)
}

// updateBill handles PUT /api/bills/{id}, replacing the bill and its items.
func (h *Handler) updateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req app.SaveBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.svc.SaveBill(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Bill)
}

// exportBill handles POST /api/bills/{id}/export.
func (h *Handler) exportBill(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	req := app.ExportInvoiceRequest{
		BillID:  id,
		Format:  r.URL.Query().Get("format"),
		OutPath: r.URL.Query().Get("out"),
	}
	result, err := h.svc.ExportInvoice(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func atoiParam(s string) (int, error) {
	return strconv.Atoi(s)
}
