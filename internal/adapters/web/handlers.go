package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"repairshop-billing/internal/app"
	"repairshop-billing/internal/logger"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log *logger.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, log *logger.Logger) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	r.Get("/api/bills", h.listBills)
	r.Post("/api/bills", h.saveBill)
	r.Get("/api/bills/{id}", h.getBill)
	r.Put("/api/bills/{id}", h.updateBill)
	r.Post("/api/bills/{id}/export", h.exportBill)

	r.Get("/api/services", h.listServices)
	r.Get("/api/services/categories", h.listCategories)
	r.Delete("/api/services/{id}", h.deactivateService)

	r.Get("/api/customers", h.listCustomers)
	r.Post("/api/customers", h.createCustomer)

	return r
}

// health returns the store health snapshot. Unhealthy stores answer 503 so
// load balancers can act on the status code alone.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.HealthCheck(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !result.Healthy() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(result)
		return
	}
	writeJSON(w, result)
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// urlID extracts the {id} URL parameter as an int. A non-numeric id writes
// a 400 and returns false.
func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := atoiParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
