package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/careops/hospital-console/internal/appointments"
	"github.com/careops/hospital-console/internal/audit"
	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/pkg/logging"
)

// AppointmentsHandler serves the provider's appointment list and the
// console's local booking event trail.
type AppointmentsHandler struct {
	repo     *appointments.Repository
	recorder *audit.Recorder
	logger   *logging.Logger
}

func NewAppointmentsHandler(repo *appointments.Repository, recorder *audit.Recorder, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{repo: repo, recorder: recorder, logger: logger}
}

// ListByProvider returns the provider's appointments newest-first.
// GET /api/providers/{providerID}/appointments
func (h *AppointmentsHandler) ListByProvider(w http.ResponseWriter, r *http.Request) {
	providerID := strings.TrimSpace(chi.URLParam(r, "providerID"))
	if providerID == "" {
		jsonError(w, "missing providerID", http.StatusBadRequest)
		return
	}

	appts, err := h.repo.List(r.Context(), providerID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if appts == nil {
		appts = []his.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// ListEvents returns the console's recent booking decisions for a
// provider, newest first.
// GET /api/providers/{providerID}/events?limit=…
func (h *AppointmentsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	providerID := strings.TrimSpace(chi.URLParam(r, "providerID"))
	if providerID == "" {
		jsonError(w, "missing providerID", http.StatusBadRequest)
		return
	}
	if h.recorder == nil {
		jsonError(w, "booking event trail disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.recorder.ListRecent(r.Context(), providerID, limit)
	if err != nil {
		h.logger.Error("failed to list booking events", "provider_id", providerID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []audit.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
