package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/careops/hospital-console/internal/availability"
	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/scheduling"
	"github.com/careops/hospital-console/internal/timeutil"
	"github.com/careops/hospital-console/pkg/logging"
)

// AvailabilityHandler serves the resolved slot grid for a provider and
// date. Resolution never fails toward the client; an unreadable upstream
// document reads as an empty day.
type AvailabilityHandler struct {
	resolver scheduling.SlotResolver
	logger   *logging.Logger
}

func NewAvailabilityHandler(resolver scheduling.SlotResolver, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{resolver: resolver, logger: logger}
}

type availabilityResponse struct {
	ProviderID string              `json:"providerId"`
	Date       string              `json:"date"`
	Modality   his.Modality        `json:"modality"`
	Slots      []availability.Slot `json:"slots"`
}

// GetAvailability returns the bookable slots for one provider and date.
// GET /api/providers/{providerID}/availability?date=…&modality=…[&ownSlot=…]
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	providerID := strings.TrimSpace(chi.URLParam(r, "providerID"))
	if providerID == "" {
		jsonError(w, "missing providerID", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		jsonError(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	modality := his.Modality(strings.TrimSpace(q.Get("modality")))
	if modality == "" {
		modality = his.ModalityOPD
	}

	ownSlot := 0
	if raw := strings.TrimSpace(q.Get("ownSlot")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, "ownSlot must be an integer", http.StatusBadRequest)
			return
		}
		ownSlot = parsed
	}

	canonical := timeutil.CanonicalDate(date)
	slots := h.resolver.Resolve(r.Context(), providerID, canonical, availability.ResolveOptions{
		Modality:  modality,
		OwnSlotID: ownSlot,
	})
	if slots == nil {
		slots = []availability.Slot{}
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		ProviderID: providerID,
		Date:       canonical,
		Modality:   modality,
		Slots:      slots,
	})
}
