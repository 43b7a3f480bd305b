package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careops/hospital-console/internal/availability"
	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/scheduling"
	"github.com/careops/hospital-console/internal/session"
	"github.com/careops/hospital-console/pkg/logging"
)

// BookingHandler exposes the draft booking workflow over HTTP.
type BookingHandler struct {
	service *scheduling.Service
	logger  *logging.Logger
}

func NewBookingHandler(service *scheduling.Service, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{service: service, logger: logger}
}

type startDraftRequest struct {
	Modality        string `json:"modality"`
	ProviderID      string `json:"providerId"`
	Date            string `json:"date"`
	ReasonID        int    `json:"reasonId"`
	SymptomIDs      []int  `json:"symptomIds"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes"`
}

type startRescheduleRequest struct {
	startDraftRequest
	AppointmentID  string `json:"appointmentId"`
	ExistingDate   string `json:"existingDate"`
	ExistingSlotID int    `json:"existingSlotId"`
}

// draftResponse frames a draft plus, where the operation resolved one, the
// slot grid for its date.
type draftResponse struct {
	Draft *scheduling.Draft   `json:"draft"`
	Slots []availability.Slot `json:"slots,omitempty"`
}

// StartDraft opens a fresh booking draft for the session's patient.
// POST /api/drafts
func (h *BookingHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		jsonError(w, "missing session", http.StatusUnauthorized)
		return
	}

	var req startDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	d, err := h.service.StartBooking(r.Context(), h.bookingInput(sess, req))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{Draft: d})
}

// StartReschedule opens a draft editing an existing appointment.
// POST /api/drafts/reschedule
func (h *BookingHandler) StartReschedule(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		jsonError(w, "missing session", http.StatusUnauthorized)
		return
	}

	var req startRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	d, err := h.service.StartReschedule(r.Context(), scheduling.StartRescheduleInput{
		StartBookingInput: h.bookingInput(sess, req.startDraftRequest),
		AppointmentID:     req.AppointmentID,
		ExistingDate:      req.ExistingDate,
		ExistingSlot:      req.ExistingSlotID,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse{Draft: d})
}

// Advance moves the draft to slot selection and returns the grid for its
// date.
// POST /api/drafts/{draftID}/advance
func (h *BookingHandler) Advance(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	d, slots, err := h.service.Advance(r.Context(), draftID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: d, Slots: slots})
}

// SetDate changes the draft's date during slot selection; the response
// carries the grid resolved for whichever date the draft holds afterwards.
// POST /api/drafts/{draftID}/date
func (h *BookingHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		jsonError(w, "date is required", http.StatusBadRequest)
		return
	}

	d, slots, err := h.service.SetDate(r.Context(), draftID, req.Date)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: d, Slots: slots})
}

// ChooseSlot records the slot pick. forDate must match the date the slot
// list was resolved for.
// POST /api/drafts/{draftID}/slot
func (h *BookingHandler) ChooseSlot(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")

	var req struct {
		SlotID  int    `json:"slotId"`
		Time    string `json:"time"`
		ForDate string `json:"forDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	d, err := h.service.ChooseSlot(r.Context(), draftID, req.SlotID, req.Time, req.ForDate)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: d})
}

// Submit finalizes the draft against the hospital system.
// POST /api/drafts/{draftID}/submit
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	result, err := h.service.Submit(r.Context(), draftID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Abandon discards the draft with no backend effect.
// DELETE /api/drafts/{draftID}
func (h *BookingHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	if err := h.service.Abandon(r.Context(), draftID); err != nil {
		h.logger.Error("failed to abandon draft", "draft_id", draftID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) bookingInput(sess session.Session, req startDraftRequest) scheduling.StartBookingInput {
	providerID := req.ProviderID
	if providerID == "" {
		providerID = sess.ProviderID
	}
	return scheduling.StartBookingInput{
		Modality:        his.Modality(req.Modality),
		PatientID:       sess.PatientID,
		ProviderID:      providerID,
		Date:            req.Date,
		ReasonID:        req.ReasonID,
		SymptomIDs:      req.SymptomIDs,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
}
