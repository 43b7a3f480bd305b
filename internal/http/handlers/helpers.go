// Package handlers holds the console's HTTP handlers. Each handler owns
// one resource surface and talks to the domain services; status mapping
// for workflow errors lives here so every endpoint reports the same way.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/internal/scheduling"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeWorkflowError maps scheduling and HIS errors onto HTTP statuses:
// local validation is 422 with the offending field, an expired or unknown
// draft is 404, a stale slot pick or a lost slot race is 409, and an HIS
// transport failure is 502 carrying the server's message when it sent one.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var ve *scheduling.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": ve.Message,
			"field": ve.Field,
		})
		return
	}

	if errors.Is(err, scheduling.ErrDraftNotFound) {
		jsonError(w, "draft not found or expired", http.StatusNotFound)
		return
	}

	if errors.Is(err, scheduling.ErrStaleSlotList) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         "slot list is stale, the draft date has changed",
			"staleSlotList": true,
		})
		return
	}

	var ce *scheduling.ConflictError
	if errors.As(err, &ce) {
		msg := ce.Message
		if msg == "" {
			msg = "the selected slot is no longer available"
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":             msg,
			"retryAfterResolve": true,
			"slots":             ce.Slots,
		})
		return
	}

	var apiErr *his.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "hospital system request failed"
		}
		jsonError(w, msg, http.StatusBadGateway)
		return
	}

	jsonError(w, "internal error", http.StatusInternalServerError)
}
