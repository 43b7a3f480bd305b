package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/hospital-console/internal/availability"
	"github.com/careops/hospital-console/internal/his"
)

func withProviderParam(req *http.Request, providerID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("providerID", providerID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetAvailabilityRequiresDate(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{}, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet, "/api/providers/doc-7/availability", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailabilityCanonicalizesDate(t *testing.T) {
	resolver := &fakeResolver{slots: []availability.Slot{{Label: "09:00 AM", Value: "09:00", SlotID: 1}}}
	h := NewAvailabilityHandler(resolver, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet,
		"/api/providers/doc-7/availability?date=10-03-2025&modality=virtual", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-10", resolver.lastDate)
	assert.Equal(t, his.ModalityVirtual, resolver.lastOpts.Modality)

	var resp availabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Len(t, resp.Slots, 1)
}

func TestGetAvailabilityDefaultsToOPD(t *testing.T) {
	resolver := &fakeResolver{}
	h := NewAvailabilityHandler(resolver, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet,
		"/api/providers/doc-7/availability?date=2025-03-10", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, his.ModalityOPD, resolver.lastOpts.Modality)
}

func TestGetAvailabilityPassesOwnSlot(t *testing.T) {
	resolver := &fakeResolver{}
	h := NewAvailabilityHandler(resolver, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet,
		"/api/providers/doc-7/availability?date=2025-03-10&ownSlot=4", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, resolver.lastOpts.OwnSlotID)
}

func TestGetAvailabilityRejectsBadOwnSlot(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{}, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet,
		"/api/providers/doc-7/availability?date=2025-03-10&ownSlot=abc", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailabilityEmptyDayIsEmptyList(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{}, nil)

	req := withProviderParam(httptest.NewRequest(http.MethodGet,
		"/api/providers/doc-7/availability?date=2025-03-10", nil), "doc-7")
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp availabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}
