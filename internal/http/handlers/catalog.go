package handlers

import (
	"context"
	"net/http"

	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/pkg/logging"
)

// CatalogClient is the subset of the HIS client the catalog endpoints use.
type CatalogClient interface {
	ListSymptoms(ctx context.Context) ([]his.CatalogItem, error)
	ListVisitReasons(ctx context.Context) ([]his.CatalogItem, error)
}

// CatalogHandler serves the symptom and visit-reason reference lists. A
// thin fetch-and-return boundary; the console never caches or reshapes
// these.
type CatalogHandler struct {
	client CatalogClient
	logger *logging.Logger
}

func NewCatalogHandler(client CatalogClient, logger *logging.Logger) *CatalogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogHandler{client: client, logger: logger}
}

// GetSymptoms returns the symptom catalog.
// GET /api/catalog/symptoms
func (h *CatalogHandler) GetSymptoms(w http.ResponseWriter, r *http.Request) {
	items, err := h.client.ListSymptoms(r.Context())
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if items == nil {
		items = []his.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"symptoms": items})
}

// GetVisitReasons returns the visit-reason catalog.
// GET /api/catalog/visit-reasons
func (h *CatalogHandler) GetVisitReasons(w http.ResponseWriter, r *http.Request) {
	items, err := h.client.ListVisitReasons(r.Context())
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if items == nil {
		items = []his.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visitReasons": items})
}
