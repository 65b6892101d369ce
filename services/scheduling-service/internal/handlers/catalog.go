package handlers

import (
	"net/http"

	"github.com/brotasbeauty/scheduler/libs/httpx"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type catalogResponse struct {
	Count    int                `json:"count"`
	Services []catalog.Offering `json:"services"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, _ *http.Request) {
	offerings := h.catalog.List()
	httpx.WriteJSON(w, http.StatusOK, catalogResponse{Count: len(offerings), Services: offerings})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.catalog.Get(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, codeNotFound, "service not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}
