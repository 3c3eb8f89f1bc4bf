package handlers

import (
	"net/http"

	"Cestas/internal/models"
)

// SearchFamilies — GET /buscar-familias?q=
func (h *Handler) SearchFamilies(w http.ResponseWriter, r *http.Request) {
	list, err := h.families.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	out := make([]models.FamilyResponse, 0, len(list))
	for _, f := range list {
		out = append(out, models.FamilyToResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateFamily — POST /cadastrar-familia
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var in models.FamilyRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}
	f, err := in.ToFamily()
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	id, err := h.families.Create(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	created(w, "Família cadastrada com sucesso!", id)
}
