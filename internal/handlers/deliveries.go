package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"Cestas/internal/auth"
	"Cestas/internal/models"
)

const msgFamilyNotFound = "Família não encontrada."

// ListDeliveries — GET /listar-entregas?dataInicio=&dataFim=&familia=
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter models.DeliveryFilter

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{
		{"dataInicio", &filter.From},
		{"dataFim", &filter.To},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, p.name+" deve estar no formato AAAA-MM-DD")
			return
		}
		*p.dst = t
	}

	if v := strings.TrimSpace(q.Get("familia")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			jsonError(w, http.StatusBadRequest, "familia deve ser um número")
			return
		}
		filter.FamilyID = id
	}

	list, err := h.deliveries.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	out := make([]models.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, models.DeliveryToResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateDelivery — POST /registrar-entrega. Автор записи — вошедший
// пользователь; у аварийного администратора автора нет (NULL).
func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var in models.DeliveryRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}

	p, _ := auth.PrincipalFrom(r.Context())
	d, err := in.ToDelivery(p.UserID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	ok, err := h.families.Exists(r.Context(), d.FamilyID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, msgFamilyNotFound)
		return
	}

	id, err := h.deliveries.Create(r.Context(), d)
	if err != nil {
		h.fail(w, r, err, msgFamilyNotFound)
		return
	}
	created(w, "Entrega registrada com sucesso!", id)
}
