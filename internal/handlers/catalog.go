package handlers

import (
	"errors"
	"net/http"

	"Cestas/internal/common"
	"Cestas/internal/models"
)

const msgBadID = "ID inválido."

func (h *Handler) ListSupplies(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListSupplies(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateSupply — только admin.
func (h *Handler) CreateSupply(w http.ResponseWriter, r *http.Request) {
	var in models.SupplyRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}
	s, err := in.ToSupply()
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	id, err := h.catalog.CreateSupply(r.Context(), s)
	if errors.Is(err, common.ErrAlreadyExists) {
		jsonError(w, http.StatusConflict, "Insumo já existe.")
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	created(w, "Insumo criado!", id)
}

func (h *Handler) ListKits(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListKits(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	out := make([]models.KitResponse, 0, len(list))
	for _, k := range list {
		out = append(out, models.KitToResponse(k))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateKit — только admin.
func (h *Handler) CreateKit(w http.ResponseWriter, r *http.Request) {
	var in models.KitRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}
	k, err := in.ToKit()
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	id, err := h.catalog.CreateKit(r.Context(), k)
	if errors.Is(err, common.ErrAlreadyExists) {
		jsonError(w, http.StatusConflict, "Kit já existe.")
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	created(w, "Kit criado!", id)
}

// ListKitItems — GET /kits/{id}/itens
func (h *Handler) ListKitItems(w http.ResponseWriter, r *http.Request) {
	kitID, ok := idParam(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, msgBadID)
		return
	}
	items, err := h.catalog.KitItems(r.Context(), kitID)
	if err != nil {
		h.fail(w, r, err, "Kit não encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UpsertKitItem — POST /kits/{id}/itens, только admin. Повтор для того же
// insumo перезаписывает количество.
func (h *Handler) UpsertKitItem(w http.ResponseWriter, r *http.Request) {
	kitID, ok := idParam(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, msgBadID)
		return
	}
	var in models.KitItemRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}
	item, err := in.ToKitItem(kitID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	id, err := h.catalog.UpsertKitItem(r.Context(), item)
	if err != nil {
		h.fail(w, r, err, "Kit ou insumo não encontrado.")
		return
	}
	created(w, "Item adicionado/atualizado no kit!", id)
}

// DeleteKitItem — DELETE /kits/itens/{itemID}, только admin.
func (h *Handler) DeleteKitItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(r, "itemID")
	if !ok {
		jsonError(w, http.StatusBadRequest, msgBadID)
		return
	}
	if err := h.catalog.DeleteKitItem(r.Context(), itemID); err != nil {
		h.fail(w, r, err, "Item não encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Item removido!",
	})
}
