package handlers

import (
	"net/http"

	"Cestas/internal/auth"
	"Cestas/internal/models"
)

// CreateStockEntry — POST /registrar-entrada-estoque
func (h *Handler) CreateStockEntry(w http.ResponseWriter, r *http.Request) {
	var in models.StockEntryRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err, "")
		return
	}

	p, _ := auth.PrincipalFrom(r.Context())
	e, err := in.ToStockEntry(p.UserID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	id, err := h.stock.CreateEntry(r.Context(), e)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	created(w, "Entrada registrada com sucesso!", id)
}

// StockBalance — GET /saldo-estoque
func (h *Handler) StockBalance(w http.ResponseWriter, r *http.Request) {
	n, err := h.stock.Balance(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cestasEstoque": n})
}

// StockMovements — GET /movimentacoes-estoque
func (h *Handler) StockMovements(w http.ResponseWriter, r *http.Request) {
	list, err := h.stock.Movements(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	out := make([]models.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, models.StockMovementToResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}
