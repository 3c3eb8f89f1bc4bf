package models

import (
	"database/sql"
	"strings"
	"time"
)

// StockEntry — поступление корзин на склад (таблица stock_entries).
type StockEntry struct {
	ID           int64
	ReceivedOn   time.Time
	Quantity     int
	Supplier     string
	Notes        sql.NullString
	RegisteredBy sql.NullInt64
}

// StockEntryRequest — тело POST /registrar-entrada-estoque.
type StockEntryRequest struct {
	Quantity FlexInt `json:"quantidade"`
	Supplier string  `json:"fornecedor"`
	Notes    string  `json:"observacoes"`
}

func (r StockEntryRequest) ToStockEntry(registeredBy int64) (*StockEntry, error) {
	if r.Quantity == 0 {
		return nil, missing("quantidade")
	}
	if r.Quantity < 0 {
		return nil, invalid("quantidade", "quantidade deve ser > 0")
	}
	if r.Quantity > MaxCount {
		return nil, outOfRange("quantidade")
	}
	return &StockEntry{
		Quantity:     int(r.Quantity),
		Supplier:     strings.TrimSpace(r.Supplier),
		Notes:        nullString(r.Notes),
		RegisteredBy: sql.NullInt64{Int64: registeredBy, Valid: registeredBy > 0},
	}, nil
}

// Движение по складу: приход (entrada) или выдача семье (saída).
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement — строка объединённого журнала движений.
type StockMovement struct {
	Kind        string
	Date        time.Time
	QuantityIn  int
	QuantityOut int
	Reason      string
	Responsible string
}

type StockMovementResponse struct {
	Date        string `json:"data_movimentacao"`
	QuantityIn  int    `json:"quantidade_entrada"`
	QuantityOut int    `json:"quantidade_saida"`
	Reason      string `json:"motivo_saida"`
	Responsible string `json:"responsavel"`
}

func StockMovementToResponse(m StockMovement) StockMovementResponse {
	return StockMovementResponse{
		Date:        FormatDate(m.Date),
		QuantityIn:  m.QuantityIn,
		QuantityOut: m.QuantityOut,
		Reason:      m.Reason,
		Responsible: m.Responsible,
	}
}
