package models

import (
	"database/sql"
	"strings"
	"time"
)

// Delivery — выдача корзин семье (таблица deliveries).
// RegisteredBy — кто внёс запись; NULL для аварийного администратора.
type Delivery struct {
	ID             int64
	FamilyID       int64
	FamilyName     string // из JOIN с families
	DeliveredOn    time.Time
	BasketQuantity int
	DeliveredBy    string
	Notes          sql.NullString
	RegisteredBy   sql.NullInt64
}

// DeliveryRequest — тело POST /registrar-entrega.
type DeliveryRequest struct {
	FamilyID       FlexInt `json:"familiaEntrega"`
	DeliveredOn    string  `json:"dataEntrega"`
	BasketQuantity FlexInt `json:"quantidadeCestas"`
	DeliveredBy    string  `json:"responsavelEntrega"`
	Notes          string  `json:"observacoes"`
}

// DeliveryFilter — фильтры GET /listar-entregas. Нулевые значения не фильтруют.
type DeliveryFilter struct {
	From     time.Time
	To       time.Time
	FamilyID int64
	Limit    int
}

type DeliveryResponse struct {
	ID          int64  `json:"id"`
	FamilyID    int64  `json:"familia_id"`
	DeliveredOn string `json:"data_entrega"`
	FamilyName  string `json:"familia_nome"`
	Responsible string `json:"responsavel"`
	Quantity    int    `json:"quantidade"`
	DeliveredBy string `json:"responsavel_entrega"`
}

// ToDelivery проверяет запрос. registeredBy == 0 — записи без автора.
func (r DeliveryRequest) ToDelivery(registeredBy int64) (*Delivery, error) {
	if r.FamilyID <= 0 {
		return nil, missing("familiaEntrega")
	}
	if strings.TrimSpace(r.DeliveredOn) == "" {
		return nil, missing("dataEntrega")
	}
	if r.BasketQuantity <= 0 {
		return nil, invalid("quantidadeCestas", "quantidadeCestas deve ser > 0")
	}
	if r.BasketQuantity > MaxCount {
		return nil, outOfRange("quantidadeCestas")
	}
	on, err := time.Parse(DateLayout, strings.TrimSpace(r.DeliveredOn))
	if err != nil {
		return nil, invalid("dataEntrega", "dataEntrega deve estar no formato AAAA-MM-DD")
	}

	return &Delivery{
		FamilyID:       int64(r.FamilyID),
		DeliveredOn:    on,
		BasketQuantity: int(r.BasketQuantity),
		DeliveredBy:    strings.TrimSpace(r.DeliveredBy),
		Notes:          nullString(r.Notes),
		RegisteredBy:   sql.NullInt64{Int64: registeredBy, Valid: registeredBy > 0},
	}, nil
}

func DeliveryToResponse(d Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:          d.ID,
		FamilyID:    d.FamilyID,
		DeliveredOn: FormatDate(d.DeliveredOn),
		FamilyName:  d.FamilyName,
		Responsible: d.DeliveredBy,
		Quantity:    d.BasketQuantity,
		DeliveredBy: d.DeliveredBy,
	}
}
