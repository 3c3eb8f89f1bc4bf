package models

import (
	"database/sql"
	"strings"
)

// Supply — insumo: продукт, из которого собирается корзина.
type Supply struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
	Unit string `json:"unidade"`
}

type SupplyRequest struct {
	Name string `json:"nome"`
	Unit string `json:"unidade"`
}

func (r SupplyRequest) ToSupply() (*Supply, error) {
	name, unit := strings.TrimSpace(r.Name), strings.TrimSpace(r.Unit)
	if name == "" || unit == "" {
		return nil, invalid("nome", "Informe nome e unidade.")
	}
	return &Supply{Name: name, Unit: unit}, nil
}

// Kit — шаблон корзины.
type Kit struct {
	ID          int64
	Name        string
	Description sql.NullString
	ItemCount   int
}

type KitRequest struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

func (r KitRequest) ToKit() (*Kit, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, invalid("nome", "Informe o nome do kit.")
	}
	return &Kit{Name: name, Description: nullString(r.Description)}, nil
}

type KitResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description *string `json:"descricao"`
	ItemCount   int     `json:"total_itens"`
}

func KitToResponse(k Kit) KitResponse {
	var desc *string
	if k.Description.Valid {
		desc = &k.Description.String
	}
	return KitResponse{ID: k.ID, Name: k.Name, Description: desc, ItemCount: k.ItemCount}
}

// KitItem — позиция набора: сколько единиц insumo входит в kit.
type KitItem struct {
	ID         int64   `json:"id"`
	KitID      int64   `json:"kit_id"`
	SupplyID   int64   `json:"insumo_id"`
	SupplyName string  `json:"insumo_nome"`
	Unit       string  `json:"unidade"`
	Quantity   float64 `json:"quantidade"`
}

type KitItemRequest struct {
	SupplyID FlexInt    `json:"insumo_id"`
	Quantity *FlexFloat `json:"quantidade"`
}

func (r KitItemRequest) ToKitItem(kitID int64) (*KitItem, error) {
	if r.SupplyID <= 0 || r.Quantity == nil {
		return nil, invalid("insumo_id", "Informe insumo_id e quantidade.")
	}
	if *r.Quantity <= 0 {
		return nil, invalid("quantidade", "Quantidade deve ser > 0.")
	}
	return &KitItem{KitID: kitID, SupplyID: int64(r.SupplyID), Quantity: float64(*r.Quantity)}, nil
}
