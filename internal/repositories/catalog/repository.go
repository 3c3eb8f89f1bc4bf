package catalog

import (
	"context"

	"Cestas/internal/models"
)

// Repository — справочник insumos и наборов (kits).
type Repository interface {
	ListSupplies(ctx context.Context) ([]models.Supply, error)
	// CreateSupply: имя занято — common.ErrAlreadyExists.
	CreateSupply(ctx context.Context, s *models.Supply) (int64, error)

	ListKits(ctx context.Context) ([]models.Kit, error)
	CreateKit(ctx context.Context, k *models.Kit) (int64, error)

	// KitItems: набора нет — common.ErrNotFound.
	KitItems(ctx context.Context, kitID int64) ([]models.KitItem, error)
	// UpsertKitItem задаёт количество insumo в наборе; повтор перезаписывает.
	UpsertKitItem(ctx context.Context, item *models.KitItem) (int64, error)
	DeleteKitItem(ctx context.Context, itemID int64) error
}
