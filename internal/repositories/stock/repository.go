package stock

import (
	"context"

	"Cestas/internal/models"
)

type Repository interface {
	CreateEntry(ctx context.Context, e *models.StockEntry) (int64, error)
	// Balance — поступило минус выдано, в корзинах. Может быть отрицательным.
	Balance(ctx context.Context) (int, error)
	// Movements — приходы и выдачи одним списком, новые сверху.
	Movements(ctx context.Context) ([]models.StockMovement, error)
}
