package deliveries

import (
	"context"
	"time"

	"Cestas/internal/models"
)

type Repository interface {
	// Create: несуществующая семья — common.ErrReferenceNotFound.
	Create(ctx context.Context, d *models.Delivery) (int64, error)
	List(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error)
	// BasketsSince — сумма выданных корзин с даты since включительно.
	BasketsSince(ctx context.Context, since time.Time) (int, error)
}
