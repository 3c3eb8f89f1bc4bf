package families

import (
	"context"

	"Cestas/internal/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Family) (int64, error)
	// List — активные семьи, новые сверху. Пустой query не фильтрует.
	List(ctx context.Context, query string) ([]models.Family, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Totals — число активных семей и сумма людей в них.
	Totals(ctx context.Context) (families int, people int, err error)
}
