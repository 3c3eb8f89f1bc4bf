package users

import (
	"context"

	"Cestas/internal/models"
)

// Repository — хранилище учётных данных. Для ядра аутентификации только чтение.
type Repository interface {
	// FindByLogin ищет пользователя по имени или email (точное совпадение).
	// Не найден — common.ErrNotFound.
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
}
