package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"Cestas/internal/common"

	"github.com/lib/pq"
)

// коды SQLSTATE, которые различает слой данных
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// MapError переводит ошибки драйвера в sentinel-ошибки common.
// Прочие ошибки оборачиваются как "db error".
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrReferenceNotFound, pqErr.Constraint)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
