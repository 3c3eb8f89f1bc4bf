package users

import (
	"context"

	"Cestas/internal/dbx"
	"Cestas/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByLogin: дубликаты — проблема данных, берём одну строку с наименьшим id.
func (r *PostgresRepository) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password, role, active FROM users
		 WHERE name = $1 OR email = $1
		 ORDER BY id
		 LIMIT 1`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, identifier).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Active)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return u, nil
}
