// Package deliveries — журнал выдачи корзин семьям.
package deliveries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Cestas/internal/dbx"
	"Cestas/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Delivery) (int64, error) {
	query := `
		INSERT INTO deliveries (family_id, delivered_on, basket_quantity, delivered_by, notes, registered_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		d.FamilyID, d.DeliveredOn, d.BasketQuantity, d.DeliveredBy, d.Notes, d.RegisteredBy,
	).Scan(&d.ID)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return d.ID, nil
}

// List — новые сверху. Границы периода включительные.
func (r *PostgresRepository) List(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !filter.From.IsZero() {
		add("d.delivered_on >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("d.delivered_on <= $%d", filter.To)
	}
	if filter.FamilyID > 0 {
		add("d.family_id = $%d", filter.FamilyID)
	}

	query := `
		SELECT d.id, d.family_id, f.responsible_name, d.delivered_on,
		       d.basket_quantity, d.delivered_by, d.notes, d.registered_by
		FROM deliveries d
		JOIN families f ON f.id = d.family_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.delivered_on DESC, d.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Delivery{}
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(
			&d.ID, &d.FamilyID, &d.FamilyName, &d.DeliveredOn,
			&d.BasketQuantity, &d.DeliveredBy, &d.Notes, &d.RegisteredBy,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) BasketsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(basket_quantity), 0) FROM deliveries WHERE delivered_on >= $1`, since,
	).Scan(&n)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return n, nil
}
