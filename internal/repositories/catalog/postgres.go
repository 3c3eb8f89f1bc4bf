// Package catalog — insumos, наборы и их состав.
package catalog

import (
	"context"
	"fmt"

	"Cestas/internal/common"
	"Cestas/internal/dbx"
	"Cestas/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListSupplies(ctx context.Context) ([]models.Supply, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, unit FROM supplies ORDER BY name`)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Supply{}
	for rows.Next() {
		var s models.Supply
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateSupply(ctx context.Context, s *models.Supply) (int64, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO supplies (name, unit) VALUES ($1, $2) RETURNING id`, s.Name, s.Unit,
	).Scan(&s.ID)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return s.ID, nil
}

func (r *PostgresRepository) ListKits(ctx context.Context) ([]models.Kit, error) {
	query := `
		SELECT k.id, k.name, k.description, COUNT(i.id)
		FROM kits k
		LEFT JOIN kit_items i ON i.kit_id = k.id
		GROUP BY k.id, k.name, k.description
		ORDER BY k.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Kit{}
	for rows.Next() {
		var k models.Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Description, &k.ItemCount); err != nil {
			return nil, err
		}
		result = append(result, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateKit(ctx context.Context, k *models.Kit) (int64, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO kits (name, description) VALUES ($1, $2) RETURNING id`, k.Name, k.Description,
	).Scan(&k.ID)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return k.ID, nil
}

func (r *PostgresRepository) KitItems(ctx context.Context, kitID int64) ([]models.KitItem, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM kits WHERE id = $1)`, kitID).Scan(&exists); err != nil {
		return nil, dbx.MapError(err)
	}
	if !exists {
		return nil, common.ErrNotFound
	}

	query := `
		SELECT i.id, i.kit_id, i.supply_id, s.name, s.unit, i.quantity
		FROM kit_items i
		JOIN supplies s ON s.id = i.supply_id
		WHERE i.kit_id = $1
		ORDER BY s.name`

	rows, err := r.db.QueryContext(ctx, query, kitID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.KitItem{}
	for rows.Next() {
		var it models.KitItem
		if err := rows.Scan(&it.ID, &it.KitID, &it.SupplyID, &it.SupplyName, &it.Unit, &it.Quantity); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpsertKitItem: несуществующие kit или insumo — common.ErrReferenceNotFound.
func (r *PostgresRepository) UpsertKitItem(ctx context.Context, item *models.KitItem) (int64, error) {
	query := `
		INSERT INTO kit_items (kit_id, supply_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (kit_id, supply_id)
		DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, item.KitID, item.SupplyID, item.Quantity).Scan(&item.ID)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return item.ID, nil
}

func (r *PostgresRepository) DeleteKitItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kit_items WHERE id = $1`, itemID)
	if err != nil {
		return dbx.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
