// Package stock — склад корзин: поступления, остаток и журнал движений.
package stock

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

func (r *PostgresRepository) CreateEntry(ctx context.Context, e *models.StockEntry) (int64, error) {
	query := `
		INSERT INTO stock_entries (quantity, supplier, notes, registered_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, received_on`

	err := r.db.QueryRowContext(ctx, query, e.Quantity, e.Supplier, e.Notes, e.RegisteredBy).
		Scan(&e.ID, &e.ReceivedOn)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return e.ID, nil
}

func (r *PostgresRepository) Balance(ctx context.Context) (int, error) {
	query := `
		SELECT (SELECT COALESCE(SUM(quantity), 0) FROM stock_entries)
		     - (SELECT COALESCE(SUM(basket_quantity), 0) FROM deliveries)`

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, dbx.MapError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Movements(ctx context.Context) ([]models.StockMovement, error) {
	// подписи motivo/responsavel — те, что показывает фронт
	query := `
		SELECT 'in' AS kind, received_on AS moved_on, quantity AS qty_in, 0 AS qty_out,
		       COALESCE(NULLIF(supplier, ''), 'Não informado') AS reason, 'Estoque' AS responsible
		FROM stock_entries
		UNION ALL
		SELECT 'out', delivered_on, 0, basket_quantity, 'Entrega a família', 'Sistema'
		FROM deliveries
		ORDER BY moved_on DESC, kind`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.Kind, &m.Date, &m.QuantityIn, &m.QuantityOut, &m.Reason, &m.Responsible); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
