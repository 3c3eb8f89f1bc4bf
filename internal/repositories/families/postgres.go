// Package families — хранилище семей-получателей.
package families

import (
	"context"
	"strings"

	"Cestas/internal/dbx"
	"Cestas/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Family) (int64, error) {
	query := `
		INSERT INTO families (
			responsible_name, responsible_cpf, responsible_birth_date, responsible_gender,
			address, phone, people_count, children_count, monthly_income,
			social_benefits, housing_condition, housing_type, specific_needs, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, registered_at`

	err := r.db.QueryRowContext(ctx, query,
		f.ResponsibleName, f.ResponsibleCPF, f.ResponsibleBirthDate, f.ResponsibleGender,
		f.Address, f.Phone, f.PeopleCount, f.ChildrenCount, f.MonthlyIncome,
		f.SocialBenefits, f.HousingCondition, f.HousingType, f.SpecificNeeds, f.Notes,
	).Scan(&f.ID, &f.RegisteredAt)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return f.ID, nil
}

// List ищет по имени ответственного (без учёта регистра) или по CPF.
func (r *PostgresRepository) List(ctx context.Context, query string) ([]models.Family, error) {
	sqlQuery := `
		SELECT f.id, f.responsible_name, f.responsible_cpf, f.phone,
		       f.people_count, f.children_count, f.registered_at,
		       (SELECT MAX(d.delivered_on) FROM deliveries d WHERE d.family_id = f.id) AS last_delivery
		FROM families f
		WHERE f.active = TRUE`
	var args []any
	if q := strings.TrimSpace(query); q != "" {
		sqlQuery += ` AND (f.responsible_name ILIKE $1 OR f.responsible_cpf LIKE $1)`
		args = append(args, "%"+escapeLike(q)+"%")
	}
	sqlQuery += ` ORDER BY f.registered_at DESC, f.id DESC`

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Family{}
	for rows.Next() {
		var f models.Family
		if err := rows.Scan(
			&f.ID, &f.ResponsibleName, &f.ResponsibleCPF, &f.Phone,
			&f.PeopleCount, &f.ChildrenCount, &f.RegisteredAt, &f.LastDelivery,
		); err != nil {
			return nil, err
		}
		f.Active = true
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM families WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, dbx.MapError(err)
	}
	return ok, nil
}

func (r *PostgresRepository) Totals(ctx context.Context) (int, int, error) {
	var families, people int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(people_count), 0) FROM families WHERE active = TRUE`,
	).Scan(&families, &people)
	if err != nil {
		return 0, 0, dbx.MapError(err)
	}
	return families, people, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE во вводе пользователя.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
