package models

import (
	"database/sql"
	"strings"
	"time"
)

// Family — семья-получатель из таблицы families.
// Данные ответственного лежат в отдельных колонках.
type Family struct {
	ID                   int64
	ResponsibleName      string
	ResponsibleCPF       string
	ResponsibleBirthDate time.Time
	ResponsibleGender    string
	Address              string
	Phone                string
	PeopleCount          int
	ChildrenCount        int
	MonthlyIncome        sql.NullFloat64
	SocialBenefits       sql.NullString
	HousingCondition     sql.NullString
	HousingType          sql.NullString
	SpecificNeeds        sql.NullString
	Notes                sql.NullString
	RegisteredAt         time.Time
	Active               bool

	// LastDelivery заполняется только при выборке списка
	LastDelivery sql.NullTime
}

// FamilyRequest — тело POST /cadastrar-familia.
type FamilyRequest struct {
	ResponsibleName      string    `json:"responsavelNome"`
	ResponsibleCPF       string    `json:"responsavelCPF"`
	ResponsibleBirthDate string    `json:"responsavelNascimento"`
	ResponsibleGender    string    `json:"responsavelGenero"`
	Address              string    `json:"responsavelEndereco"`
	Phone                string    `json:"telefone"`
	PeopleCount          FlexInt   `json:"numeroPessoas"`
	ChildrenCount        FlexInt   `json:"numeroFilhos"`
	MonthlyIncome        FlexFloat `json:"rendaMensal"`
	SocialBenefits       string    `json:"beneficiosSociais"`
	HousingCondition     string    `json:"condicaoMoradia"`
	HousingType          string    `json:"tipoMoradia"`
	SpecificNeeds        string    `json:"necessidadesEspecificas"`
	Notes                string    `json:"observacoes"`
}

// FamilyResponse — строка списка GET /buscar-familias.
type FamilyResponse struct {
	ID              int64  `json:"id"`
	ResponsibleName string `json:"responsavel_nome"`
	CPF             string `json:"cpf"`
	Phone           string `json:"telefone"`
	PeopleCount     int    `json:"numero_pessoas"`
	ChildrenCount   int    `json:"numero_filhos"`
	RegisteredAt    string `json:"data_cadastro"`
	LastDelivery    string `json:"ultimaEntrega"`
}

// ToFamily проверяет запрос и собирает запись для вставки.
func (r FamilyRequest) ToFamily() (*Family, error) {
	required := []struct {
		name  string
		value string
	}{
		{"responsavelNome", r.ResponsibleName},
		{"responsavelCPF", r.ResponsibleCPF},
		{"responsavelNascimento", r.ResponsibleBirthDate},
		{"responsavelGenero", r.ResponsibleGender},
		{"responsavelEndereco", r.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, missing(f.name)
		}
	}
	if r.PeopleCount == 0 {
		return nil, missing("numeroPessoas")
	}
	if r.PeopleCount < 0 {
		return nil, invalid("numeroPessoas", "numeroPessoas deve ser > 0")
	}
	if r.PeopleCount > MaxCount {
		return nil, outOfRange("numeroPessoas")
	}
	if r.ChildrenCount < 0 {
		return nil, invalid("numeroFilhos", "numeroFilhos não pode ser negativo")
	}
	if r.ChildrenCount > MaxCount {
		return nil, outOfRange("numeroFilhos")
	}

	birth, err := time.Parse(DateLayout, strings.TrimSpace(r.ResponsibleBirthDate))
	if err != nil {
		return nil, invalid("responsavelNascimento", "responsavelNascimento deve estar no formato AAAA-MM-DD")
	}

	f := &Family{
		ResponsibleName:      strings.TrimSpace(r.ResponsibleName),
		ResponsibleCPF:       strings.TrimSpace(r.ResponsibleCPF),
		ResponsibleBirthDate: birth,
		ResponsibleGender:    strings.TrimSpace(r.ResponsibleGender),
		Address:              strings.TrimSpace(r.Address),
		Phone:                strings.TrimSpace(r.Phone),
		PeopleCount:          int(r.PeopleCount),
		ChildrenCount:        int(r.ChildrenCount),
		SocialBenefits:       nullString(r.SocialBenefits),
		HousingCondition:     nullString(r.HousingCondition),
		HousingType:          nullString(r.HousingType),
		SpecificNeeds:        nullString(r.SpecificNeeds),
		Notes:                nullString(r.Notes),
		Active:               true,
	}
	if r.MonthlyIncome > 0 {
		f.MonthlyIncome = sql.NullFloat64{Float64: float64(r.MonthlyIncome), Valid: true}
	}
	return f, nil
}

// FamilyToResponse — маппинг записи в строку списка
func FamilyToResponse(f Family) FamilyResponse {
	last := "—"
	if f.LastDelivery.Valid {
		last = FormatDate(f.LastDelivery.Time)
	}
	phone := f.Phone
	if phone == "" {
		phone = "Não registrado"
	}
	return FamilyResponse{
		ID:              f.ID,
		ResponsibleName: f.ResponsibleName,
		CPF:             f.ResponsibleCPF,
		Phone:           phone,
		PeopleCount:     f.PeopleCount,
		ChildrenCount:   f.ChildrenCount,
		RegisteredAt:    FormatDate(f.RegisteredAt),
		LastDelivery:    last,
	}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
