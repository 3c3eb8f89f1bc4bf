package models

const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

// User — запись из таблицы users (хранилище учётных данных).
// Password — bcrypt/argon2id/werkzeug-хэш или, для старых строк, открытый пароль.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
	Role     string
	Active   bool
}
