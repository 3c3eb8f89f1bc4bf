package auth

import (
	"errors"
	"net/http"
)

// Ошибки входа и проверки доступа. Сравнивать через errors.Is.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAccountInactive    = errors.New("account inactive")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")

	// ErrStoreUnavailable наружу не отдаётся: логин уходит в аварийный путь,
	// проверка доступа отвечает 401.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// HTTPStatus — код ответа для ошибки входа/доступа.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidUser),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrStoreUnavailable):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message — текст для клиента (фронт показывает его как есть).
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "Informe usuário e senha."
	case errors.Is(err, ErrInvalidUser):
		return "Usuário inválido."
	case errors.Is(err, ErrInvalidPassword):
		return "Senha incorreta."
	case errors.Is(err, ErrAccountInactive):
		return "Conta inativa."
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrStoreUnavailable):
		return "Não autenticado."
	case errors.Is(err, ErrForbidden):
		return "Acesso negado."
	default:
		return "Erro interno."
	}
}
