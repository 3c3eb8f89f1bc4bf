package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"Cestas/internal/common"
	"Cestas/internal/logging"
	"Cestas/internal/models"
)

// CredentialStore — то, что вход требует от хранилища пользователей.
type CredentialStore interface {
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
}

// EmergencyAdmin — аварийная учётка из конфигурации. Если задан PasswordHash,
// Password не используется.
type EmergencyAdmin struct {
	Username     string
	Password     string
	PasswordHash string
}

type Service struct {
	store        CredentialStore
	verifier     PasswordVerifier
	admin        EmergencyAdmin
	storeTimeout time.Duration
	log          logging.Logger
}

func NewService(store CredentialStore, verifier PasswordVerifier, admin EmergencyAdmin, storeTimeout time.Duration, log logging.Logger) *Service {
	if verifier == nil {
		verifier = NewVerifier()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		store:        store,
		verifier:     verifier,
		admin:        admin,
		storeTimeout: storeTimeout,
		log:          log,
	}
}

// Login проверяет учётные данные. Сначала users; если строки нет или БД
// недоступна — аварийный администратор. Возвращённый Principal ещё не выпущен:
// Method и сроки проставляет Backend.Issue.
func (s *Service) Login(ctx context.Context, identifier, password string) (Principal, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || strings.TrimSpace(password) == "" {
		return Principal{}, ErrMissingCredentials
	}

	user, err := s.lookup(ctx, identifier)
	switch {
	case err == nil:
		return s.loginUser(ctx, user, password)
	case errors.Is(err, common.ErrNotFound):
	default:
		s.log.Warn(ctx, "credential store lookup failed, trying emergency admin", "err", err)
	}

	return s.loginEmergency(ctx, identifier, password)
}

func (s *Service) lookup(ctx context.Context, identifier string) (*models.User, error) {
	if s.store == nil {
		return nil, common.ErrNotFound
	}
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	user, err := s.store.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *Service) loginUser(ctx context.Context, user *models.User, password string) (Principal, error) {
	if !user.Active {
		s.log.Info(ctx, "login rejected: account inactive", "username", user.Name)
		return Principal{}, ErrAccountInactive
	}
	if !s.verifier.Verify(password, user.Password) {
		s.log.Info(ctx, "login rejected: invalid password", "username", user.Name)
		return Principal{}, ErrInvalidPassword
	}

	s.log.Info(ctx, "user logged in", "username", user.Name, "role", user.Role)
	return Principal{UserID: user.ID, Name: user.Name, Role: user.Role}, nil
}

func (s *Service) loginEmergency(ctx context.Context, identifier, password string) (Principal, error) {
	if s.admin.Username == "" || identifier != s.admin.Username {
		return Principal{}, ErrInvalidUser
	}

	var ok bool
	if s.admin.PasswordHash != "" {
		ok = s.verifier.Verify(password, s.admin.PasswordHash)
	} else {
		ok = s.admin.Password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}
	if !ok {
		s.log.Info(ctx, "login rejected: invalid password", "username", identifier)
		return Principal{}, ErrInvalidPassword
	}

	s.log.Info(ctx, "emergency administrator logged in", "username", identifier)
	return Principal{Name: identifier, Role: models.RoleAdmin}, nil
}
