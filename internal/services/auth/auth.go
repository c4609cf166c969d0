// Package auth разрешает сессионный токен в субъекта запроса и реализует
// вход супер-администратора, администратора больницы и сотрудников.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/lib/jwt"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// Сообщения об ошибках входа и проверки сессии.
const (
	MsgInvalidCredentials   = "invalid credentials"
	MsgInvalidSession       = "invalid token or user inactive"
	MsgHospitalInactive     = "hospital account is inactive"
	MsgSubscriptionInactive = "hospital subscription is not active"
)

// Repository описывает чтение учётных записей из хранилища.
type Repository interface {
	GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error)
	GetSuperAdminByID(ctx context.Context, id string) (*models.SuperAdmin, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordVerifier сравнивает пароль с bcrypt хешем.
type PasswordVerifier interface {
	Verify(plain, hash string) bool
}

// Metrics считает отказы аутентификации.
type Metrics interface {
	AuthFailure(reason string)
}

// Session — результат успешного входа.
type Session struct {
	Token      string
	SuperAdmin *models.SuperAdmin
	User       *models.User
}

// Service реализует проверку сессий и вход.
type Service struct {
	repo     Repository
	tokens   jwt.Maker
	verifier PasswordVerifier
	metrics  Metrics
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service.
func New(repo Repository, tokens jwt.Maker, verifier PasswordVerifier, metrics Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		verifier: verifier,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) reject(reason string, err *apperr.Error) *apperr.Error {
	s.metrics.AuthFailure(reason)
	return err
}

// Authenticate проверяет токен и заново читает владельца из хранилища.
// Роль и привязка к больнице берутся из хранилища, а не из токена, поэтому
// деактивация учётной записи действует с первого же запроса.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	const op = "auth.Authenticate"

	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, s.reject("invalid_token", apperr.From(err))
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, s.reject("invalid_token", apperr.Unauthenticated("invalid token").Wrap(err))
	}

	if role.IsSuperAdmin() {
		admin, err := s.repo.GetSuperAdminByID(ctx, claims.SubjectID())
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject("inactive_principal", apperr.Unauthenticated(MsgInvalidSession))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !admin.IsActive {
			return nil, s.reject("inactive_principal", apperr.Unauthenticated(MsgInvalidSession))
		}
		return &models.Principal{
			ID:         admin.ID,
			Email:      admin.Email,
			Role:       models.RoleSuperAdmin,
			SuperAdmin: admin,
		}, nil
	}

	user, err := s.repo.GetUserByID(ctx, claims.SubjectID())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.reject("inactive_principal", apperr.Unauthenticated(MsgInvalidSession))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, s.reject("inactive_principal", apperr.Unauthenticated(MsgInvalidSession))
	}
	storedRole, err := models.ParseRole(string(user.Role))
	if err != nil || storedRole.IsSuperAdmin() {
		s.log.Warn("user row carries unexpected role",
			sl.Op(op), slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
		return nil, s.reject("invalid_role", apperr.Unauthenticated(MsgInvalidSession))
	}

	return &models.Principal{
		ID:         user.ID,
		Email:      user.Email,
		Role:       storedRole,
		HospitalID: user.HospitalID,
		User:       user,
	}, nil
}

// LoginSuperAdmin проверяет учётные данные супер-администратора.
func (s *Service) LoginSuperAdmin(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.LoginSuperAdmin"

	admin, err := s.repo.GetSuperAdminByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.reject("invalid_credentials", apperr.Unauthenticated(MsgInvalidCredentials))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !s.verifier.Verify(password, admin.PasswordHash) || !admin.IsActive {
		return nil, s.reject("invalid_credentials", apperr.Unauthenticated(MsgInvalidCredentials))
	}

	token, err := s.tokens.GenerateToken(jwt.Payload{
		SubjectID: admin.ID,
		Email:     admin.Email,
		Role:      models.RoleSuperAdmin.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{Token: token, SuperAdmin: admin}, nil
}

// LoginAdmin проверяет учётные данные администратора больницы. Вход разрешён
// на любом этапе подключения, в том числе до создания больницы.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.LoginAdmin"

	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.Role.IsAdmin() {
		return nil, s.reject("invalid_credentials", apperr.Unauthenticated(MsgInvalidCredentials))
	}
	return s.startSession(ctx, op, user)
}

// LoginStaff проверяет учётные данные любого сотрудника и состояние его больницы.
// Администратор, ещё не создавший больницу, входит без этих проверок.
func (s *Service) LoginStaff(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.LoginStaff"

	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.HospitalID == nil {
		if !user.Role.IsAdmin() {
			return nil, s.reject("inactive_hospital", apperr.Unauthenticated(MsgHospitalInactive))
		}
		return s.startSession(ctx, op, user)
	}

	h := user.Hospital
	if h == nil || !h.IsActive || h.Status != models.HospitalActive {
		return nil, s.reject("inactive_hospital", apperr.Unauthenticated(MsgHospitalInactive))
	}
	if h.Subscription == nil || h.Subscription.Status != models.SubscriptionActive {
		return nil, s.reject("inactive_subscription", apperr.Unauthenticated(MsgSubscriptionInactive))
	}
	return s.startSession(ctx, op, user)
}

// checkCredentials находит пользователя и сверяет пароль. Неизвестный email,
// неверный пароль и неактивная учётная запись неразличимы для клиента.
func (s *Service) checkCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.reject("invalid_credentials", apperr.Unauthenticated(MsgInvalidCredentials))
	}
	if err != nil {
		return nil, err
	}
	if !s.verifier.Verify(password, user.PasswordHash) || !user.IsActive {
		return nil, s.reject("invalid_credentials", apperr.Unauthenticated(MsgInvalidCredentials))
	}
	return user, nil
}

func (s *Service) startSession(ctx context.Context, op string, user *models.User) (*Session, error) {
	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.LastLoginAt = &now

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("user logged in", sl.Op(op), slog.String("user_id", user.ID), slog.String("role", user.Role.String()))
	return &Session{Token: token, User: user}, nil
}

// IssueToken выпускает сессионный токен пользователя.
func (s *Service) IssueToken(user *models.User) (string, error) {
	const op = "auth.IssueToken"
	token, err := s.tokens.GenerateToken(jwt.Payload{
		SubjectID:  user.ID,
		Email:      user.Email,
		Role:       user.Role.String(),
		HospitalID: user.HospitalID,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
