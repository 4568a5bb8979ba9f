package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/jwt"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// MinPasswordLength longitud mínima aceptada para contraseñas.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	users    repository.Store[entity.User]
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.Store[entity.User], userRepo repository.UserRepository, jwtCfg JWTConfig, m *metrics.Metrics) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword valida la longitud mínima y devuelve el hash bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.Invalid("password", "debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// RegisterUser crea un usuario agent con password hasheado. Devuelve ErrEmailAlreadyExists si el email ya existe.
// Los roles elevados solo se asignan desde POST /api/users (admin).
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	user := &entity.User{}
	user.Defaults()
	user.ID = uuid.New().String()
	user.Email = email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Role = entity.RoleAgent
	user.Prepare(uc.now(), true)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	created, err := uc.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.ErrUserNotFound
	}
	return created, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Credenciales inválidas → ErrUnauthorized; usuario inactivo → ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		uc.metrics.AuthAttempt("invalid_credentials")
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.metrics.AuthAttempt("invalid_credentials")
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		uc.metrics.AuthAttempt("inactive")
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	user.Redact()
	uc.metrics.AuthAttempt("success")
	return &dto.LoginResponse{Token: token, User: user}, nil
}
