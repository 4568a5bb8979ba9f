package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/auth"
	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
	"github.com/jhoicas/intellicx-crm/pkg/jwt"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

const secret = "auth-test-secret"

func newAuth() (*auth.AuthUseCase, *memstore.Store[entity.User], *metrics.Metrics) {
	users := memstore.New[entity.User]("core.users")
	m := metrics.New("auth_test")
	uc := auth.NewAuthUseCase(users, memstore.Users{Store: users}, auth.JWTConfig{
		Secret:     secret,
		ExpMinutes: 30,
		Issuer:     "intellicx-crm-test",
	}, m)
	return uc, users, m
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) *entity.User {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:     email,
		Password:  "clave-segura-123",
		FirstName: "Ana",
		LastName:  "Paz",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_CreaAgentePorDefecto(t *testing.T) {
	uc, users, _ := newAuth()

	u := register(t, uc, "  Ana@Acme.TEST ")

	assert.Equal(t, "ana@acme.test", u.Email)
	assert.Equal(t, entity.RoleAgent, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "clave-segura-123", u.PasswordHash)
	assert.Equal(t, 1, users.Len())
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _ := newAuth()
	register(t, uc, "ana@acme.test")

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "ANA@acme.test", Password: "otra-clave-123", FirstName: "Ana",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordCorto(t *testing.T) {
	uc, users, _ := newAuth()

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "ana@acme.test", Password: "corta", FirstName: "Ana",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, users.Len())
}

func TestRegister_SiempreCreaAgente(t *testing.T) {
	uc, users, _ := newAuth()
	u := register(t, uc, "ana@acme.test")

	assert.Equal(t, entity.RoleAgent, u.Role)
	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAgent, stored.Role)
}

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	uc, users, _ := newAuth()
	u := register(t, uc, "ana@acme.test")

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@acme.test", Password: "clave-segura-123"})
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ana@acme.test", claims.Email)
	assert.Equal(t, entity.RoleAgent, claims.Role)

	stored, _ := users.GetByID(context.Background(), u.ID)
	assert.NotNil(t, stored.LastLogin, "el login actualiza last_login")
	assert.NotNil(t, out.User.LastLogin)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth()
	register(t, uc, "ana@acme.test")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.test", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users, _ := newAuth()
	u := register(t, uc, "ana@acme.test")
	u.IsActive = false
	users.Put(u)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_CuentaIntentos(t *testing.T) {
	uc, _, m := newAuth()
	register(t, uc, "ana@acme.test")

	_, _ = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "mala"})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "clave-segura-123"})
	require.NoError(t, err)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	results := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "auth_test_auth_attempts_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				results[l.GetValue()] += metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, results["success"])
	assert.Equal(t, 1.0, results["invalid_credentials"])
}
